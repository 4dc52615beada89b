package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/locus/internal/utils"
)

type configTestCase struct {
	name            string
	globalContent   string
	localContent    string
	explicitPath    string
	expectFormat    string
	expectDepth     *int
	expectMaxFiles  *int
	expectIgnore    []string
	expectClipboard *bool
}

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func intPointer(value int) *int {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []configTestCase{
		{
			name:            "local_overrides_global",
			globalContent:   "tree:\n  format: json\n  depth: 2\n  max_files: 5\n  clipboard: true\n",
			localContent:    "tree:\n  format: xml\n  depth: 6\n  ignore:\n    - coverage\n    - coverage\n",
			expectFormat:    "xml",
			expectDepth:     intPointer(6),
			expectMaxFiles:  intPointer(5),
			expectIgnore:    []string{"coverage"},
			expectClipboard: boolPointer(true),
		},
		{
			name:          "explicit_path_only",
			globalContent: "tree:\n  format: json\n",
			explicitPath:  "custom.yaml",
			expectFormat:  "markup",
			expectIgnore:  []string{},
		},
		{
			name:            "zero_values_are_kept",
			localContent:    "tree:\n  max_files: 0\n  clipboard: false\n",
			expectFormat:    "",
			expectMaxFiles:  intPointer(0),
			expectIgnore:    []string{},
			expectClipboard: boolPointer(false),
		},
		{
			name:         "no_files",
			expectFormat: "",
			expectIgnore: []string{},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDir := t.TempDir()
			workingDir := t.TempDir()
			configDir := filepath.Join(homeDir, utils.GlobalConfigDirectoryName)
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				t.Fatalf("create config dir: %v", err)
			}
			if testCase.globalContent != "" {
				globalPath := filepath.Join(configDir, utils.ConfigFileName)
				if err := os.WriteFile(globalPath, []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global config: %v", err)
				}
			}
			if testCase.localContent != "" {
				localPath := filepath.Join(workingDir, utils.ConfigFileName)
				if err := os.WriteFile(localPath, []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local config: %v", err)
				}
			}
			if testCase.explicitPath != "" {
				target := filepath.Join(workingDir, testCase.explicitPath)
				if err := os.WriteFile(target, []byte("tree:\n  format: markup\n"), 0o600); err != nil {
					t.Fatalf("write explicit config: %v", err)
				}
			}

			t.Setenv("HOME", homeDir)
			t.Setenv("USERPROFILE", homeDir)

			loadedConfig, err := LoadApplicationConfiguration(LoadOptions{
				WorkingDirectory: workingDir,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}

			if loadedConfig.Tree.Format != testCase.expectFormat {
				t.Fatalf("expected format %s, got %s", testCase.expectFormat, loadedConfig.Tree.Format)
			}
			assertIntPointer(t, "depth", loadedConfig.Tree.Depth, testCase.expectDepth)
			assertIntPointer(t, "max_files", loadedConfig.Tree.MaxFiles, testCase.expectMaxFiles)
			if !reflect.DeepEqual(loadedConfig.Tree.Ignore, testCase.expectIgnore) {
				t.Fatalf("expected ignore %v, got %v", testCase.expectIgnore, loadedConfig.Tree.Ignore)
			}
			if testCase.expectClipboard == nil {
				if loadedConfig.Tree.Clipboard != nil {
					t.Fatalf("expected no clipboard override")
				}
			} else if loadedConfig.Tree.Clipboard == nil || *loadedConfig.Tree.Clipboard != *testCase.expectClipboard {
				t.Fatalf("unexpected clipboard value")
			}
		})
	}
}

func assertIntPointer(t *testing.T, field string, actual *int, expected *int) {
	t.Helper()
	if expected == nil {
		if actual != nil {
			t.Fatalf("expected no %s override, got %d", field, *actual)
		}
		return
	}
	if actual == nil || *actual != *expected {
		t.Fatalf("unexpected %s value", field)
	}
}

func TestLoadApplicationConfigurationRejectsDirectory(t *testing.T) {
	homeDir := t.TempDir()
	t.Setenv("HOME", homeDir)
	t.Setenv("USERPROFILE", homeDir)
	workingDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(workingDir, utils.ConfigFileName), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if _, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDir}); err == nil {
		t.Fatalf("expected error for directory in place of configuration file")
	}
}

func TestTreeConfigurationMergeClonesPointers(t *testing.T) {
	override := TreeConfiguration{Depth: intPointer(3), Clipboard: boolPointer(true)}
	merged := TreeConfiguration{}.merge(override)
	*override.Depth = 9
	*override.Clipboard = false
	if *merged.Depth != 3 || !*merged.Clipboard {
		t.Fatalf("merged configuration shares pointers with override")
	}
}
