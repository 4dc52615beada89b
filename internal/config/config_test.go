package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/locus/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreNamesSkipsCommentsAndBlanks verifies parsing of the ignore file.
func TestLoadIgnoreNamesSkipsCommentsAndBlanks(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	ignoreFilePath := filepath.Join(rootDirectory, utils.IgnoreFileName)
	writeTestFile(testingHandle, ignoreFilePath, "# generated output\ncoverage\n\n  tmp/  \nlogs\n")

	ignoreNames, loadError := LoadIgnoreNames(ignoreFilePath)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreNames failed: %v", loadError)
	}
	expectedNames := []string{"coverage", "tmp", "logs"}
	if !reflect.DeepEqual(ignoreNames, expectedNames) {
		testingHandle.Fatalf("unexpected names: got %v want %v", ignoreNames, expectedNames)
	}
}

// TestLoadIgnoreNamesMissingFile verifies that a missing ignore file is not an error.
func TestLoadIgnoreNamesMissingFile(testingHandle *testing.T) {
	ignoreNames, loadError := LoadIgnoreNames(filepath.Join(testingHandle.TempDir(), utils.IgnoreFileName))
	if loadError != nil {
		testingHandle.Fatalf("expected no error, got %v", loadError)
	}
	if len(ignoreNames) != 0 {
		testingHandle.Fatalf("expected no names, got %v", ignoreNames)
	}
}

// TestLoadCombinedIgnoreNames verifies merge order, deduplication, and the ignore file toggle.
func TestLoadCombinedIgnoreNames(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.IgnoreFileName), "coverage\nshared\n")

	testCases := []struct {
		name          string
		useIgnoreFile bool
		expectedNames []string
	}{
		{name: "with ignore file", useIgnoreFile: true, expectedNames: []string{"configured", "shared", "coverage", "flagged"}},
		{name: "without ignore file", useIgnoreFile: false, expectedNames: []string{"configured", "shared", "flagged"}},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			combinedNames, loadError := LoadCombinedIgnoreNames(
				rootDirectory,
				[]string{"configured", "shared"},
				[]string{"flagged", " shared "},
				testCase.useIgnoreFile,
			)
			if loadError != nil {
				testingHandle.Fatalf("LoadCombinedIgnoreNames failed: %v", loadError)
			}
			if !reflect.DeepEqual(combinedNames, testCase.expectedNames) {
				testingHandle.Fatalf("unexpected names: got %v want %v", combinedNames, testCase.expectedNames)
			}
		})
	}
}

// TestLoadCombinedIgnoreNamesDoesNotAliasConfiguredNames verifies the configured slice is never modified.
func TestLoadCombinedIgnoreNamesDoesNotAliasConfiguredNames(testingHandle *testing.T) {
	configuredNames := make([]string, 1, 4)
	configuredNames[0] = "configured"
	if _, loadError := LoadCombinedIgnoreNames(testingHandle.TempDir(), configuredNames, []string{"flagged"}, false); loadError != nil {
		testingHandle.Fatalf("LoadCombinedIgnoreNames failed: %v", loadError)
	}
	if extended := configuredNames[:2]; extended[1] != "" {
		testingHandle.Fatalf("configured names backing array was modified: %v", extended)
	}
}
