// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/locus/internal/config"
	"github.com/temirov/locus/internal/services/clipboard"
	"github.com/temirov/locus/internal/types"
	"github.com/temirov/locus/internal/utils"
)

const (
	versionFlagName      = "version"
	configFlagName       = "config"
	debugFlagName        = "debug"
	versionTemplate      = "locus version: %s\n"
	defaultPath          = "."
	rootUse              = "locus"
	rootShortDescription = "locus command line interface"
	rootLongDescription  = `locus renders a compact map of a project directory.
Dependency, build, and editor folders are left out, hidden entries are never shown,
and long file listings are cut short so the map stays readable.
Use --format to select raw, markup, json, or xml output and --version to print the application version.`
	versionFlagDescription = "display application version"
	configFlagDescription  = "path to a configuration file used instead of the local " + utils.ConfigFileName
	debugFlagDescription   = "emit debug logs on stderr"

	initUse              = types.CommandInit
	initShortDescription = "write a default configuration file"
	initLongDescription  = `Write the default configuration into ./` + utils.ConfigFileName + ` or, with --global,
into ~/` + utils.GlobalConfigDirectoryName + `/` + utils.ConfigFileName + `.`
	globalFlagName        = "global"
	globalFlagDescription = "write the global configuration instead of the local one"
	forceFlagName         = "force"
	forceFlagDescription  = "overwrite an existing configuration file"
	initSuccessFormat     = "Configuration written to %s\n"

	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	loggerRebuildErrorFormat    = "enable debug logging: %w"
	// errorAbsolutePathFormat reports failure to resolve an absolute path.
	errorAbsolutePathFormat = "abs failed for '%s': %w"
	// errorPathMissingFormat reports a missing path.
	errorPathMissingFormat = "path '%s' does not exist"
	// errorStatFormat reports failure to retrieve file statistics.
	errorStatFormat = "stat failed for '%s': %w"
	// errorNoValidPaths indicates that all paths are invalid.
	errorNoValidPaths = "no valid paths"
)

// Dependencies carries the collaborators used by the commands. Zero values select process defaults.
type Dependencies struct {
	Output           io.Writer
	Errors           io.Writer
	Clipboard        clipboard.Copier
	Logger           *zap.Logger
	WorkingDirectory string
	// IsTerminal reports whether the writer is attached to a terminal; it drives --color auto.
	IsTerminal func(writer io.Writer) bool
}

// application holds the resolved dependencies shared by every command of one invocation.
type application struct {
	dependencies      Dependencies
	configurationPath string
	debugEnabled      bool
	showVersion       bool
}

// Execute runs the locus application with process defaults.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeToggleArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	if dependencies.Output == nil {
		dependencies.Output = os.Stdout
	}
	if dependencies.Errors == nil {
		dependencies.Errors = os.Stderr
	}
	if dependencies.Clipboard == nil {
		dependencies.Clipboard = clipboard.NewService()
	}
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.IsTerminal == nil {
		dependencies.IsTerminal = isTerminalWriter
	}
	app := &application{dependencies: dependencies}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if app.showVersion {
				return nil
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if app.showVersion {
				_, writeError := fmt.Fprintf(app.dependencies.Output, versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			if app.debugEnabled {
				debugLogger, loggerError := utils.NewApplicationLogger(true)
				if loggerError != nil {
					return fmt.Errorf(loggerRebuildErrorFormat, loggerError)
				}
				app.dependencies.Logger = debugLogger
			}
			return nil
		},
	}
	rootCommand.SetOut(dependencies.Output)
	rootCommand.SetErr(dependencies.Errors)
	rootCommand.PersistentFlags().BoolVar(&app.showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().StringVar(&app.configurationPath, configFlagName, "", configFlagDescription)
	registerToggleFlag(rootCommand.PersistentFlags(), &app.debugEnabled, debugFlagName, false, debugFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(app),
		createInitCommand(app),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// workingDirectory returns the injected working directory or the process one.
func (app *application) workingDirectory() (string, error) {
	if app.dependencies.WorkingDirectory != "" {
		return app.dependencies.WorkingDirectory, nil
	}
	currentDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return "", fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	return currentDirectory, nil
}

// loadConfiguration reads the global and local configuration files.
func (app *application) loadConfiguration() (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := app.workingDirectory()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, workingDirectoryError
	}
	loadedConfiguration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: app.configurationPath,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	return loadedConfiguration, nil
}

// createInitCommand returns the init subcommand.
func createInitCommand(app *application) *cobra.Command {
	var globalTarget bool
	var forceOverwrite bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Long:  initLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if app.showVersion {
				return nil
			}
			workingDirectory, workingDirectoryError := app.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			target := config.InitTargetLocal
			if globalTarget {
				target = config.InitTargetGlobal
			}
			writtenPath, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            forceOverwrite,
				WorkingDirectory: workingDirectory,
			})
			if initError != nil {
				return initError
			}
			app.dependencies.Logger.Debug("configuration initialized", zap.String("path", writtenPath), zap.String("command", types.CommandInit))
			_, writeError := fmt.Fprintf(app.dependencies.Output, initSuccessFormat, writtenPath)
			return writeError
		},
	}
	registerToggleFlag(initCommand.Flags(), &globalTarget, globalFlagName, false, globalFlagDescription)
	registerToggleFlag(initCommand.Flags(), &forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// resolveAndValidatePaths converts input paths to absolute form and validates their existence.
// Paths that resolve to the same location are reported once.
func resolveAndValidatePaths(workingDirectory string, inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		candidatePath := inputPath
		if !filepath.IsAbs(candidatePath) && workingDirectory != "" {
			candidatePath = filepath.Join(workingDirectory, candidatePath)
		}
		absolutePath, absolutePathError := filepath.Abs(candidatePath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		cleanPath := filepath.Clean(absolutePath)
		info, fileStatusError := os.Stat(cleanPath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		identityPath := cleanPath
		if resolvedPath, resolveError := filepath.EvalSymlinks(cleanPath); resolveError == nil {
			identityPath = resolvedPath
		}
		if _, ok := seen[identityPath]; ok {
			continue
		}
		seen[identityPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: cleanPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, fmt.Errorf(errorNoValidPaths)
	}
	return result, nil
}
