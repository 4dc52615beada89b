package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/temirov/locus/internal/commands"
	"github.com/temirov/locus/internal/config"
	"github.com/temirov/locus/internal/output"
	"github.com/temirov/locus/internal/services/clipboard"
	"github.com/temirov/locus/internal/types"
)

const (
	treeUse              = types.CommandTree + " [paths...]"
	treeAlias            = "t"
	treeShortDescription = "display a filtered directory tree (" + treeAlias + ")"
	// treeLongDescription provides detailed help for the tree command.
	treeLongDescription = `Render a depth-limited tree for one or more directories.
Hidden entries and common dependency or build folders are skipped, directories are listed
before files, and at most --max-files files are shown per directory.`
	// treeUsageExample demonstrates tree command usage.
	treeUsageExample = `  # Two levels below the current directory
  locus tree --depth 3

  # Skip a coverage folder and emit JSON
  locus tree --ignore coverage --format json ./service

  # Copy the map to the clipboard as well
  locus tree --clipboard .`

	depthFlagName             = "depth"
	depthFlagDescription      = "maximum depth; the root counts as level one"
	maxFilesFlagName          = "max-files"
	maxFilesFlagDescription   = "maximum files listed per directory"
	ignoreFlagName            = "ignore"
	ignoreFlagShorthand       = "e"
	ignoreFlagDescription     = "additional entry name to ignore (repeatable)"
	noIgnoreFileFlagName      = "no-ignore-file"
	noIgnoreFileDescription   = "do not read names from the root's ignore file"
	formatFlagName            = "format"
	formatFlagDescription     = "output format: raw, markup, json, or xml"
	clipboardFlagName         = "clipboard"
	clipboardFlagDescription  = "copy the rendered tree to the system clipboard"
	copyOnlyFlagName          = "copy-only"
	copyOnlyFlagDescription   = "copy the rendered tree to the clipboard without printing it"
	colorFlagName             = "color"
	colorFlagDescription      = "colorize raw output: auto, always, or never"
	defaultMaxDepth           = 4
	defaultMaxFilesPerDir     = 10
	colorModeAuto             = "auto"
	colorModeAlways           = "always"
	colorModeNever            = "never"
	invalidFormatMessage      = "Invalid format value '%s'"
	invalidColorMessage       = "Invalid color value '%s'"
	clipboardCopyErrorFormat  = "copy to clipboard: %w"
	clipboardMissingMessage   = "clipboard service is not configured"
	logTreeBuilt              = "tree built"
	logFieldRoot              = "root"
	logFieldIgnore            = "ignore"
	treeOutputTrailingNewline = "\n"
)

// treeFlagValues holds the raw flag values of one tree invocation.
type treeFlagValues struct {
	depth        int
	maxFiles     int
	ignoreNames  []string
	noIgnoreFile bool
	format       string
	clipboard    bool
	copyOnly     bool
	color        string
}

// treeCommandOptions is the fully resolved request executed by runTreeCommand.
type treeCommandOptions struct {
	Paths            []string
	WorkingDirectory string
	MaxDepth         int
	MaxFiles         int
	Ignore           []string
	ConfiguredIgnore []string
	UseIgnoreFile    bool
	Format           string
	Colored          bool
	ClipboardEnabled bool
	CopyOnly         bool
	Clipboard        clipboard.Copier
	Writer           io.Writer
	Logger           *zap.Logger
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(app *application) *cobra.Command {
	var flagValues treeFlagValues

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Long:    treeLongDescription,
		Example: treeUsageExample,
		Args:    cobra.ArbitraryArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if app.showVersion {
				return nil
			}
			if len(arguments) == 0 {
				arguments = []string{defaultPath}
			}
			loadedConfiguration, loadError := app.loadConfiguration()
			if loadError != nil {
				return loadError
			}
			workingDirectory, workingDirectoryError := app.workingDirectory()
			if workingDirectoryError != nil {
				return workingDirectoryError
			}
			options, resolveError := resolveTreeOptions(command, flagValues, loadedConfiguration.Tree)
			if resolveError != nil {
				return resolveError
			}
			options.Paths = arguments
			options.WorkingDirectory = workingDirectory
			options.Clipboard = app.dependencies.Clipboard
			options.Writer = app.dependencies.Output
			options.Logger = app.dependencies.Logger
			colored, colorError := resolveColor(options.Format, flagValues.color, command.Flags().Changed(colorFlagName), loadedConfiguration.Tree.Color, app.dependencies.Output, app.dependencies.IsTerminal)
			if colorError != nil {
				return colorError
			}
			options.Colored = colored
			return runTreeCommand(command.Context(), options)
		},
	}

	treeCommand.Flags().IntVar(&flagValues.depth, depthFlagName, defaultMaxDepth, depthFlagDescription)
	treeCommand.Flags().IntVar(&flagValues.maxFiles, maxFilesFlagName, defaultMaxFilesPerDir, maxFilesFlagDescription)
	treeCommand.Flags().StringArrayVarP(&flagValues.ignoreNames, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	treeCommand.Flags().StringVar(&flagValues.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	treeCommand.Flags().StringVar(&flagValues.color, colorFlagName, colorModeAuto, colorFlagDescription)
	registerToggleFlag(treeCommand.Flags(), &flagValues.noIgnoreFile, noIgnoreFileFlagName, false, noIgnoreFileDescription)
	registerToggleFlag(treeCommand.Flags(), &flagValues.clipboard, clipboardFlagName, false, clipboardFlagDescription)
	registerToggleFlag(treeCommand.Flags(), &flagValues.copyOnly, copyOnlyFlagName, false, copyOnlyFlagDescription)
	return treeCommand
}

// resolveTreeOptions applies precedence: explicit flag, then configuration, then built-in default.
func resolveTreeOptions(command *cobra.Command, flagValues treeFlagValues, treeConfiguration config.TreeConfiguration) (treeCommandOptions, error) {
	flags := command.Flags()
	options := treeCommandOptions{
		MaxDepth:         flagValues.depth,
		MaxFiles:         flagValues.maxFiles,
		Ignore:           flagValues.ignoreNames,
		ConfiguredIgnore: treeConfiguration.Ignore,
		UseIgnoreFile:    !flagValues.noIgnoreFile,
		Format:           flagValues.format,
		ClipboardEnabled: flagValues.clipboard,
		CopyOnly:         flagValues.copyOnly,
	}
	if !flags.Changed(depthFlagName) && treeConfiguration.Depth != nil {
		options.MaxDepth = *treeConfiguration.Depth
	}
	if !flags.Changed(maxFilesFlagName) && treeConfiguration.MaxFiles != nil {
		options.MaxFiles = *treeConfiguration.MaxFiles
	}
	if !flags.Changed(noIgnoreFileFlagName) && treeConfiguration.UseIgnoreFile != nil {
		options.UseIgnoreFile = *treeConfiguration.UseIgnoreFile
	}
	if !flags.Changed(formatFlagName) && treeConfiguration.Format != "" {
		options.Format = treeConfiguration.Format
	}
	if !flags.Changed(clipboardFlagName) && treeConfiguration.Clipboard != nil {
		options.ClipboardEnabled = *treeConfiguration.Clipboard
	}

	options.Format = strings.ToLower(strings.TrimSpace(options.Format))
	if !output.IsSupportedFormat(options.Format) {
		return treeCommandOptions{}, fmt.Errorf(invalidFormatMessage, options.Format)
	}
	if options.MaxDepth < 1 {
		return treeCommandOptions{}, fmt.Errorf("--%s %d: %w", depthFlagName, options.MaxDepth, commands.ErrInvalidDepth)
	}
	if options.MaxFiles < 0 {
		return treeCommandOptions{}, fmt.Errorf("--%s %d: %w", maxFilesFlagName, options.MaxFiles, commands.ErrInvalidFileLimit)
	}
	return options, nil
}

// resolveColor decides whether raw output carries ANSI styling.
func resolveColor(format string, flagMode string, flagChanged bool, configuredMode string, writer io.Writer, isTerminal func(io.Writer) bool) (bool, error) {
	mode := flagMode
	if !flagChanged && configuredMode != "" {
		mode = configuredMode
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case colorModeAlways:
		return format == types.FormatRaw, nil
	case colorModeNever:
		return false, nil
	case colorModeAuto, "":
		return format == types.FormatRaw && isTerminal != nil && isTerminal(writer), nil
	default:
		return false, fmt.Errorf(invalidColorMessage, mode)
	}
}

// isTerminalWriter reports whether writer is a file attached to a terminal.
func isTerminalWriter(writer io.Writer) bool {
	file, isFile := writer.(*os.File)
	if !isFile {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// runTreeCommand builds every requested root, renders the result, and optionally copies it.
func runTreeCommand(ctx context.Context, options treeCommandOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	outputWriter := options.Writer
	if outputWriter == nil {
		outputWriter = os.Stdout
	}
	logger := options.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	validatedPaths, pathValidationError := resolveAndValidatePaths(options.WorkingDirectory, options.Paths)
	if pathValidationError != nil {
		return pathValidationError
	}

	treeNodes, buildError := buildTrees(ctx, validatedPaths, options, logger)
	if buildError != nil {
		return buildError
	}

	style := output.NewStyle(options.Colored)
	rendered, renderError := output.Render(options.Format, treeNodes, style)
	if renderError != nil {
		return renderError
	}

	copyRequested := options.ClipboardEnabled || options.CopyOnly
	if copyRequested && options.Clipboard == nil {
		return errors.New(clipboardMissingMessage)
	}

	if !options.CopyOnly {
		if _, writeError := io.WriteString(outputWriter, rendered); writeError != nil {
			return writeError
		}
		if !strings.HasSuffix(rendered, treeOutputTrailingNewline) {
			if _, writeError := io.WriteString(outputWriter, treeOutputTrailingNewline); writeError != nil {
				return writeError
			}
		}
	}

	if copyRequested {
		clipboardText := rendered
		if style.Colored() {
			plainText, plainRenderError := output.Render(options.Format, treeNodes, output.PlainStyle())
			if plainRenderError != nil {
				return plainRenderError
			}
			clipboardText = plainText
		}
		if copyError := options.Clipboard.Copy(clipboardText); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}
	return nil
}

// buildTrees synthesizes each root concurrently with its own TreeBuilder and keeps the input order.
func buildTrees(ctx context.Context, validatedPaths []types.ValidatedPath, options treeCommandOptions, logger *zap.Logger) ([]*types.TreeNode, error) {
	treeNodes := make([]*types.TreeNode, len(validatedPaths))
	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(runtime.NumCPU())
	sanitize := output.SanitizerFor(options.Format)

	for index, validatedPath := range validatedPaths {
		index, validatedPath := index, validatedPath
		group.Go(func() error {
			if contextError := groupContext.Err(); contextError != nil {
				return contextError
			}
			extraIgnore := options.Ignore
			if validatedPath.IsDir {
				combinedIgnore, ignoreLoadError := config.LoadCombinedIgnoreNames(validatedPath.AbsolutePath, options.ConfiguredIgnore, options.Ignore, options.UseIgnoreFile)
				if ignoreLoadError != nil {
					return ignoreLoadError
				}
				extraIgnore = combinedIgnore
			}
			treeBuilder, builderError := commands.NewTreeBuilder(
				commands.TraversalConfig{
					RootDirectory:        validatedPath.AbsolutePath,
					MaxDepth:             options.MaxDepth,
					MaxFilesPerDirectory: options.MaxFiles,
					ExtraIgnore:          extraIgnore,
				},
				commands.BuilderOptions{
					Sanitize: sanitize,
					Logger:   logger,
				},
			)
			if builderError != nil {
				return builderError
			}
			treeNode, generateError := treeBuilder.Generate()
			if generateError != nil {
				return generateError
			}
			logger.Debug(logTreeBuilt, zap.String(logFieldRoot, validatedPath.AbsolutePath), zap.Strings(logFieldIgnore, treeBuilder.EffectiveIgnore()))
			treeNodes[index] = treeNode
			return nil
		})
	}

	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}
	return treeNodes, nil
}
