package commands

import (
	"errors"
	"sort"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/locus/internal/utils"
)

// defaultIgnoreNames lists entry names excluded from every tree. Matching is exact
// and case-sensitive against the base name only.
var defaultIgnoreNames = [...]string{
	"__pycache__",
	"node_modules",
	"venv",
	"myEnv",
	".git",
	".idea",
	".vscode",
	"dist",
	"build",
	"target",
	"bin",
	"obj",
	"vendor",
}

var (
	// ErrInvalidDepth is returned for a maximum depth below one.
	ErrInvalidDepth = errors.New("maximum depth must be at least 1")
	// ErrInvalidFileLimit is returned for a negative per-directory file limit.
	ErrInvalidFileLimit = errors.New("maximum files per directory must not be negative")
)

// LabelSanitizer neutralizes characters a renderer would interpret as formatting directives.
type LabelSanitizer func(name string) string

// TraversalConfig holds the per-invocation limits of a tree build.
type TraversalConfig struct {
	RootDirectory        string
	MaxDepth             int
	MaxFilesPerDirectory int
	ExtraIgnore          []string
}

// BuilderOptions carries collaborators injected into a TreeBuilder. Zero values select defaults.
type BuilderOptions struct {
	FileSystem afero.Fs
	Sanitize   LabelSanitizer
	Logger     *zap.Logger
}

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	rootDirectory        string
	maxDepth             int
	maxFilesPerDirectory int
	effectiveIgnore      map[string]struct{}
	fileSystem           afero.Fs
	sanitize             LabelSanitizer
	logger               *zap.Logger
}

// DefaultIgnoreNames returns a copy of the built-in ignore names.
func DefaultIgnoreNames() []string {
	names := make([]string, len(defaultIgnoreNames))
	copy(names, defaultIgnoreNames[:])
	return names
}

// NewTreeBuilder validates the limits and computes the builder's own ignore set.
func NewTreeBuilder(config TraversalConfig, options BuilderOptions) (*TreeBuilder, error) {
	if config.MaxDepth < 1 {
		return nil, ErrInvalidDepth
	}
	if config.MaxFilesPerDirectory < 0 {
		return nil, ErrInvalidFileLimit
	}

	extraIgnoreNames := utils.NormalizeNames(config.ExtraIgnore)
	effectiveIgnore := make(map[string]struct{}, len(defaultIgnoreNames)+len(extraIgnoreNames))
	for _, ignoreName := range defaultIgnoreNames {
		effectiveIgnore[ignoreName] = struct{}{}
	}
	for _, ignoreName := range extraIgnoreNames {
		effectiveIgnore[ignoreName] = struct{}{}
	}

	treeBuilder := &TreeBuilder{
		rootDirectory:        config.RootDirectory,
		maxDepth:             config.MaxDepth,
		maxFilesPerDirectory: config.MaxFilesPerDirectory,
		effectiveIgnore:      effectiveIgnore,
		fileSystem:           options.FileSystem,
		sanitize:             options.Sanitize,
		logger:               options.Logger,
	}
	if treeBuilder.fileSystem == nil {
		treeBuilder.fileSystem = afero.NewOsFs()
	}
	if treeBuilder.sanitize == nil {
		treeBuilder.sanitize = func(name string) string { return name }
	}
	if treeBuilder.logger == nil {
		treeBuilder.logger = zap.NewNop()
	}
	return treeBuilder, nil
}

// EffectiveIgnore returns the sorted names this builder excludes.
func (treeBuilder *TreeBuilder) EffectiveIgnore() []string {
	names := make([]string, 0, len(treeBuilder.effectiveIgnore))
	for ignoreName := range treeBuilder.effectiveIgnore {
		names = append(names, ignoreName)
	}
	sort.Strings(names)
	return names
}

// isExcluded reports whether an entry is hidden or listed in the ignore set.
func (treeBuilder *TreeBuilder) isExcluded(name string) bool {
	if len(name) > 0 && name[0] == '.' {
		return true
	}
	_, ignored := treeBuilder.effectiveIgnore[name]
	return ignored
}
