// Package commands contains the core logic for data collection for each command.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/temirov/locus/internal/types"
	"github.com/temirov/locus/internal/utils"
)

const (
	// accessDeniedLabel marks a directory whose listing was refused.
	accessDeniedLabel = "Access Denied"
	// fileLabelFormat annotates a file name with its size.
	fileLabelFormat = "%s (%s)"
	// truncatedLabelFormat reports how many files were left out of a listing.
	truncatedLabelFormat = "... %d more %s"

	// logAccessDenied is logged when a directory listing is refused.
	logAccessDenied = "access denied"
	// logFieldPath names the path field in log records.
	logFieldPath = "path"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "inspecting root %s: %w"
	// errorBuildTreeFormat is used when building the tree fails.
	errorBuildTreeFormat = "building tree for %s: %w"
	// errorReadDirectoryFormat is used when a directory cannot be read.
	errorReadDirectoryFormat = "reading directory %s: %w"

	// maxFollowedLinks bounds symlink resolution of the root label.
	maxFollowedLinks = 255
)

var (
	// ErrRootNotFound is returned when the root path does not exist.
	ErrRootNotFound = errors.New("root directory not found")
	// ErrRootNotDirectory is returned when the root path is not a directory.
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

type listedEntry struct {
	name      string
	path      string
	sizeBytes int64
}

// Generate walks the configured root and returns the synthesized tree.
// A refused listing becomes an access-denied marker; every other failure aborts the build.
func (treeBuilder *TreeBuilder) Generate() (*types.TreeNode, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(treeBuilder.rootDirectory)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, treeBuilder.rootDirectory, absolutePathError)
	}

	rootInformation, rootStatError := treeBuilder.fileSystem.Stat(absoluteRootPath)
	if rootStatError != nil {
		if errors.Is(rootStatError, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, absoluteRootPath)
		}
		return nil, fmt.Errorf(errorStatRootFormat, absoluteRootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDirectory, absoluteRootPath)
	}

	rootName := treeBuilder.sanitize(filepath.Base(treeBuilder.resolveSymlinks(absoluteRootPath)))
	rootNode := &types.TreeNode{
		Label: rootName,
		Kind:  types.NodeKindDirectory,
		Name:  rootName,
		Path:  absoluteRootPath,
	}
	if walkError := treeBuilder.walk(absoluteRootPath, rootNode, 0); walkError != nil {
		return nil, fmt.Errorf(errorBuildTreeFormat, absoluteRootPath, walkError)
	}
	return rootNode, nil
}

// walk appends the visible entries of directoryPath to parentNode.
// Depth counts expansions from the root, which sits at depth zero.
func (treeBuilder *TreeBuilder) walk(directoryPath string, parentNode *types.TreeNode, depth int) error {
	entryInformation, readDirectoryError := afero.ReadDir(treeBuilder.fileSystem, directoryPath)
	if readDirectoryError != nil {
		if errors.Is(readDirectoryError, fs.ErrPermission) {
			treeBuilder.logger.Debug(logAccessDenied, zap.String(logFieldPath, directoryPath))
			parentNode.Children = append(parentNode.Children, &types.TreeNode{
				Label: accessDeniedLabel,
				Kind:  types.NodeKindAccessDenied,
			})
			return nil
		}
		return fmt.Errorf(errorReadDirectoryFormat, directoryPath, readDirectoryError)
	}

	directories, files := treeBuilder.partition(directoryPath, entryInformation)
	sortEntries(directories)
	sortEntries(files)

	for _, directory := range directories {
		directoryName := treeBuilder.sanitize(directory.name)
		directoryNode := &types.TreeNode{
			Label: directoryName,
			Kind:  types.NodeKindDirectory,
			Name:  directoryName,
			Path:  directory.path,
		}
		if depth < treeBuilder.maxDepth-1 {
			if walkError := treeBuilder.walk(directory.path, directoryNode, depth+1); walkError != nil {
				return walkError
			}
		}
		parentNode.Children = append(parentNode.Children, directoryNode)
	}

	shownFiles := min(len(files), treeBuilder.maxFilesPerDirectory)
	for _, file := range files[:shownFiles] {
		fileName := treeBuilder.sanitize(file.name)
		formattedSize := utils.FormatFileSize(file.sizeBytes)
		parentNode.Children = append(parentNode.Children, &types.TreeNode{
			Label:     fmt.Sprintf(fileLabelFormat, fileName, formattedSize),
			Kind:      types.NodeKindFile,
			Name:      fileName,
			Path:      file.path,
			Size:      formattedSize,
			SizeBytes: file.sizeBytes,
		})
	}

	if remainingFiles := len(files) - shownFiles; remainingFiles > 0 {
		parentNode.Children = append(parentNode.Children, &types.TreeNode{
			Label:   fmt.Sprintf(truncatedLabelFormat, remainingFiles, utils.Pluralize(remainingFiles, "file", "files")),
			Kind:    types.NodeKindTruncated,
			Omitted: remainingFiles,
		})
	}
	return nil
}

// partition drops hidden and ignored entries and splits the rest into directories and files.
// Symbolic links are classified by their target; a dangling link counts as a file.
func (treeBuilder *TreeBuilder) partition(directoryPath string, entryInformation []os.FileInfo) ([]listedEntry, []listedEntry) {
	var directories []listedEntry
	var files []listedEntry
	for _, information := range entryInformation {
		entryName := information.Name()
		if treeBuilder.isExcluded(entryName) {
			continue
		}
		entry := listedEntry{
			name:      entryName,
			path:      filepath.Join(directoryPath, entryName),
			sizeBytes: information.Size(),
		}
		isDirectory := information.IsDir()
		if information.Mode()&os.ModeSymlink != 0 {
			if targetInformation, targetStatError := treeBuilder.fileSystem.Stat(entry.path); targetStatError == nil {
				isDirectory = targetInformation.IsDir()
				entry.sizeBytes = targetInformation.Size()
			}
		}
		if isDirectory {
			directories = append(directories, entry)
		} else {
			files = append(files, entry)
		}
	}
	return directories, files
}

// sortEntries orders entries by case-insensitive name, breaking ties on the exact name.
func sortEntries(entries []listedEntry) {
	sort.Slice(entries, func(leftIndex, rightIndex int) bool {
		leftFolded := strings.ToLower(entries[leftIndex].name)
		rightFolded := strings.ToLower(entries[rightIndex].name)
		if leftFolded != rightFolded {
			return leftFolded < rightFolded
		}
		return entries[leftIndex].name < entries[rightIndex].name
	})
}

// resolveSymlinks returns the symlink-free form of path as seen by the builder's filesystem.
// Filesystems that cannot report links leave path unchanged, as does a link loop.
func (treeBuilder *TreeBuilder) resolveSymlinks(path string) string {
	lstater, canLstat := treeBuilder.fileSystem.(afero.Lstater)
	linkReader, canReadLink := treeBuilder.fileSystem.(afero.LinkReader)
	if !canLstat || !canReadLink {
		return path
	}

	volumeName := filepath.VolumeName(path)
	rootPrefix := volumeName + string(filepath.Separator)
	resolvedPath := rootPrefix
	pendingComponents := splitPathComponents(strings.TrimPrefix(path, volumeName))
	followedLinks := 0
	for len(pendingComponents) > 0 {
		component := pendingComponents[0]
		pendingComponents = pendingComponents[1:]
		switch component {
		case "", ".":
			continue
		case "..":
			resolvedPath = filepath.Dir(resolvedPath)
			continue
		}
		candidatePath := filepath.Join(resolvedPath, component)
		information, lstatCalled, lstatError := lstater.LstatIfPossible(candidatePath)
		if lstatError != nil || !lstatCalled || information.Mode()&os.ModeSymlink == 0 {
			resolvedPath = candidatePath
			continue
		}
		followedLinks++
		if followedLinks > maxFollowedLinks {
			return path
		}
		linkTarget, readLinkError := linkReader.ReadlinkIfPossible(candidatePath)
		if readLinkError != nil {
			return path
		}
		if filepath.IsAbs(linkTarget) {
			resolvedPath = rootPrefix
			linkTarget = strings.TrimPrefix(linkTarget, filepath.VolumeName(linkTarget))
		}
		pendingComponents = append(splitPathComponents(linkTarget), pendingComponents...)
	}
	return resolvedPath
}

func splitPathComponents(path string) []string {
	return strings.Split(filepath.ToSlash(path), "/")
}
