// Package config loads application configuration and per-directory ignore lists.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/locus/internal/utils"
)

const commentPrefix = "#"

// LoadIgnoreNames reads an ignore file listing one entry name per line.
// Blank lines and lines starting with # are skipped. A missing file yields no names.
//
// #nosec G304
func LoadIgnoreNames(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, openFileError
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close %s: %v\n", ignoreFilePath, closeError)
		}
	}()

	var ignoreNames []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		ignoreNames = append(ignoreNames, strings.TrimSuffix(trimmedLine, "/"))
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return ignoreNames, nil
}

// LoadCombinedIgnoreNames merges configured names, names from the root's ignore file
// (when useIgnoreFile is true), and names passed on the command line.
func LoadCombinedIgnoreNames(rootDirectoryPath string, configuredNames []string, flagNames []string, useIgnoreFile bool) ([]string, error) {
	combinedNames := append([]string{}, configuredNames...)

	if useIgnoreFile {
		ignoreFilePath := filepath.Join(rootDirectoryPath, utils.IgnoreFileName)
		fileNames, loadError := LoadIgnoreNames(ignoreFilePath)
		if loadError != nil {
			return nil, fmt.Errorf("loading %s from %s: %w", utils.IgnoreFileName, rootDirectoryPath, loadError)
		}
		combinedNames = append(combinedNames, fileNames...)
	}

	combinedNames = append(combinedNames, flagNames...)
	return utils.NormalizeNames(combinedNames), nil
}
