package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileFormat represents different dictionary sources
type FileFormat int

const (
	FormatUnknown  FileFormat = iota
	FormatText                // single delimited text file
	FormatChunkDir            // directory of dict_NNNN.txt chunks
)

func (f FileFormat) String() string {
	if info, ok := supportedFormats[f]; ok {
		return info.Description
	}
	return "unknown"
}

// FormatInfo contains metadata about a dictionary format
type FormatInfo struct {
	Format      FileFormat
	Description string
	Extensions  []string
	MinSize     int64 // Minimum expected file size in bytes
}

var supportedFormats = map[FileFormat]FormatInfo{
	FormatText: {
		Format:      FormatText,
		Description: "Plain Text Dictionary",
		Extensions:  []string{".txt", ".tsv", ".csv", ".dict"},
		MinSize:     0,
	},
	FormatChunkDir: {
		Format:      FormatChunkDir,
		Description: "Chunked Text Dictionary",
		Extensions:  []string{chunkExt},
	},
}

// ValidateFileFormat checks if a path matches the expected format
func ValidateFileFormat(path string, expectedFormat FileFormat) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	formatInfo, exists := supportedFormats[expectedFormat]
	if !exists {
		return fmt.Errorf("unknown format: %v", expectedFormat)
	}

	switch expectedFormat {
	case FormatChunkDir:
		if !info.IsDir() {
			return fmt.Errorf("%s is not a directory", path)
		}
		chunks, err := scanChunks(path)
		if err != nil {
			return err
		}
		if len(chunks) == 0 {
			return fmt.Errorf("no %s files found in %s", chunkPattern, path)
		}
		return nil

	case FormatText:
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
		if info.Size() < formatInfo.MinSize {
			return fmt.Errorf("file %s is too small (%d bytes) for format %s (minimum: %d bytes)",
				path, info.Size(), formatInfo.Description, formatInfo.MinSize)
		}
		ext := strings.ToLower(filepath.Ext(path))
		for _, validExtension := range formatInfo.Extensions {
			if ext == validExtension {
				return nil
			}
		}
		return fmt.Errorf("file %s has invalid extension %q for format %s (expected: %v)",
			path, ext, formatInfo.Description, formatInfo.Extensions)
	}
	return nil
}

// DetectFileFormat works out which kind of dictionary lives at path
func DetectFileFormat(path string) (FileFormat, error) {
	if err := ValidateFileFormat(path, FormatChunkDir); err == nil {
		return FormatChunkDir, nil
	}
	if err := ValidateFileFormat(path, FormatText); err == nil {
		return FormatText, nil
	}
	return FormatUnknown, fmt.Errorf("unable to detect dictionary format for %s", path)
}
