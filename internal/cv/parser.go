package cv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CVParser stores uploaded documents in a working directory before extraction.
type CVParser struct {
	uploadsDir  string
	keepUploads bool
}

// SavedUpload describes a document written to the uploads directory.
type SavedUpload struct {
	Filename string
	FileType string
	FilePath string
	FileSize int64
}

func NewCVParser(uploadsDir string, keepUploads bool) *CVParser {
	return &CVParser{
		uploadsDir:  uploadsDir,
		keepUploads: keepUploads,
	}
}

// SaveUpload writes reader verbatim under the original file name.
// Directory components of filename are dropped.
func (p *CVParser) SaveUpload(filename string, reader io.Reader) (*SavedUpload, error) {
	name := filepath.Base(filepath.Clean("/" + filename))
	if name == "/" || name == "." {
		return nil, errors.New("empty file name")
	}

	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}

	filePath := filepath.Join(p.uploadsDir, name)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &SavedUpload{
		Filename: name,
		FileType: strings.ToLower(filepath.Ext(name)),
		FilePath: filePath,
		FileSize: size,
	}, nil
}

// Cleanup removes a saved upload unless uploads are retained.
// It reports whether the file was removed.
func (p *CVParser) Cleanup(upload *SavedUpload) (bool, error) {
	if p.keepUploads || upload == nil {
		return false, nil
	}
	if err := os.Remove(upload.FilePath); err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to remove upload: %w", err)
	}
	return true, nil
}
