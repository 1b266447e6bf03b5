package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrExtensionNotAllowed = errors.New("file type not allowed")

// FileService stores uploaded files under a local directory with
// collision-free names.
type FileService struct {
	uploadDir string
}

// NewFileService creates the upload directory if needed.
func NewFileService(uploadDir string) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FileService{uploadDir: uploadDir}, nil
}

// Save writes an uploaded file to disk and returns its path relative to the
// upload directory root. The extension must be in the allowed set.
func (s *FileService) Save(file *multipart.FileHeader, allowedExtensions []string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !extensionAllowed(ext, allowedExtensions) {
		return "", fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}

	name := uniqueName(ext)
	dst := filepath.Join(s.uploadDir, name)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}

// URL returns the serving path for a stored file name.
func (s *FileService) URL(name string) string {
	return "/uploads/" + name
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

func uniqueName(ext string) string {
	id, err := uuid.NewRandom()
	if err != nil {
		// uuid.NewRandom only fails when the entropy source does; fall
		// back to a direct random read.
		b := make([]byte, 16)
		rand.Read(b)
		return hex.EncodeToString(b) + ext
	}
	return id.String() + ext
}
