package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/spec-kit/feedback-desk/pkg/util"
)

const (
	// MaxScreenshotBytes is the largest accepted screenshot (5 MiB).
	MaxScreenshotBytes = 5 * 1024 * 1024
	// PublicPrefix is the URL prefix uploaded screenshots are served under.
	PublicPrefix = "/bug-reports/"

	defaultExtension = "png"
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// Upload describes an attached file independent of the transport.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// UploadFromFileHeader adapts a multipart form file.
func UploadFromFileHeader(fh *multipart.FileHeader) *Upload {
	if fh == nil {
		return nil
	}
	return &Upload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// ScreenshotStore validates and writes bug report screenshots into a public directory.
type ScreenshotStore struct {
	dir string
}

// NewScreenshotStore writes into dir, creating it on first save.
func NewScreenshotStore(dir string) *ScreenshotStore {
	return &ScreenshotStore{dir: dir}
}

// Dir returns the directory screenshots are written to.
func (s *ScreenshotStore) Dir() string {
	return s.dir
}

// Validate checks size first, then the declared content type.
func (s *ScreenshotStore) Validate(u *Upload) error {
	if u.Size > MaxScreenshotBytes {
		return apperrors.NewValidationError("Screenshot must be less than 5MB", map[string]any{"field": "screenshot"})
	}
	if _, ok := allowedContentTypes[strings.ToLower(u.ContentType)]; !ok {
		return apperrors.NewValidationError("Invalid file type. Please upload a valid image file.", map[string]any{"field": "screenshot"})
	}
	return nil
}

// Save validates u and writes it as <recordID>.<ext>, returning the public
// path. The file is left in place if a later step fails.
func (s *ScreenshotStore) Save(ctx context.Context, recordID string, u *Upload) (string, error) {
	if err := s.Validate(u); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	filename := recordID + "." + Extension(u.FileName)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, filename))
	if err != nil {
		return "", fmt.Errorf("create screenshot: %w", err)
	}
	written, copyErr := io.Copy(dst, io.LimitReader(src, MaxScreenshotBytes+1))
	closeErr := dst.Close()
	if copyErr != nil {
		return "", fmt.Errorf("write screenshot: %w", copyErr)
	}
	if closeErr != nil {
		return "", fmt.Errorf("close screenshot: %w", closeErr)
	}
	if written > MaxScreenshotBytes {
		_ = os.Remove(filepath.Join(s.dir, filename))
		return "", apperrors.NewValidationError("Screenshot must be less than 5MB", map[string]any{"field": "screenshot"})
	}

	return PublicPrefix + filename, nil
}

// Extension returns the text after the last dot of name, or "png" when there
// is none or it is not purely alphanumeric.
func Extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 || idx == len(name)-1 {
		return defaultExtension
	}
	ext := name[idx+1:]
	for _, r := range ext {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return defaultExtension
		}
	}
	return ext
}
