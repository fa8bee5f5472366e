package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/theonlykingpin/ApiBlogWithOTP/domain"
)

// ImageDir is where blog images are stored, relative to the media root
const ImageDir = "blog/images"

// MediaStoreImpl implements domain.MediaStore on an afero filesystem rooted at the media root
type MediaStoreImpl struct {
	fs      afero.Fs
	baseURL string
}

// NewMediaStore creates a media store writing under root on the OS filesystem
func NewMediaStore(root, baseURL string) *MediaStoreImpl {
	return NewMediaStoreOnFs(afero.NewBasePathFs(afero.NewOsFs(), root), baseURL)
}

// NewMediaStoreOnFs creates a media store on an existing filesystem
func NewMediaStoreOnFs(fs afero.Fs, baseURL string) *MediaStoreImpl {
	return &MediaStoreImpl{fs: fs, baseURL: strings.TrimRight(baseURL, "/")}
}

// Fs returns the underlying filesystem so it can be served over HTTP
func (m *MediaStoreImpl) Fs() afero.Fs {
	return m.fs
}

// Save implements domain.MediaStore. The stored name is random and keeps the
// original extension.
func (m *MediaStoreImpl) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := m.fs.MkdirAll(ImageDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create media dir: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(name))
	stored := path.Join(ImageDir, uuid.NewString()+ext)

	f, err := m.fs.Create(stored)
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = m.fs.Remove(stored)
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return stored, nil
}

// Remove implements domain.MediaStore. Missing files are not an error.
func (m *MediaStoreImpl) Remove(ctx context.Context, p string) error {
	if p == "" {
		return nil
	}
	if err := m.fs.Remove(path.Clean(p)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

// URL implements domain.MediaStore
func (m *MediaStoreImpl) URL(p string) string {
	if p == "" {
		return ""
	}
	return m.baseURL + "/" + strings.TrimLeft(p, "/")
}

var _ domain.MediaStore = (*MediaStoreImpl)(nil)
