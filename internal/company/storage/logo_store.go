package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LogoStore writes uploaded logo images to a local directory and hands back
// the public reference path persisted on the company record.
type LogoStore struct {
	dir string
}

func NewLogoStore(dir string) (*LogoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LogoStore{dir: dir}, nil
}

// Save stores the image under a fresh uuid-based name, keeping only the
// original extension. Returns the /uploads/ path for the stored file.
func (s *LogoStore) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	if len(ext) > 10 {
		ext = ""
	}

	name := "logo-" + uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating logo file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("writing logo file: %w", err)
	}

	return "/uploads/" + name, nil
}
