package media

import (
	"os"
	"path/filepath"
	"strings"
)

// Store accepts decoded image bytes and returns a stable reference URL.
type Store interface {
	Save(filename string, data []byte) (string, error)
}

// DiskStore writes uploads under Root and serves them under BaseURL.
type DiskStore struct {
	Root    string
	BaseURL string
}

func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}
}

func (s *DiskStore) Save(filename string, data []byte) (string, error) {
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.Root, filename), data, 0o644); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + filename, nil
}
