package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStore keeps uploaded document files on the local filesystem under a
// single base directory. URLs are /uploads/documents/<name>.
type LocalStore struct {
	baseDir string
}

const urlPrefix = "/uploads/documents/"

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(fileName string, data []byte) (string, error) {
	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), sanitizeFileName(fileName))
	if err := os.WriteFile(filepath.Join(s.baseDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return urlPrefix + name, nil
}

// Remove deletes the file behind a stored URL. Missing files surface as
// fs.ErrNotExist so callers can ignore them.
func (s *LocalStore) Remove(fileURL string) error {
	name := strings.TrimPrefix(fileURL, urlPrefix)
	name = filepath.Base(name)
	return os.Remove(filepath.Join(s.baseDir, name))
}

// Dir is the directory served as static content for downloads.
func (s *LocalStore) Dir() string { return s.baseDir }

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_', r == '.':
			result = append(result, r)
		default:
			result = append(result, '_')
		}
	}
	return strings.Trim(string(result), "_")
}
