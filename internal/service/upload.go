package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"staffchat/internal/logger"
)

var unsafeNameRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// FileStore keeps uploaded attachments under <root>/<user>/<cid>/. Names are
// sanitized and collisions get an incrementing numeric suffix before the
// extension.
type FileStore struct {
	root string
}

func NewFileStore(dataDir string) (*FileStore, error) {
	root := filepath.Join(dataDir, "uploads")
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &FileStore{root: root}, nil
}

// SanitizeName keeps alphanumerics, dots, dashes and underscores; every
// other run of characters becomes a single dash.
func SanitizeName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeNameRe.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" || name == "." || name == ".." {
		name = "upload"
	}
	return name
}

func (s *FileStore) dir(userID, cid string) (string, error) {
	uid, err := ValidateUser(userID)
	if err != nil {
		return "", err
	}
	if !conversationIDRe.MatchString(cid) {
		return "", ErrInvalidID
	}
	dir := filepath.Join(s.root, uid, strings.ToLower(cid))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	return dir, nil
}

// Save writes the upload and returns the stored (possibly suffixed) name.
func (s *FileStore) Save(userID, cid, filename string, r io.Reader) (string, error) {
	dir, err := s.dir(userID, cid)
	if err != nil {
		return "", err
	}

	name := SanitizeName(filename)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	final := name
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, final)); os.IsNotExist(err) {
			break
		}
		final = fmt.Sprintf("%s_%d%s", stem, n, ext)
	}

	f, err := os.OpenFile(filepath.Join(dir, final), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	logger.Info("upload stored", "user", userID, "conversation", cid, "name", final)
	return final, nil
}

func (s *FileStore) List(userID, cid string) ([]string, error) {
	dir, err := s.dir(userID, cid)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path resolves a stored file for download; the name is re-sanitized so a
// crafted value cannot escape the conversation directory.
func (s *FileStore) Path(userID, cid, name string) (string, error) {
	dir, err := s.dir(userID, cid)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, SanitizeName(name))
	if _, err := os.Stat(path); err != nil {
		return "", ErrNotFound
	}
	return path, nil
}
