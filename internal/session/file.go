package session

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/and161185/shop-account/internal/model"
)

type tokenFile struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// ConfigDir is $XDG_CONFIG_HOME/shop-account or ~/.config/shop-account.
func ConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "shop-account")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "shop-account")
}

// FileStore persists the credential as token.json in a private directory.
type FileStore struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

var _ Store = (*FileStore)(nil)

// NewFileStore stores under dir; empty dir means ConfigDir().
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = ConfigDir()
	}
	return &FileStore{dir: dir, now: time.Now}
}

// Path is the token file location.
func (s *FileStore) Path() string { return filepath.Join(s.dir, "token.json") }

// Get reads the token file; a missing file is absence, not an error.
func (s *FileStore) Get(context.Context) (model.SessionToken, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return model.SessionToken{}, false, nil
	}
	if err != nil {
		return model.SessionToken{}, false, err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return model.SessionToken{}, false, err
	}
	tok := model.SessionToken{Value: tf.AccessToken, ExpiresAt: tf.ExpiresAt}
	if !tok.Valid(s.now()) {
		return model.SessionToken{}, false, nil
	}
	return tok, true, nil
}

// Set writes the credential with the requested lifetime.
func (s *FileStore) Set(_ context.Context, value string, ttlDays int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(tokenFile{AccessToken: value, ExpiresAt: ExpiryFor(s.now(), ttlDays)})
}

// Clear overwrites the file with an expired, empty record.
func (s *FileStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(tokenFile{ExpiresAt: Expired})
}

func (s *FileStore) write(tf tokenFile) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	tf.Name = model.SessionTokenName
	tf.Path = "/"
	f, err := os.OpenFile(s.Path(), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return errors.Join(enc.Encode(tf), f.Close())
}
