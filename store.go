package authclient

import (
	"encoding/json"
	"os"
	"path"
	"sync"

	goerrors "github.com/goliatone/go-errors"
	"github.com/mitchellh/go-homedir"
)

const (
	tokenSlotName  = "token"
	authSlotName   = "auth"
	authMarkerName = "isAuth"

	defaultStorageDirName = ".olympiastore"
)

// tokenSlot is the on-disk shape of the token slot.
type tokenSlot struct {
	Value string `json:"value"`
}

// FileTokenStore keeps the token slot and auth marker as files under a
// dot-directory in the user's home (or an explicit directory).
type FileTokenStore struct {
	dir    string
	logger Logger
}

func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	if dir == "" {
		home, err := homedir.Dir()
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "error locating user's home directory")
		}
		dir = path.Join(home, defaultStorageDirName)
	}

	return &FileTokenStore{
		dir:    dir,
		logger: defLogger{},
	}, nil
}

func (s *FileTokenStore) WithLogger(logger Logger) *FileTokenStore {
	if logger != nil {
		s.logger = logger
	}
	return s
}

func (s *FileTokenStore) ReadToken() (string, bool) {
	raw, err := os.ReadFile(path.Join(s.dir, tokenSlotName))
	if err != nil {
		return "", false
	}

	slot := tokenSlot{}
	if err := json.Unmarshal(raw, &slot); err != nil {
		// Corrupt entries read as absent. Log for diagnostics only.
		s.logger.Warn("malformed token slot, treating as absent: %v", err)
		return "", false
	}

	if slot.Value == "" {
		return "", false
	}

	return slot.Value, true
}

func (s *FileTokenStore) WriteToken(token string) error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	raw, err := json.Marshal(tokenSlot{Value: token})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "error marshaling token slot")
	}

	if err := os.WriteFile(path.Join(s.dir, tokenSlotName), raw, 0600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "error writing token slot").
			WithMetadata(map[string]any{"dir": s.dir})
	}

	return nil
}

func (s *FileTokenStore) ReadAuthMarker() bool {
	raw, err := os.ReadFile(path.Join(s.dir, authSlotName))
	if err != nil {
		return false
	}
	return string(raw) == authMarkerName
}

func (s *FileTokenStore) WriteAuthMarker() error {
	if err := s.ensureDir(); err != nil {
		return err
	}

	if err := os.WriteFile(path.Join(s.dir, authSlotName), []byte(authMarkerName), 0600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "error writing auth marker").
			WithMetadata(map[string]any{"dir": s.dir})
	}

	return nil
}

func (s *FileTokenStore) Clear() error {
	var firstErr error
	for _, name := range []string{tokenSlotName, authSlotName} {
		if err := os.Remove(path.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = goerrors.Wrap(err, goerrors.CategoryOperation, "error clearing storage slot").
					WithMetadata(map[string]any{"slot": name})
			}
		}
	}
	return firstErr
}

func (s *FileTokenStore) ensureDir() error {
	if _, err := os.Stat(s.dir); err != nil {
		if !os.IsNotExist(err) {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "error checking storage directory").
				WithMetadata(map[string]any{"dir": s.dir})
		}
		if err := os.MkdirAll(s.dir, 0755); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "error creating storage directory").
				WithMetadata(map[string]any{"dir": s.dir})
		}
	}
	return nil
}

// MemoryTokenStore is an in-process TokenStore for tests and ephemeral
// sessions.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	token  string
	hasTok bool
	marker bool
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) ReadToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.hasTok
}

func (s *MemoryTokenStore) WriteToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.hasTok = true
	return nil
}

func (s *MemoryTokenStore) ReadAuthMarker() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.marker
}

func (s *MemoryTokenStore) WriteAuthMarker() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker = true
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.hasTok = false
	s.marker = false
	return nil
}
