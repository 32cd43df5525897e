package miro

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// TokenPair is the persisted OAuth token state.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// TokenStore reads and writes the token file. Single writer by
// construction, no locking.
type TokenStore struct {
	path   string
	logger *zap.Logger
}

func NewTokenStore(path string, logger *zap.Logger) *TokenStore {
	return &TokenStore{path: path, logger: logger}
}

// Load returns the stored token pair, or nil if none exists. A file that
// cannot be parsed or is missing the access token is treated as corrupt:
// it is removed and nil is returned.
func (s *TokenStore) Load() (*TokenPair, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil || pair.AccessToken == "" {
		s.logger.Warn("token file is corrupt, resetting store",
			zap.String("path", s.path))
		_ = os.Remove(s.path)
		return nil, nil
	}
	return &pair, nil
}

// Save persists the pair as the sole file content.
func (s *TokenStore) Save(pair TokenPair) error {
	data, err := json.Marshal(pair)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o600)
}
