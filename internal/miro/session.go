package miro

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mirotools/miro-mcp/internal/config"
)

// Session owns the process-wide Client. The client is constructed on
// first use and reused for the process lifetime; the composition root
// passes one Session into every tool.
type Session struct {
	cfg    *config.Config
	logger *zap.Logger
	client *Client
}

func NewSession(cfg *config.Config, logger *zap.Logger) *Session {
	return &Session{cfg: cfg, logger: logger}
}

// Client returns the cached client, constructing it on first call.
func (s *Session) Client() (*Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	client, err := NewClient(s.cfg, s.logger)
	if err != nil {
		s.logger.Error("failed to initialize miro client", zap.Error(err))
		return nil, fmt.Errorf("error initializing miro client: %w", err)
	}
	s.client = client
	return s.client, nil
}
