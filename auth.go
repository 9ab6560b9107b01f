package voicebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ============================================================================
// TokenStore
// ============================================================================

// TokenStore holds the current token pair. Set(nil) clears it. Token
// contents are opaque: no validation is performed, and a malformed
// persisted value reads back as absent rather than failing.
type TokenStore interface {
	Get() *AuthTokens
	Set(tokens *AuthTokens)
}

// FileTokenStore persists the token pair as a JSON file, surviving
// process restarts.
type FileTokenStore struct {
	mu   sync.Mutex
	path string
}

func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{path: path}
}

func (s *FileTokenStore) Get() *AuthTokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var t AuthTokens
	if err := json.Unmarshal(data, &t); err != nil {
		return nil
	}
	// A partial pair is treated as absent.
	if t.Access == "" || t.Refresh == "" {
		return nil
	}
	return &t
}

func (s *FileTokenStore) Set(tokens *AuthTokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens == nil {
		_ = os.Remove(s.path)
		return
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return
	}
	_ = os.WriteFile(s.path, data, 0o600)
}

// MemoryTokenStore is a non-durable TokenStore for tests and embedders
// that manage persistence themselves.
type MemoryTokenStore struct {
	mu     sync.Mutex
	tokens *AuthTokens
}

func (s *MemoryTokenStore) Get() *AuthTokens {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens == nil {
		return nil
	}
	t := *s.tokens
	return &t
}

func (s *MemoryTokenStore) Set(tokens *AuthTokens) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tokens == nil {
		s.tokens = nil
		return
	}
	t := *tokens
	s.tokens = &t
}

// ============================================================================
// Auth gateway
// ============================================================================

// authGateway computes auth headers from the token store and exchanges
// refresh tokens with the backend. It does not clear tokens itself;
// that policy belongs to the dispatcher.
type authGateway struct {
	tokens     TokenStore
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	flight     singleflight.Group
}

// header returns the Authorization header value, or "" when logged out.
func (g *authGateway) header() string {
	if t := g.tokens.Get(); t != nil {
		return "Bearer " + t.Access
	}
	return ""
}

// refresh exchanges the stored refresh token for a new access token and
// reports success. Concurrent callers share a single in-flight
// exchange, so a burst of 401s issues one upstream request.
func (g *authGateway) refresh(ctx context.Context) bool {
	ok, _, _ := g.flight.Do("refresh", func() (interface{}, error) {
		return g.doRefresh(ctx), nil
	})
	return ok.(bool)
}

func (g *authGateway) doRefresh(ctx context.Context) bool {
	t := g.tokens.Get()
	if t == nil || t.Refresh == "" {
		return false
	}

	body, err := json.Marshal(map[string]string{"refresh": t.Refresh})
	if err != nil {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/auth/refresh", bytes.NewReader(body))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		g.logger.Warn("token refresh failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Warn("token refresh rejected", zap.Int("status", resp.StatusCode))
		return false
	}

	var out struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil || out.Access == "" {
		return false
	}

	// Only the access token rotates; the refresh token is kept.
	g.tokens.Set(&AuthTokens{Access: out.Access, Refresh: t.Refresh})
	g.logger.Debug("access token refreshed")
	return true
}
