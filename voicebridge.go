// Package voicebridge provides the Go data-access SDK for the
// VoiceBridge multilingual voice/text assistant.
//
// A Client presents one contract for authentication, profile
// management, voice and text queries, lesson retrieval, and query
// history. With a configured base URL it talks to the VoiceBridge
// backend; without one it serves every operation from a durable local
// store with simulated assistant behavior. Response shapes, pagination,
// and error signaling are identical in both modes, so callers cannot
// observe the difference.
//
// Example:
//
//	client := voicebridge.NewClient(
//		voicebridge.WithBaseURL("https://api.voicebridge.app"),
//	)
//
//	session, err := client.Login(ctx, "ada", "secret")
//	answer, err := client.TextQuery(ctx, "How do I save money?", "en", "")
//	lessons, err := client.Lessons(ctx, voicebridge.LessonFilter{Language: "yo", Page: 1})
package voicebridge

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const DefaultTimeout = 30 * time.Second

// backend is the mode-specific implementation behind Client. Exactly
// one variant is selected at construction and never changes for the
// client's lifetime, even if connectivity changes later.
type backend interface {
	login(ctx context.Context, username, password string) (*Session, error)
	register(ctx context.Context, username, email, password string) (*Session, error)
	profile(ctx context.Context) (*User, error)
	updateProfile(ctx context.Context, upd ProfileUpdate) (*User, error)
	voiceUpload(ctx context.Context, audio []byte, filename, language, category string) (*VoiceResult, error)
	textQuery(ctx context.Context, text, language, category string) (*QueryResult, error)
	lessons(ctx context.Context, f LessonFilter) (*Page[Lesson], error)
	history(ctx context.Context, page int) (*Page[QueryRecord], error)
}

// Client is the single entry point for all VoiceBridge data operations.
type Client struct {
	baseURL    string
	dataDir    string
	httpClient *http.Client
	logger     *zap.Logger
	tokens     TokenStore
	rnd        *rand.Rand
	latency    float64

	backend backend
	auth    *authGateway // nil in offline mode
}

type ClientOption func(*Client)

// WithBaseURL sets the remote endpoint. A blank value selects offline
// mode.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(strings.TrimSpace(url), "/") }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = timeout }
}

func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithTokenStore replaces the default file-backed token store.
func WithTokenStore(store TokenStore) ClientOption {
	return func(c *Client) { c.tokens = store }
}

// WithDataDir sets the directory for durable state (tokens and, in
// offline mode, the mock datasets). Defaults to ~/.voicebridge.
func WithDataDir(dir string) ClientOption {
	return func(c *Client) { c.dataDir = dir }
}

// WithRand fixes the pseudo-random source used by the offline
// simulator, making canned voice responses deterministic in tests.
func WithRand(rnd *rand.Rand) ClientOption {
	return func(c *Client) { c.rnd = rnd }
}

// WithLatencyScale scales the simulated offline latency; 0 disables it.
func WithLatencyScale(scale float64) ClientOption {
	return func(c *Client) { c.latency = scale }
}

// NewClient creates a VoiceBridge client. The operating mode is decided
// here, once: a configured base URL means remote, otherwise every
// operation is served locally.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
		latency:    1,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.dataDir == "" {
		c.dataDir = defaultDataDir()
	}
	if c.tokens == nil {
		c.tokens = NewFileTokenStore(filepath.Join(c.dataDir, tokenFileName))
	}

	if c.baseURL == "" {
		local := &localBackend{
			store:   NewStore(c.dataDir, c.logger),
			sim:     newSimulator(c.rnd),
			logger:  c.logger,
			latency: c.latency,
		}
		local.seed()
		c.backend = local
		c.logger.Info("voicebridge running in offline mode", zap.String("data_dir", c.dataDir))
	} else {
		c.auth = &authGateway{
			tokens:     c.tokens,
			baseURL:    c.baseURL,
			httpClient: c.httpClient,
			logger:     c.logger,
		}
		c.backend = &remoteBackend{
			baseURL:    c.baseURL,
			httpClient: c.httpClient,
			auth:       c.auth,
			logger:     c.logger,
		}
	}
	return c
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".voicebridge"
	}
	return filepath.Join(home, ".voicebridge")
}

// Offline reports whether the client was constructed without a remote
// endpoint.
func (c *Client) Offline() bool {
	return c.baseURL == ""
}

// Tokens returns the client's token store.
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

// ── Operations ───────────────────────────────────────────────────────

// Login authenticates and persists the returned token pair.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	s, err := c.backend.login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(&AuthTokens{Access: s.Access, Refresh: s.Refresh})
	return s, nil
}

// Register creates an account and persists the returned token pair.
func (c *Client) Register(ctx context.Context, username, email, password string) (*Session, error) {
	s, err := c.backend.register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}
	c.tokens.Set(&AuthTokens{Access: s.Access, Refresh: s.Refresh})
	return s, nil
}

// Logout clears the persisted token pair.
func (c *Client) Logout() {
	c.tokens.Set(nil)
}

// Profile fetches the current user.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	return c.backend.profile(ctx)
}

// UpdateProfile applies a partial profile change and returns the
// resulting user.
func (c *Client) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	return c.backend.updateProfile(ctx, upd)
}

// VoiceUpload submits an opaque audio payload for recognition. The
// recognized query and one answer come back; a record is appended to
// the query history.
func (c *Client) VoiceUpload(ctx context.Context, audio []byte, filename, language, category string) (*VoiceResult, error) {
	if filename == "" {
		filename = "recording.ogg"
	}
	return c.backend.voiceUpload(ctx, audio, filename, language, category)
}

// TextQuery submits a text question. Category is optional; when blank
// it is inferred from the text.
func (c *Client) TextQuery(ctx context.Context, text, language, category string) (*QueryResult, error) {
	return c.backend.textQuery(ctx, text, language, category)
}

// Lessons lists lessons matching the filter, six per page.
func (c *Client) Lessons(ctx context.Context, f LessonFilter) (*Page[Lesson], error) {
	return c.backend.lessons(ctx, f)
}

// History lists past queries newest first, twenty per page.
func (c *Client) History(ctx context.Context, page int) (*Page[QueryRecord], error) {
	return c.backend.history(ctx, page)
}
