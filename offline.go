package voicebridge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ============================================================================
// Durable local store
// ============================================================================

// Storage keys for the offline datasets. The three datasets have
// independent lifecycles: lessons are seeded once, history grows from
// usage, and the profile is written by register/update.
const (
	storeKeyLessons = "lessons"
	storeKeyHistory = "query_history"
	storeKeyProfile = "user_profile"

	tokenFileName = "tokens.json"
)

const maxHistory = 100

// Store is a namespaced durable key-value store backed by one JSON file
// per key. Reads of missing or corrupt values report absence; write
// failures are logged and absorbed. Storage trouble is never fatal.
type Store struct {
	mu     sync.Mutex
	dir    string
	logger *zap.Logger
}

func NewStore(dir string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{dir: dir, logger: logger}
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads the value stored under key into out, reporting false when
// the key is absent or the stored value cannot be decoded.
func (s *Store) Get(key string, out interface{}) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Warn("discarding corrupt stored value", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) Set(key string, v interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Warn("failed to encode value", zap.String("key", key), zap.Error(err))
		return
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		s.logger.Warn("failed to create data directory", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path(key), data, 0o600); err != nil {
		s.logger.Warn("failed to persist value", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		s.logger.Warn("failed to remove value", zap.String("key", key), zap.Error(err))
	}
}

// ============================================================================
// Seed data
// ============================================================================

var defaultUser = User{
	ID:       "mock-user-1",
	Username: "demo_user",
	Email:    "demo@voicebridge.app",
	Profile: Profile{
		DeviceType:  DeviceSmartphone,
		Language:    LanguageEnglish,
		PhoneNumber: "+1234567890",
	},
}

var defaultLessons = []Lesson{
	{
		ID:        "1",
		Title:     "Basic Health and Hygiene",
		Body:      "Learn about proper handwashing, dental care, and maintaining good hygiene habits for better health.",
		Language:  "en",
		Category:  "healthcare",
		CreatedAt: "2024-01-15T10:00:00Z",
	},
	{
		ID:        "2",
		Title:     "Financial Literacy Basics",
		Body:      "Understanding savings, budgeting, and making smart financial decisions for your future.",
		Language:  "en",
		Category:  "finance",
		CreatedAt: "2024-01-14T14:30:00Z",
	},
	{
		ID:        "3",
		Title:     "Primary Education Math",
		Body:      "Basic arithmetic, counting, and simple mathematical concepts for young learners.",
		Language:  "en",
		Category:  "education",
		CreatedAt: "2024-01-13T09:15:00Z",
	},
	{
		ID:        "4",
		Title:     "Local Stories and Culture",
		Body:      "Discover traditional stories, cultural practices, and local history.",
		Language:  "yo",
		Category:  "entertainment",
		CreatedAt: "2024-01-12T16:45:00Z",
	},
}

// Token values handed out by offline login/register.
const (
	mockAccessToken  = "mock-access-token"
	mockRefreshToken = "mock-refresh-token"
)

// Simulated latency per operation, mirroring what a live backend feels
// like. Scaled by the client's latency factor; 0 disables the waits.
const (
	loginDelay    = 800 * time.Millisecond
	registerDelay = time.Second
	profileDelay  = 300 * time.Millisecond
	updateDelay   = 500 * time.Millisecond
	voiceDelay    = 2 * time.Second
	queryDelay    = 1500 * time.Millisecond
	lessonsDelay  = 400 * time.Millisecond
	historyDelay  = 300 * time.Millisecond
)

// ============================================================================
// Local backend
// ============================================================================

// localBackend serves every operation from the durable store and the
// simulator. It never touches the network.
type localBackend struct {
	store   *Store
	sim     *simulator
	logger  *zap.Logger
	latency float64
}

// seed populates each missing dataset once. Datasets that already exist
// are left untouched, so repeated calls never duplicate or reset data.
func (l *localBackend) seed() {
	var lessons []Lesson
	if !l.store.Get(storeKeyLessons, &lessons) {
		l.store.Set(storeKeyLessons, defaultLessons)
	}
	var history []QueryRecord
	if !l.store.Get(storeKeyHistory, &history) {
		l.store.Set(storeKeyHistory, []QueryRecord{})
	}
	var user User
	if !l.store.Get(storeKeyProfile, &user) {
		l.store.Set(storeKeyProfile, defaultUser)
	}
}

// wait simulates backend latency while honoring cancellation.
func (l *localBackend) wait(ctx context.Context, d time.Duration) error {
	d = time.Duration(float64(d) * l.latency)
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (l *localBackend) storedUser() User {
	var u User
	if !l.store.Get(storeKeyProfile, &u) {
		u = defaultUser
	}
	return u
}

func (l *localBackend) login(ctx context.Context, username, password string) (*Session, error) {
	if err := l.wait(ctx, loginDelay); err != nil {
		return nil, err
	}
	// Any credentials succeed offline.
	user := l.storedUser()
	user.Username = username
	return &Session{Access: mockAccessToken, Refresh: mockRefreshToken, User: user}, nil
}

func (l *localBackend) register(ctx context.Context, username, email, password string) (*Session, error) {
	if err := l.wait(ctx, registerDelay); err != nil {
		return nil, err
	}
	user := defaultUser
	user.Username = username
	user.Email = email
	l.store.Set(storeKeyProfile, user)
	return &Session{Access: mockAccessToken, Refresh: mockRefreshToken, User: user}, nil
}

func (l *localBackend) profile(ctx context.Context) (*User, error) {
	if err := l.wait(ctx, profileDelay); err != nil {
		return nil, err
	}
	u := l.storedUser()
	return &u, nil
}

func (l *localBackend) updateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	if err := l.wait(ctx, updateDelay); err != nil {
		return nil, err
	}
	u := l.storedUser()
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.DeviceType != nil {
		u.Profile.DeviceType = *upd.DeviceType
	}
	if upd.Language != nil {
		u.Profile.Language = *upd.Language
	}
	if upd.PhoneNumber != nil {
		u.Profile.PhoneNumber = *upd.PhoneNumber
	}
	l.store.Set(storeKeyProfile, u)
	return &u, nil
}

func (l *localBackend) voiceUpload(ctx context.Context, audio []byte, filename, language, category string) (*VoiceResult, error) {
	if err := l.wait(ctx, voiceDelay); err != nil {
		return nil, err
	}
	sample := l.sim.voice()
	recorded := category
	if recorded == "" {
		recorded = sample.Category
	}
	l.appendHistory(QueryRecord{
		ID:        uuid.NewString(),
		Query:     sample.Query,
		Response:  sample.Response,
		Language:  language,
		Category:  recorded,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	// No audio is synthesized offline.
	return &VoiceResult{Query: sample.Query, Response: sample.Response}, nil
}

func (l *localBackend) textQuery(ctx context.Context, text, language, category string) (*QueryResult, error) {
	if err := l.wait(ctx, queryDelay); err != nil {
		return nil, err
	}
	reply, detected := l.sim.respond(text, category)
	l.appendHistory(QueryRecord{
		ID:        uuid.NewString(),
		Query:     text,
		Response:  reply,
		Language:  language,
		Category:  detected,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	return &QueryResult{Query: text, Response: reply}, nil
}

func (l *localBackend) lessons(ctx context.Context, f LessonFilter) (*Page[Lesson], error) {
	if err := l.wait(ctx, lessonsDelay); err != nil {
		return nil, err
	}
	var all []Lesson
	if !l.store.Get(storeKeyLessons, &all) {
		all = defaultLessons
	}
	filtered := filterLessons(all, f)
	page := paginate(filtered, f.Page, lessonPageSize, "/api/assistant/topic-lessons")
	return &page, nil
}

func (l *localBackend) history(ctx context.Context, pageNum int) (*Page[QueryRecord], error) {
	if err := l.wait(ctx, historyDelay); err != nil {
		return nil, err
	}
	var records []QueryRecord
	l.store.Get(storeKeyHistory, &records)
	page := paginate(records, pageNum, historyPageSize, "/api/logs/query-history")
	return &page, nil
}

// appendHistory prepends one record and persists the list trimmed to
// the most recent maxHistory entries.
func (l *localBackend) appendHistory(rec QueryRecord) {
	var records []QueryRecord
	l.store.Get(storeKeyHistory, &records)
	records = append([]QueryRecord{rec}, records...)
	if len(records) > maxHistory {
		records = records[:maxHistory]
	}
	l.store.Set(storeKeyHistory, records)
}
