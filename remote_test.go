package voicebridge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRemoteClient(baseURL string, tokens TokenStore) *Client {
	return NewClient(WithBaseURL(baseURL), WithTokenStore(tokens))
}

func loggedInStore() *MemoryTokenStore {
	s := &MemoryTokenStore{}
	s.Set(&AuthTokens{Access: "stale-access", Refresh: "good-refresh"})
	return s
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestRemoteRefreshAndRetry(t *testing.T) {
	var profileHits, refreshHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileHits.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, User{ID: "u1", Username: "ada"})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		writeJSON(w, map[string]string{"access": "fresh-access"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := loggedInStore()
	client := newRemoteClient(srv.URL, tokens)

	user, err := client.Profile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ada", user.Username)

	// One 401, one refresh, one retry with fresh headers.
	assert.Equal(t, int32(2), profileHits.Load())
	assert.Equal(t, int32(1), refreshHits.Load())
	got := tokens.Get()
	require.NotNil(t, got)
	assert.Equal(t, "fresh-access", got.Access)
}

func TestRemoteRefreshFailureForcesLogout(t *testing.T) {
	var profileHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileHits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	tokens := loggedInStore()
	client := newRemoteClient(srv.URL, tokens)

	_, err := client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeAuthFailed, apiErr.Code)
	assert.Equal(t, "Authentication failed", apiErr.Message)

	// No retry was attempted and the session is gone.
	assert.Equal(t, int32(1), profileHits.Load())
	assert.Nil(t, tokens.Get())
}

func TestRemoteSecond401IsFinal(t *testing.T) {
	var profileHits, refreshHits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/user/profile/", func(w http.ResponseWriter, r *http.Request) {
		profileHits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshHits.Add(1)
		writeJSON(w, map[string]string{"access": "fresh-access"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newRemoteClient(srv.URL, loggedInStore())

	_, err := client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeAuthFailed, apiErr.Code)

	// Exactly one retry, exactly one refresh.
	assert.Equal(t, int32(2), profileHits.Load())
	assert.Equal(t, int32(1), refreshHits.Load())
}

func TestRemoteServerErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		body interface{}
		want string
	}{
		{"message field", map[string]string{"message": "username taken"}, "username taken"},
		{"error field", map[string]string{"error": "bad language code"}, "bad language code"},
		{"no structured message", map[string]int{"status": 500}, "An error occurred"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				writeJSON(w, tc.body)
			}))
			defer srv.Close()

			client := newRemoteClient(srv.URL, &MemoryTokenStore{})
			_, err := client.Profile(context.Background())
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, CodeServerError, apiErr.Code)
			assert.Equal(t, tc.want, apiErr.Message)
		})
	}
}

func TestRemoteNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	client := newRemoteClient(srv.URL, &MemoryTokenStore{})
	_, err := client.Profile(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, CodeNetworkError, apiErr.Code)
	assert.Equal(t, "Network error occurred", apiErr.Message)
}

func TestRemoteLoginStoresTokenPair(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/login/", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "ada", body["username"])
		writeJSON(w, Session{
			Access:  "access-1",
			Refresh: "refresh-1",
			User:    User{ID: "u1", Username: "ada"},
		})
	}))
	defer srv.Close()

	tokens := &MemoryTokenStore{}
	client := newRemoteClient(srv.URL, tokens)

	session, err := client.Login(context.Background(), "ada", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Access)
	assert.NotEmpty(t, session.Refresh)

	got := tokens.Get()
	require.NotNil(t, got)
	assert.Equal(t, AuthTokens{Access: "access-1", Refresh: "refresh-1"}, *got)

	client.Logout()
	assert.Nil(t, tokens.Get())
}

func TestRemoteVoiceUploadMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/assistant/voice-upload", r.URL.Path)
		require.Equal(t, "Bearer stale-access", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "en", r.FormValue("language"))
		assert.Equal(t, "health", r.FormValue("category"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "clip.ogg", header.Filename)

		writeJSON(w, VoiceResult{
			Query:    "How can I stay healthy?",
			Response: "Wash your hands.",
			AudioURL: "https://cdn.example.com/answer.mp3",
		})
	}))
	defer srv.Close()

	client := newRemoteClient(srv.URL, loggedInStore())

	result, err := client.VoiceUpload(context.Background(), []byte("opaque-audio"), "clip.ogg", "en", "health")
	require.NoError(t, err)
	assert.Equal(t, "How can I stay healthy?", result.Query)
	assert.Equal(t, "https://cdn.example.com/answer.mp3", result.AudioURL)
}

func TestRemoteLessonsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/assistant/topic-lessons", r.URL.Path)
		q := r.URL.Query()
		// "all" filters are omitted from the request entirely.
		assert.False(t, q.Has("language"))
		assert.Equal(t, "finance", q.Get("category"))
		assert.Equal(t, "budget", q.Get("search"))
		assert.Equal(t, "2", q.Get("page"))

		next := "/api/assistant/topic-lessons?page=3"
		writeJSON(w, Page[Lesson]{Results: []Lesson{{ID: "2"}}, Count: 13, Next: &next})
	}))
	defer srv.Close()

	client := newRemoteClient(srv.URL, loggedInStore())

	page, err := client.Lessons(context.Background(), LessonFilter{
		Language: "all", Category: "finance", Search: "budget", Page: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 13, page.Count)
	require.NotNil(t, page.Next)
}

func TestRemoteHistoryQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/logs/query-history", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		writeJSON(w, Page[QueryRecord]{Results: []QueryRecord{{ID: "q1"}}, Count: 1})
	}))
	defer srv.Close()

	client := newRemoteClient(srv.URL, loggedInStore())

	page, err := client.History(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
}
