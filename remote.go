package voicebridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"go.uber.org/zap"
)

// remoteBackend serves every operation over HTTP. All expected failures
// come back as *APIError; the response shapes match the local backend
// exactly.
type remoteBackend struct {
	baseURL    string
	httpClient *http.Client
	auth       *authGateway
	logger     *zap.Logger
}

// send issues a single request with current auth headers. The payload is
// a prepared byte slice so the request can be replayed after a token
// refresh.
func (r *remoteBackend) send(ctx context.Context, method, path string, query url.Values, contentType string, payload []byte) (*http.Response, error) {
	u := r.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if h := r.auth.header(); h != "" {
		req.Header.Set("Authorization", h)
	}
	return r.httpClient.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// do issues the request, refreshing the access token and retrying
// exactly once on 401, and decodes the success payload into out.
func (r *remoteBackend) do(ctx context.Context, method, path string, query url.Values, contentType string, payload []byte, out interface{}) error {
	resp, err := r.send(ctx, method, path, query, contentType, payload)
	if err != nil {
		r.logger.Warn("request failed", zap.String("path", path), zap.Error(err))
		return errNetwork()
	}

	if resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		if !r.auth.refresh(ctx) {
			// Irrecoverable: force logout.
			r.auth.tokens.Set(nil)
			return errAuthFailed()
		}
		resp, err = r.send(ctx, method, path, query, contentType, payload)
		if err != nil {
			return errNetwork()
		}
		if resp.StatusCode == http.StatusUnauthorized {
			drain(resp)
			return errAuthFailed()
		}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errNetwork()
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		_ = json.Unmarshal(data, &body)
		msg := body.Message
		if msg == "" {
			msg = body.Error
		}
		return errServer(msg)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Warn("malformed response payload", zap.String("path", path), zap.Error(err))
		return errNetwork()
	}
	return nil
}

// doJSON marshals body and issues a JSON request through do.
func (r *remoteBackend) doJSON(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		payload = b
		contentType = "application/json"
	}
	return r.do(ctx, method, path, query, contentType, payload, out)
}

// ── Operations ───────────────────────────────────────────────────────

func (r *remoteBackend) login(ctx context.Context, username, password string) (*Session, error) {
	var out Session
	err := r.doJSON(ctx, http.MethodPost, "/api/auth/login/", nil, map[string]string{
		"username": username, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) register(ctx context.Context, username, email, password string) (*Session, error) {
	var out Session
	err := r.doJSON(ctx, http.MethodPost, "/api/auth/register/", nil, map[string]string{
		"username": username, "email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) profile(ctx context.Context) (*User, error) {
	var out User
	if err := r.doJSON(ctx, http.MethodGet, "/api/user/profile/", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) updateProfile(ctx context.Context, upd ProfileUpdate) (*User, error) {
	var out User
	if err := r.doJSON(ctx, http.MethodPut, "/api/user/profile/", nil, upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) voiceUpload(ctx context.Context, audio []byte, filename, language, category string) (*VoiceResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, fmt.Errorf("failed to write file data: %w", err)
	}
	_ = w.WriteField("language", language)
	if category != "" {
		_ = w.WriteField("category", category)
	}
	_ = w.Close()

	var out VoiceResult
	if err := r.do(ctx, http.MethodPost, "/api/assistant/voice-upload", nil, w.FormDataContentType(), buf.Bytes(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) textQuery(ctx context.Context, text, language, category string) (*QueryResult, error) {
	body := map[string]string{"text": text, "language": language}
	if category != "" {
		body["category"] = category
	}
	var out QueryResult
	if err := r.doJSON(ctx, http.MethodPost, "/api/assistant/query", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) lessons(ctx context.Context, f LessonFilter) (*Page[Lesson], error) {
	query := url.Values{}
	if f.Language != "" && f.Language != "all" {
		query.Set("language", f.Language)
	}
	if f.Category != "" && f.Category != "all" {
		query.Set("category", f.Category)
	}
	if f.Search != "" {
		query.Set("search", f.Search)
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	query.Set("page", strconv.Itoa(page))

	var out Page[Lesson]
	if err := r.doJSON(ctx, http.MethodGet, "/api/assistant/topic-lessons", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *remoteBackend) history(ctx context.Context, pageNum int) (*Page[QueryRecord], error) {
	if pageNum < 1 {
		pageNum = 1
	}
	query := url.Values{"page": {strconv.Itoa(pageNum)}}

	var out Page[QueryRecord]
	if err := r.doJSON(ctx, http.MethodGet, "/api/logs/query-history", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
