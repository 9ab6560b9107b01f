package voicebridge

// ============================================================================
// Shared Types
// ============================================================================

// APIError is the normalized form of every expected failure: transport
// problems, rejected requests, and unresolved authentication. The
// Message is always human-readable and non-empty.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// Error codes reported by the client.
const (
	CodeNetworkError = "NETWORK_ERROR"
	CodeAuthFailed   = "AUTH_FAILED"
	CodeServerError  = "SERVER_ERROR"
)

func errNetwork() *APIError {
	return &APIError{Code: CodeNetworkError, Message: "Network error occurred"}
}

func errAuthFailed() *APIError {
	return &APIError{Code: CodeAuthFailed, Message: "Authentication failed"}
}

func errServer(message string) *APIError {
	if message == "" {
		message = "An error occurred"
	}
	return &APIError{Code: CodeServerError, Message: message}
}

// ============================================================================
// Auth Types
// ============================================================================

// AuthTokens is the access/refresh token pair. The pair is atomic: both
// values are present together or the pair is absent.
type AuthTokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Session is returned by Login and Register.
type Session struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    User   `json:"user"`
}

// ============================================================================
// User Types
// ============================================================================

// Device types.
const (
	DeviceSmartphone   = "smartphone"
	DeviceFeaturePhone = "feature-phone"
)

// Supported assistant languages.
const (
	LanguageEnglish = "en"
	LanguageYoruba  = "yo"
	LanguageHausa   = "ha"
	LanguageIgbo    = "ig"
)

type Profile struct {
	DeviceType  string `json:"device_type"`
	Language    string `json:"language"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Profile  Profile `json:"profile"`
}

// ProfileUpdate carries a partial profile change; nil fields are left
// unchanged.
type ProfileUpdate struct {
	Username    *string `json:"username,omitempty"`
	Email       *string `json:"email,omitempty"`
	DeviceType  *string `json:"device_type,omitempty"`
	Language    *string `json:"language,omitempty"`
	PhoneNumber *string `json:"phone_number,omitempty"`
}

// ============================================================================
// Assistant Types
// ============================================================================

// Assistant content categories.
const (
	CategoryHealth        = "health"
	CategoryEducation     = "education"
	CategoryFinance       = "finance"
	CategoryEntertainment = "entertainment"
	CategoryGeneral       = "general"
)

// VoiceResult is the assistant's answer to an uploaded voice query.
type VoiceResult struct {
	Query                 string `json:"query"`
	Response              string `json:"response"`
	AudioURL              string `json:"audio_url,omitempty"`
	UploadedInputAudioURL string `json:"uploaded_input_audio_url,omitempty"`
}

// QueryResult is the assistant's answer to a text query.
type QueryResult struct {
	Query    string `json:"query"`
	Response string `json:"response"`
	AudioURL string `json:"audio_url,omitempty"`
}

// QueryRecord is one entry in the append-only query history, newest
// first, capped at 100 entries.
type QueryRecord struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Response  string `json:"response"`
	Language  string `json:"language"`
	Category  string `json:"category"`
	Timestamp string `json:"timestamp"`
	AudioURL  string `json:"audio_url,omitempty"`
}

// Lesson is a read-only learning entry.
type Lesson struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Language  string `json:"language"`
	Category  string `json:"category"`
	CreatedAt string `json:"created_at"`
}

// LessonFilter narrows a lesson listing. Empty or "all" values impose no
// constraint; Search is a case-insensitive substring match over title
// and body. Page is 1-indexed.
type LessonFilter struct {
	Language string
	Category string
	Search   string
	Page     int
}

// ============================================================================
// Pagination
// ============================================================================

// Page is a bounded slice of an ordered collection plus the total count
// and forward/backward locators. Both backends return the same shape.
type Page[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}
