package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format of Post.Date.
const DateLayout = "2006-01-02"

// UserID identifies an author. The backend may send it as a JSON number or
// string; both normalise to the decimal/string form.
type UserID string

// IsZero reports whether the id is empty.
func (id UserID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts numbers, strings and null.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UserID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("user id: %w", err)
	}
	*id = UserID(n.String())
	return nil
}

// MarshalJSON emits numeric ids as numbers and everything else as strings.
func (id UserID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Post mirrors a post as returned by /posts.
type Post struct {
	ID             int64  `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Date           string `json:"date"`
	ImageURL       string `json:"image_url"`
	AuthorID       UserID `json:"author_id"`
	AuthorUsername string `json:"author_username"`
}

// ParsedDate returns Date as time.Time, or the zero time when unparseable.
func (p Post) ParsedDate() time.Time {
	if p.Date == "" {
		return time.Time{}
	}
	for _, layout := range []string{DateLayout, time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, p.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// PostInput is the body of create and update calls.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	ImageURL string `json:"image_url"`
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued tokens. Only Access is consumed.
type LoginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// errorMessage pulls a human-readable message out of a failed response
// body. Keys are tried in order; non-string values are skipped.
func errorMessage(raw []byte) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ""
	}
	for _, key := range []string{"message", "error", "detail"} {
		value, ok := fields[key]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(value, &s); err == nil && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
