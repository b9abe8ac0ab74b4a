package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Fallback messages used when the server does not report one.
const (
	MsgLoginFailed    = "Login failed"
	MsgRegisterFailed = "Registration failed"
	MsgFetchFailed    = "Failed to fetch posts"
	MsgCreateFailed   = "Failed to create post"
	MsgUpdateFailed   = "Failed to update post"
	MsgDeleteFailed   = "Failed to delete post"
)

// PostService is the subset of the backend the UI talks to. *Client
// implements it; tests substitute fakes.
type PostService interface {
	Login(ctx context.Context, creds Credentials) (LoginResponse, error)
	Register(ctx context.Context, reg Registration) error
	ListPosts(ctx context.Context, token string, limit, offset int) ([]Post, error)
	CreatePost(ctx context.Context, token string, in PostInput) (Post, error)
	UpdatePost(ctx context.Context, token string, id int64, in PostInput) (Post, error)
	DeletePost(ctx context.Context, token string, id int64) error
}

// Ensure Client implements PostService at compile time.
var _ PostService = (*Client)(nil)

// Client talks to the posts backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the backend address used when none is configured.
	DefaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "postboard/0.1"
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for baseURL. A bare host:port is accepted.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the resolved backend address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Request describes a single API call.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Body     any
	Token    string
	Fallback string // message used when a failed response carries none
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds Credentials) (LoginResponse, error) {
	if c == nil {
		return LoginResponse{}, fmt.Errorf("client is nil")
	}
	var payload LoginResponse
	err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/api/auth/login/",
		Body:     creds,
		Fallback: MsgLoginFailed,
	}, &payload)
	if err != nil {
		return LoginResponse{}, err
	}
	if payload.Access == "" {
		return LoginResponse{}, &APIError{Status: http.StatusOK, Message: "Login response did not include an access token"}
	}
	return payload, nil
}

// Register creates an account. The response body is not used.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/api/auth/register/",
		Body:     reg,
		Fallback: MsgRegisterFailed,
	}, nil)
}

// ListPosts fetches one page of posts. token may be empty.
func (c *Client) ListPosts(ctx context.Context, token string, limit, offset int) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}
	if offset < 0 {
		offset = 0
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(limit))
	values.Set("offset", strconv.Itoa(offset))

	var payload []Post
	err := c.Do(ctx, Request{
		Method:   http.MethodGet,
		Path:     "/posts",
		Query:    values,
		Token:    token,
		Fallback: MsgFetchFailed,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// CreatePost creates a post owned by the token's user.
func (c *Client) CreatePost(ctx context.Context, token string, in PostInput) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	var payload Post
	err := c.Do(ctx, Request{
		Method:   http.MethodPost,
		Path:     "/posts",
		Body:     in,
		Token:    token,
		Fallback: MsgCreateFailed,
	}, &payload)
	if err != nil {
		return Post{}, err
	}
	return payload, nil
}

// UpdatePost patches the post with the given id.
func (c *Client) UpdatePost(ctx context.Context, token string, id int64, in PostInput) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Post{}, fmt.Errorf("post id required")
	}
	var payload Post
	err := c.Do(ctx, Request{
		Method:   http.MethodPatch,
		Path:     "/posts/" + strconv.FormatInt(id, 10),
		Body:     in,
		Token:    token,
		Fallback: MsgUpdateFailed,
	}, &payload)
	if err != nil {
		return Post{}, err
	}
	return payload, nil
}

// DeletePost deletes the post with the given id.
func (c *Client) DeletePost(ctx context.Context, token string, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("post id required")
	}
	return c.Do(ctx, Request{
		Method:   http.MethodDelete,
		Path:     "/posts/" + strconv.FormatInt(id, 10),
		Token:    token,
		Fallback: MsgDeleteFailed,
	}, nil)
}

// Do performs req and decodes a successful JSON response into dest (which
// may be nil). It makes exactly one attempt.
func (c *Client) Do(ctx context.Context, req Request, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: req.Path}
	if len(req.Query) > 0 {
		rel.RawQuery = req.Query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Printf("api: %s %s (req %s) failed: %v", req.Method, rel.String(), requestID, err)
		return fmt.Errorf("execute request: %w: %w", ErrUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(raw)
		if msg == "" {
			msg = req.Fallback
		}
		log.Printf("api: %s %s (req %s) returned status %d", req.Method, rel.String(), requestID, resp.StatusCode)
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
