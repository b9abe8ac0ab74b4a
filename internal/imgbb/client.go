// Package imgbb uploads local image files to an imgbb-compatible image host
// and returns the hosted URL.
package imgbb

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
)

const (
	// DefaultEndpoint is the public imgbb upload endpoint.
	DefaultEndpoint = "https://api.imgbb.com/1/upload"

	// MaxImageSize is the largest file UploadFile will send.
	MaxImageSize = 5 * 1024 * 1024

	genericFailure = "Failed to upload image"
)

var (
	// ErrNoImage is returned when the path does not name a readable file.
	ErrNoImage = errors.New("No image file provided")
	// ErrTooLarge is returned for files over MaxImageSize. No request is made.
	ErrTooLarge = errors.New("Image size must be less than 5MB")
)

// UploadError reports a failed upload. Status is zero when no response was
// received.
type UploadError struct {
	Status  int
	Message string
	Err     error
}

func (e *UploadError) Error() string {
	return "Image upload failed: " + e.Message
}

func (e *UploadError) Unwrap() error { return e.Err }

// Client posts images to the host.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

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

// NewClient builds a Client. An empty endpoint uses DefaultEndpoint; an empty
// apiKey is an error.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("image host api key is empty")
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{endpoint: endpoint, apiKey: apiKey, http: &http.Client{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// UploadFile sends the file at path and returns its hosted URL.
func (c *Client) UploadFile(ctx context.Context, path string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("image client is nil")
	}
	if strings.TrimSpace(path) == "" {
		return "", ErrNoImage
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", ErrNoImage
	}
	if info.Size() > MaxImageSize {
		return "", ErrTooLarge
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}

	body, contentType, err := c.encodeForm(base64.StdEncoding.EncodeToString(raw))
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("imgbb: upload of %s failed: %v", info.Name(), err)
		return "", &UploadError{Message: err.Error(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &UploadError{Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	var decoded uploadResponse
	decodeErr := json.Unmarshal(payload, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := genericFailure
		if decodeErr == nil && strings.TrimSpace(decoded.Error.Message) != "" {
			msg = decoded.Error.Message
		}
		log.Printf("imgbb: upload of %s returned status %d", info.Name(), resp.StatusCode)
		return "", &UploadError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", &UploadError{Status: resp.StatusCode, Message: genericFailure, Err: decodeErr}
	}
	if decoded.Data.URL == "" {
		return "", &UploadError{Status: resp.StatusCode, Message: genericFailure}
	}
	return decoded.Data.URL, nil
}

func (c *Client) encodeForm(image string) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("key", c.apiKey); err != nil {
		return nil, "", fmt.Errorf("encode upload form: %w", err)
	}
	if err := w.WriteField("image", image); err != nil {
		return nil, "", fmt.Errorf("encode upload form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("encode upload form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
