package compose

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
	"github.com/Ahmed-Sayed-1/Blog-System/internal/imgbb"
)

type call struct {
	writes  int
	method  string
	path    string
	payload api.PostInput
	auth    string
}

type backend struct {
	mu   sync.Mutex
	last call
}

func (b *backend) snapshot() call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

func newBackend(t *testing.T) (*backend, *api.Client) {
	t.Helper()
	b := &backend{}
	handle := func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.last.writes++
		b.last.method = r.Method
		b.last.path = r.URL.Path
		b.last.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&b.last.payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(api.Post{
			ID:       42,
			Title:    b.last.payload.Title,
			Content:  b.last.payload.Content,
			Date:     b.last.payload.Date,
			ImageURL: b.last.payload.ImageURL,
			AuthorID: "7",
		})
	}
	r := mux.NewRouter()
	r.HandleFunc("/posts", handle).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id:[0-9]+}", handle).Methods(http.MethodPatch)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	c, err := api.NewClient(server.URL)
	if err != nil {
		t.Fatalf("api.NewClient returned error: %v", err)
	}
	return b, c
}

func newImageHost(t *testing.T, status int, reply string) *imgbb.Client {
	t.Helper()
	r := mux.NewRouter()
	r.HandleFunc("/1/upload", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}).Methods(http.MethodPost)
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	c, err := imgbb.NewClient(server.URL+"/1/upload", "test-key")
	if err != nil {
		t.Fatalf("imgbb.NewClient returned error: %v", err)
	}
	return c
}

func imageFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cat.png")
	if err := os.WriteFile(path, []byte("not really a png"), 0o600); err != nil {
		t.Fatalf("write image: %v", err)
	}
	return path
}

func fixedClock() time.Time { return time.Date(2024, 6, 1, 15, 4, 5, 0, time.Local) }

func TestSubmit_CreateRoundTrip(t *testing.T) {
	b, client := newBackend(t)
	s := &Submitter{
		API:      client,
		Uploader: newImageHost(t, http.StatusOK, `{"data":{"url":"https://i.example/cat.png"}}`),
		Now:      fixedClock,
	}

	got, err := s.Submit(context.Background(), "tok", Draft{Title: "T", Content: "C", ImagePath: imageFile(t)}, nil)
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	want := api.PostInput{Title: "T", Content: "C", Date: "2024-06-01", ImageURL: "https://i.example/cat.png"}
	c := b.snapshot()
	if c.payload != want {
		t.Fatalf("payload = %+v, want %+v", c.payload, want)
	}
	if c.method != http.MethodPost || c.auth != "Bearer tok" {
		t.Fatalf("call = %s auth %q", c.method, c.auth)
	}
	if got.ID != 42 || got.ImageURL != want.ImageURL || got.Date != want.Date {
		t.Fatalf("returned post = %+v", got)
	}
}

func TestSubmit_EditReusesExistingImage(t *testing.T) {
	b, client := newBackend(t)
	s := &Submitter{API: client, Now: fixedClock}
	existing := &api.Post{ID: 9, Title: "old", ImageURL: "https://i.example/old.png"}

	if _, err := s.Submit(context.Background(), "tok", Draft{Title: "new", Content: "body"}, existing); err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	c := b.snapshot()
	if c.method != http.MethodPatch || c.path != "/posts/9" {
		t.Fatalf("call = %s %s, want PATCH /posts/9", c.method, c.path)
	}
	if c.payload.ImageURL != existing.ImageURL {
		t.Fatalf("image_url = %q, want existing", c.payload.ImageURL)
	}
}

func TestSubmit_UploadFailureAbortsWrite(t *testing.T) {
	b, client := newBackend(t)
	s := &Submitter{
		API:      client,
		Uploader: newImageHost(t, http.StatusBadRequest, `{"error":{"message":"Invalid API v1 key."}}`),
		Now:      fixedClock,
	}

	_, err := s.Submit(context.Background(), "tok", Draft{Title: "T", Content: "C", ImagePath: imageFile(t)}, nil)
	var upErr *imgbb.UploadError
	if !errors.As(err, &upErr) {
		t.Fatalf("err = %v, want *imgbb.UploadError", err)
	}
	if n := b.snapshot().writes; n != 0 {
		t.Fatalf("backend received %d writes, want 0", n)
	}
	if got := FailureMessage(err, false); got != "Image upload failed: Invalid API v1 key." {
		t.Fatalf("FailureMessage = %q", got)
	}
}

func TestSubmit_ImageWithoutUploader(t *testing.T) {
	b, client := newBackend(t)
	s := &Submitter{API: client}

	_, err := s.Submit(context.Background(), "tok", Draft{Title: "T", Content: "C", ImagePath: "/tmp/x.png"}, nil)
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Fatalf("err = %v, want ErrUploadsDisabled", err)
	}
	if n := b.snapshot().writes; n != 0 {
		t.Fatalf("backend received %d writes, want 0", n)
	}
}

func TestFailureMessage(t *testing.T) {
	apiErr := &api.APIError{Status: 500}
	if got := FailureMessage(apiErr, true); got != api.MsgUpdateFailed {
		t.Fatalf("edit fallback = %q", got)
	}
	if got := FailureMessage(apiErr, false); got != api.MsgCreateFailed {
		t.Fatalf("create fallback = %q", got)
	}
	if got := FailureMessage(imgbb.ErrTooLarge, false); got != "Image size must be less than 5MB" {
		t.Fatalf("too large = %q", got)
	}
}
