// Package compose turns an editor draft into a create or update call,
// uploading the attached image first when there is one.
package compose

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
)

// ErrUploadsDisabled is returned when a draft carries an image but no
// uploader is configured.
var ErrUploadsDisabled = errors.New("image uploads are not configured")

// Draft is the unsaved editor content.
type Draft struct {
	Title     string
	Content   string
	ImagePath string
}

// Uploader stores a local image and returns its public URL.
type Uploader interface {
	UploadFile(ctx context.Context, path string) (string, error)
}

// Submitter writes drafts to the backend.
type Submitter struct {
	API      api.PostService
	Uploader Uploader
	Now      func() time.Time
}

// Submit creates a post, or updates existing when it is non-nil. An upload
// failure aborts before any write.
func (s *Submitter) Submit(ctx context.Context, token string, d Draft, existing *api.Post) (api.Post, error) {
	if s == nil || s.API == nil {
		return api.Post{}, fmt.Errorf("submitter is not configured")
	}

	imageURL := ""
	if existing != nil {
		imageURL = existing.ImageURL
	}
	if path := strings.TrimSpace(d.ImagePath); path != "" {
		if s.Uploader == nil {
			return api.Post{}, ErrUploadsDisabled
		}
		url, err := s.Uploader.UploadFile(ctx, path)
		if err != nil {
			return api.Post{}, err
		}
		imageURL = url
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	in := api.PostInput{
		Title:    d.Title,
		Content:  d.Content,
		Date:     now().Format(api.DateLayout),
		ImageURL: imageURL,
	}

	if existing == nil {
		return s.API.CreatePost(ctx, token, in)
	}
	return s.API.UpdatePost(ctx, token, existing.ID, in)
}

// FailureMessage is the banner text for a failed Submit.
func FailureMessage(err error, editing bool) string {
	fallback := api.MsgCreateFailed
	if editing {
		fallback = api.MsgUpdateFailed
	}
	var apiErr *api.APIError
	if errors.As(err, &apiErr) || errors.Is(err, api.ErrUnreachable) {
		return api.Message(err, fallback)
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
