// Package feed tracks the paginated post list shown on the posts screen: which
// page to fetch next, whether a fetch is in flight, and the merged result.
// It performs no I/O; callers run the fetch described by BeginLoad and hand
// the outcome back through Apply.
package feed

import (
	"slices"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/api"
)

// PageSize is the number of posts requested per page.
const PageSize = 6

// State is the lifecycle of the feed.
type State int

const (
	StateLoading State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Request describes one page fetch.
type Request struct {
	Page   int
	Limit  int
	Offset int
}

// Feed is not safe for concurrent use; the UI owns it on its update loop.
type Feed struct {
	state       State
	posts       []api.Post
	seen        map[int64]struct{}
	page        int
	inFlight    bool
	hasMore     bool
	fetched     int
	err         error
	loadMoreErr error
}

// New returns a feed waiting for its first page.
func New() *Feed {
	return &Feed{
		state:   StateLoading,
		seen:    make(map[int64]struct{}),
		hasMore: true,
	}
}

// BeginLoad reserves the next page fetch. It reports false while another
// fetch is in flight, after a terminal error, or once the last page arrived.
func (f *Feed) BeginLoad() (Request, bool) {
	if f.inFlight || f.state == StateError || !f.hasMore {
		return Request{}, false
	}
	f.inFlight = true
	return Request{
		Page:   f.page,
		Limit:  PageSize,
		Offset: f.page * PageSize,
	}, true
}

// Apply records the outcome of the fetch started by BeginLoad. Results for
// any other request are ignored and Apply reports false.
func (f *Feed) Apply(req Request, posts []api.Post, err error) bool {
	if !f.inFlight || req.Page != f.page {
		return false
	}
	f.inFlight = false

	if err != nil {
		if req.Page == 0 {
			f.state = StateError
			f.err = err
			return true
		}
		f.loadMoreErr = err
		f.hasMore = false
		return true
	}

	f.fetched += len(posts)
	for _, p := range posts {
		if _, dup := f.seen[p.ID]; dup {
			continue
		}
		f.seen[p.ID] = struct{}{}
		f.posts = append(f.posts, p)
	}
	f.hasMore = len(posts) == PageSize
	f.page++
	f.state = StateReady
	return true
}

// Remove drops the post with id, reporting whether it was present.
func (f *Feed) Remove(id int64) bool {
	for i, p := range f.posts {
		if p.ID != id {
			continue
		}
		f.posts = slices.Delete(f.posts, i, i+1)
		return true
	}
	return false
}

// Posts returns a copy of the merged list.
func (f *Feed) Posts() []api.Post {
	out := make([]api.Post, len(f.posts))
	copy(out, f.posts)
	return out
}

// Post returns the post at index i.
func (f *Feed) Post(i int) (api.Post, bool) {
	if i < 0 || i >= len(f.posts) {
		return api.Post{}, false
	}
	return f.posts[i], true
}

func (f *Feed) Len() int { return len(f.posts) }
func (f *Feed) State() State { return f.state }
func (f *Feed) Loading() bool { return f.inFlight }
func (f *Feed) HasMore() bool { return f.hasMore }
func (f *Feed) Err() error { return f.err }
func (f *Feed) LoadMoreErr() error { return f.loadMoreErr }
func (f *Feed) PagesLoaded() int { return f.page }

// Fetched counts every post received, duplicates included.
func (f *Feed) Fetched() int { return f.fetched }

// CanEdit reports whether viewer may edit or delete post. An anonymous
// viewer owns nothing.
func CanEdit(post api.Post, viewer api.UserID) bool {
	return !viewer.IsZero() && post.AuthorID == viewer
}
