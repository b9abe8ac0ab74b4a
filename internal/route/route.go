// Package route maps paths to screens and applies the auth guards.
package route

import "strings"

// Route identifies a screen.
type Route int

const (
	NotFound Route = iota
	Posts
	Login
	Register
	AddPost
)

// Canonical paths.
const (
	PathRoot     = "/"
	PathPosts    = "/posts"
	PathLogin    = "/login"
	PathRegister = "/register"
	PathAddPost  = "/add-post"
)

// Access is the guard attached to a route.
type Access int

const (
	Public Access = iota
	GuestOnly
	AuthOnly
)

type entry struct {
	route  Route
	access Access
}

var table = map[string]entry{
	PathRoot:     {Posts, Public},
	PathPosts:    {Posts, Public},
	PathLogin:    {Login, GuestOnly},
	PathRegister: {Register, GuestOnly},
	PathAddPost:  {AddPost, AuthOnly},
}

func (r Route) String() string {
	switch r {
	case Posts:
		return "posts"
	case Login:
		return "login"
	case Register:
		return "register"
	case AddPost:
		return "add-post"
	default:
		return "not-found"
	}
}

// Resolution is the outcome of resolving a path.
type Resolution struct {
	Route      Route
	Path       string
	Redirected bool
}

// Resolve looks up path and applies its guard. Guests asking for an
// auth-only screen land on /login; signed-in users asking for a guest-only
// screen land on /posts.
func Resolve(path string, authenticated bool) Resolution {
	p := Normalize(path)
	e, ok := table[p]
	if !ok {
		return Resolution{Route: NotFound, Path: p}
	}
	switch {
	case e.access == AuthOnly && !authenticated:
		return Resolution{Route: Login, Path: PathLogin, Redirected: true}
	case e.access == GuestOnly && authenticated:
		return Resolution{Route: Posts, Path: PathPosts, Redirected: true}
	}
	return Resolution{Route: e.route, Path: p}
}

// Normalize trims whitespace, query and fragment, adds a leading slash and
// drops trailing slashes. An empty path is "/".
func Normalize(path string) string {
	p := strings.TrimSpace(path)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	for len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
