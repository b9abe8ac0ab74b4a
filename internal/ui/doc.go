// Package ui provides the terminal user interface for postboard.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea program. Model is the root state; every
// screen is a value held by Model and mounted by navigate, which resolves
// the path through the route guards first. Each mount bumps a sequence
// number; results of background commands carry the number they were issued
// under and are dropped when it no longer matches, so a slow response can
// never land on a screen the user has already left.
//
// # Screens
//
//   - /posts: paginated feed, six posts per page, loaded as the selection
//     nears the end of the list
//   - /login and /register: validated forms with a server error banner
//   - /add-post: create or edit a post, with an optional image upload
//   - anything else: not found
//
// # Key Bindings
//
//   - p / l / L: Posts, Login, Logout
//   - : or ctrl+g: go to a path
//   - j/k, g/G: move through the feed; m loads more, r reloads
//   - a / e / d: add, edit, delete (own posts only)
//   - tab / shift+tab: move between form fields
//   - enter submits login and register; ctrl+s saves a post
//   - T: cycle theme, h/?: help, q or ctrl+c: quit
//
// # Session Indicator
//
// The navbar indicator follows the cookie jar through SessionChangedMsg,
// which a background watcher sends. The route guards read the in-memory
// session instead, which only changes on login, logout and reload.
package ui
