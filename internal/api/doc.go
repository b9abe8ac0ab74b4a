// Package api is the HTTP client for the posts backend.
//
// # Endpoints
//
//	POST   /api/auth/login/      {username, password} -> {access, ...}
//	POST   /api/auth/register/   {username, email, password}
//	GET    /posts?limit=&offset=
//	POST   /posts                PostInput -> Post
//	PATCH  /posts/{id}           PostInput -> Post
//	DELETE /posts/{id}
//
// Every call goes through Client.Do, which sets the bearer token when one is
// given, tags the request with a fresh X-Request-ID and decodes the JSON
// body into dest. There are no retries and no client-side timeout beyond
// what the caller's context imposes.
//
// # Errors
//
// A response outside 2xx becomes *APIError. Its Message is the first
// non-empty string among the body's "message", "error" and "detail" keys,
// or the per-call fallback (MsgLoginFailed, MsgFetchFailed, ...) when the
// body has none. Transport failures wrap ErrUnreachable. Message turns
// either into banner text.
//
// # Identifiers
//
// Post ids are integers. Author ids arrive as numbers from some backends and
// strings from others; UserID accepts both so ownership checks compare like
// with like.
package api
