// Package api exposes the studiod REST surface on a chi router.
//
// Routes live under /api. The auth middleware runs globally and only
// attaches a Principal when a valid bearer token is presented; everything
// outside /api/auth is additionally wrapped with RequireAuth and answers
// 401 to anonymous requests.
//
// Error mapping: unknown entities answer 404, bad credentials 401, and —
// matching the client contract of the original API — duplicate
// registrations, roster conflicts, and malformed numeric IDs all answer 400.
package api
