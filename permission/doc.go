// Package permission gates a picking session on the platform's
// media-library permission check.
//
// The platform check is wrapped behind a Gate so the rest of the module
// never sees platform-specific failure modes: a checker that returns an
// error, or panics outright, surfaces uniformly as ErrUnavailable. A
// Gate also serializes concurrent checks and caches the first completed
// result, because at the OS level only one permission request may be in
// flight at a time and a session must check exactly once.
package permission
