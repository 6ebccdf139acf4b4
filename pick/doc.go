// Package pick is the caller-facing façade of the picker: it sequences
// permission check, selection/crop interaction, and export into one
// session.
//
// A Picker is an explicit session object. Each Pick call runs one
// session; a second call while one is live fails with
// ErrSessionActive. Independent Pickers never share state, so callers
// can run isolated sessions side by side.
//
// The interaction step is abstracted behind the Interactor capability
// interface: a UI binds the selection store and crop controller to its
// widgets and reports whether the user confirmed. The default
// interactor confirms the pre-seeded selection unchanged, which makes
// headless use (tests, CLIs) a one-liner.
package pick
