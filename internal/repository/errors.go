// Package repository defines error types that are reused across
// multiple repositories. These sentinel values let higher layers such
// as handlers distinguish failure scenarios with errors.Is. Not-found
// conditions surface as sql.ErrNoRows or as per-entity sentinels
// declared next to the repository that owns them.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, such as completing another user's habit.
// Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNotUnlocked is returned when a share is attempted on an
// achievement the user has not unlocked yet.
var ErrNotUnlocked = errors.New("achievement not unlocked")
