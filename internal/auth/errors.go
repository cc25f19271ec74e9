// Package auth implements the authentication core: credential
// verification, role claim derivation, token issuing and the login
// orchestration over a credential store. These sentinel values let the
// HTTP layer distinguish between the different failure classes without
// inspecting error strings. For example, ErrAccountNotFound and
// ErrInvalidCredentials are user-facing, while ErrStore, ErrDomain and
// ErrConfig indicate internal problems that should be logged and
// reported as server failures.
package auth

import "errors"

// ErrAccountNotFound is returned when neither the email nor the
// username lookup matches an account. Safe to report generically.
var ErrAccountNotFound = errors.New("account not found")

// ErrInvalidCredentials is returned when the provided password does
// not verify against the stored hash and salt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrStore is returned when a lookup or write against the persistence
// layer fails, including a missing salt row for a valid account.
var ErrStore = errors.New("credential store failure")

// ErrDomain is returned when an account carries a role outside the
// known set. It indicates data corruption, not a bad request.
var ErrDomain = errors.New("domain invariant violated")

// ErrConfig is returned when the refresh token validity is missing or
// not a positive integer. Raised at first use, never defaulted.
var ErrConfig = errors.New("invalid auth configuration")
