package miro

import "errors"

var (
	// ErrNotInitialized is returned when a code exchange is attempted
	// before the OAuth flow was started.
	ErrNotInitialized = errors.New("miro instance not initialized, call get_auth_url first to start the OAuth flow")

	// ErrNotAuthenticated is returned when an operation needs a token and
	// neither a live nor a stored one exists.
	ErrNotAuthenticated = errors.New("not authenticated, complete the OAuth flow first: use get_auth_url to get the authorization URL, then exchange_auth_code with the code")

	// ErrReauthenticationRequired is returned when a mutating call is
	// attempted with only a token loaded from disk. The Miro API surface
	// for mutations only accepts tokens obtained through the in-process
	// handshake, so the caller must redo the flow.
	ErrReauthenticationRequired = errors.New("miro API requires tokens set through the OAuth flow, call get_auth_url and exchange_auth_code to re-authenticate")

	// ErrNoItems is returned by grouping when none of the given ids
	// resolve to a board item.
	ErrNoItems = errors.New("no items found to group")
)
