package errors

import "errors"

// Domain error taxonomy. Services return these; the HTTP layer maps them.
var (
	// ErrInvalidTarget rejects missing or self-targeted swipe targets.
	ErrInvalidTarget = errors.New("invalid target user")

	// ErrDuplicateDecision means a swipe already exists for the ordered
	// pair. The ledger is write-once: first decision is final.
	ErrDuplicateDecision = errors.New("already swiped on this user")

	// ErrDuplicateWish means the card is already on the user's wishlist.
	ErrDuplicateWish = errors.New("card already on wishlist")

	// ErrForbidden means the caller is not a participant of the match.
	ErrForbidden = errors.New("not authorized")

	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized means the request carries no valid identity.
	ErrUnauthorized = errors.New("invalid or missing token")

	// ErrInvalidCredentials is returned on bad login attempts without
	// revealing whether the account exists.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
