package ledger

import "errors"

// Every failure an engine operation can report. Transport layers map
// these to status codes; they never inspect error strings.
var (
	// ErrInvalidInput covers malformed or out-of-range parameters:
	// non-positive amounts, deadlines in the past, empty required
	// fields, unknown categories.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCampaignNotFound means the id is unknown or the campaign has
	// been deleted (tombstoned).
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrUnauthorized means the caller lacks the role the operation
	// requires.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyWithdrawn means funds were already released; release is
	// exactly-once.
	ErrAlreadyWithdrawn = errors.New("funds already withdrawn")

	// ErrAlreadyVerified is reserved for strict verification callers.
	// The engine itself treats re-verification as idempotent success.
	ErrAlreadyVerified = errors.New("campaign already verified")

	// ErrNotEligible means refund preconditions are unmet: deadline not
	// reached, goal already met, or funds withdrawn.
	ErrNotEligible = errors.New("not eligible for refund")

	// ErrNoDonationFound means the donor has no unrefunded donations on
	// the campaign.
	ErrNoDonationFound = errors.New("no donation found")

	// ErrStorageUnavailable wraps persistence failures. Always
	// retryable; no partial state was committed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
