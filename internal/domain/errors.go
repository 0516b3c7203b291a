package domain

import "errors"

// Sentinel errors for the vote intake pipeline. Each maps to a distinct
// machine-readable code at the HTTP layer; callers can always tell which
// rule rejected a submission.
var (
	ErrPollNotFound           = errors.New("poll not found")
	ErrPollInactive           = errors.New("poll is not active")
	ErrPollExpired            = errors.New("poll has expired")
	ErrAuthenticationRequired = errors.New("poll requires an authenticated voter")
	ErrInvalidOption          = errors.New("option does not belong to poll")
	ErrAlreadyVoted           = errors.New("identity has already voted")
	ErrVoteNotFound           = errors.New("vote not found")
	ErrNotPollOwner           = errors.New("caller does not own this poll")
)
