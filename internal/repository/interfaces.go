package repository

import (
	"context"

	"github.com/Agure-la/alx-poll/internal/domain"
)

// PollStore defines the interface for poll data operations.
// Lookup methods return (nil, nil) when no row matches.
type PollStore interface {
	// CreatePoll atomically inserts a poll and its options
	CreatePoll(ctx context.Context, poll *domain.Poll) error

	// GetPollByID retrieves a poll with its options
	GetPollByID(ctx context.Context, pollID string) (*domain.Poll, error)

	// GetPollByShareToken retrieves a poll with its options by share token
	GetPollByShareToken(ctx context.Context, shareToken string) (*domain.Poll, error)

	// ListPollsByOwner retrieves all polls created by a user
	ListPollsByOwner(ctx context.Context, ownerID string) ([]domain.Poll, error)

	// UpdatePoll persists settings edits (title/description/flags/expiry)
	UpdatePoll(ctx context.Context, poll *domain.Poll) error

	// DeletePoll removes a poll; options and votes cascade
	DeletePoll(ctx context.Context, pollID string) error
}

// VoteStore defines the interface for vote data operations
type VoteStore interface {
	// InsertVotes inserts all rows in one transaction, all-or-nothing.
	// A uniqueness violation surfaces as domain.ErrAlreadyVoted.
	InsertVotes(ctx context.Context, votes []*domain.Vote, singleChoice bool) error

	// ListVotesByPoll retrieves every vote for a poll, oldest first
	ListVotesByPoll(ctx context.Context, pollID string) ([]domain.Vote, error)

	// ListVotesByIdentity retrieves a poll's votes matching one identity
	ListVotesByIdentity(ctx context.Context, pollID string, identity domain.VoterIdentity) ([]domain.Vote, error)

	// GetVoteByID retrieves a single vote, (nil, nil) when missing
	GetVoteByID(ctx context.Context, voteID string) (*domain.Vote, error)
}
