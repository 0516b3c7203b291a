package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/pkg/database"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

type VoteRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *VoteRepository {
	return &VoteRepository{db: db}
}

// InsertVotes inserts one row per accepted option inside a single
// transaction. The partial unique indexes on votes are the authoritative
// duplicate guard: a 23505 from any row aborts the whole batch and is
// returned as domain.ErrAlreadyVoted, never as a raw storage error.
func (r *VoteRepository) InsertVotes(ctx context.Context, votes []*domain.Vote, singleChoice bool) error {
	if len(votes) == 0 {
		return fmt.Errorf("no votes to insert")
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO votes (
			id, poll_id, option_id, voter_id, voter_email, voter_phone,
			single_choice, ip_address, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	for _, vote := range votes {
		err := tx.QueryRow(ctx, query,
			vote.ID,
			vote.PollID,
			vote.OptionID,
			nullable(vote.VoterID),
			nullable(vote.VoterEmail),
			nullable(vote.VoterPhone),
			singleChoice,
			vote.IPAddress,
			vote.UserAgent,
		).Scan(&vote.CreatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return domain.ErrAlreadyVoted
			}
			return fmt.Errorf("failed to insert vote: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to commit votes: %w", err)
	}

	return nil
}

// ListVotesByPoll retrieves every vote for a poll in insertion order
func (r *VoteRepository) ListVotesByPoll(ctx context.Context, pollID string) ([]domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_id, voter_id, voter_email, voter_phone,
		       ip_address, user_agent, created_at
		FROM votes
		WHERE poll_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

// ListVotesByIdentity retrieves a poll's votes matching one identity
func (r *VoteRepository) ListVotesByIdentity(ctx context.Context, pollID string, identity domain.VoterIdentity) ([]domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_id, voter_id, voter_email, voter_phone,
		       ip_address, user_agent, created_at
		FROM votes
		WHERE poll_id = $1 AND ` + identityColumn(identity) + ` = $2
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, pollID, identity.Value)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes by identity: %w", err)
	}
	defer rows.Close()

	return scanVotes(rows)
}

// GetVoteByID retrieves a single vote by id
func (r *VoteRepository) GetVoteByID(ctx context.Context, voteID string) (*domain.Vote, error) {
	query := `
		SELECT id, poll_id, option_id, voter_id, voter_email, voter_phone,
		       ip_address, user_agent, created_at
		FROM votes
		WHERE id = $1
	`

	var vote domain.Vote
	var voterID, voterEmail, voterPhone *string

	err := r.db.Pool.QueryRow(ctx, query, voteID).Scan(
		&vote.ID,
		&vote.PollID,
		&vote.OptionID,
		&voterID,
		&voterEmail,
		&voterPhone,
		&vote.IPAddress,
		&vote.UserAgent,
		&vote.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}

	vote.VoterID = deref(voterID)
	vote.VoterEmail = deref(voterEmail)
	vote.VoterPhone = deref(voterPhone)
	return &vote, nil
}

func scanVotes(rows pgx.Rows) ([]domain.Vote, error) {
	var votes []domain.Vote
	for rows.Next() {
		var vote domain.Vote
		var voterID, voterEmail, voterPhone *string

		err := rows.Scan(
			&vote.ID,
			&vote.PollID,
			&vote.OptionID,
			&voterID,
			&voterEmail,
			&voterPhone,
			&vote.IPAddress,
			&vote.UserAgent,
			&vote.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}

		vote.VoterID = deref(voterID)
		vote.VoterEmail = deref(voterEmail)
		vote.VoterPhone = deref(voterPhone)
		votes = append(votes, vote)
	}

	return votes, rows.Err()
}

// identityColumn maps an identity kind to the vote column it is stored in
func identityColumn(identity domain.VoterIdentity) string {
	switch identity.Kind {
	case domain.IdentityAuthenticated:
		return "voter_id"
	case domain.IdentityAnonymousEmail:
		return "voter_email"
	default:
		return "voter_phone"
	}
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
