package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Agure-la/alx-poll/internal/domain"
	"github.com/Agure-la/alx-poll/pkg/database"
)

type PollRepository struct {
	db *database.PostgresDB
}

func NewPollRepository(db *database.PostgresDB) *PollRepository {
	return &PollRepository{db: db}
}

// CreatePoll inserts a poll and its options in one transaction
func (r *PollRepository) CreatePoll(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	pollQuery := `
		INSERT INTO polls (
			id, title, description, created_by, is_active,
			allow_multiple_votes, require_authentication, expires_at, share_token
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = tx.QueryRow(ctx, pollQuery,
		poll.ID,
		poll.Title,
		poll.Description,
		poll.CreatedBy,
		poll.IsActive,
		poll.AllowMultipleVotes,
		poll.RequireAuthentication,
		poll.ExpiresAt,
		poll.ShareToken,
	).Scan(&poll.CreatedAt, &poll.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create poll: %w", err)
	}

	optionQuery := `
		INSERT INTO poll_options (id, poll_id, text, order_index)
		VALUES ($1, $2, $3, $4)
	`

	for _, option := range poll.Options {
		if _, err := tx.Exec(ctx, optionQuery, option.ID, option.PollID, option.Text, option.OrderIndex); err != nil {
			return fmt.Errorf("failed to create poll option: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit poll: %w", err)
	}

	return nil
}

// GetPollByID retrieves a poll with its options
func (r *PollRepository) GetPollByID(ctx context.Context, pollID string) (*domain.Poll, error) {
	return r.getPoll(ctx, "id", pollID)
}

// GetPollByShareToken retrieves a poll with its options by share token
func (r *PollRepository) GetPollByShareToken(ctx context.Context, shareToken string) (*domain.Poll, error) {
	return r.getPoll(ctx, "share_token", shareToken)
}

func (r *PollRepository) getPoll(ctx context.Context, column, value string) (*domain.Poll, error) {
	query := `
		SELECT id, title, description, created_by, is_active,
		       allow_multiple_votes, require_authentication, expires_at,
		       share_token, created_at, updated_at
		FROM polls
		WHERE ` + column + ` = $1
	`

	var poll domain.Poll
	err := r.db.Pool.QueryRow(ctx, query, value).Scan(
		&poll.ID,
		&poll.Title,
		&poll.Description,
		&poll.CreatedBy,
		&poll.IsActive,
		&poll.AllowMultipleVotes,
		&poll.RequireAuthentication,
		&poll.ExpiresAt,
		&poll.ShareToken,
		&poll.CreatedAt,
		&poll.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	options, err := r.listOptions(ctx, poll.ID)
	if err != nil {
		return nil, err
	}
	poll.Options = options

	return &poll, nil
}

func (r *PollRepository) listOptions(ctx context.Context, pollID string) ([]domain.PollOption, error) {
	query := `
		SELECT id, poll_id, text, order_index
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY order_index ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list poll options: %w", err)
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var option domain.PollOption
		if err := rows.Scan(&option.ID, &option.PollID, &option.Text, &option.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		options = append(options, option)
	}

	return options, rows.Err()
}

// ListPollsByOwner retrieves all polls created by a user, newest first
func (r *PollRepository) ListPollsByOwner(ctx context.Context, ownerID string) ([]domain.Poll, error) {
	query := `
		SELECT id, title, description, created_by, is_active,
		       allow_multiple_votes, require_authentication, expires_at,
		       share_token, created_at, updated_at
		FROM polls
		WHERE created_by = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list polls: %w", err)
	}
	defer rows.Close()

	var polls []domain.Poll
	for rows.Next() {
		var poll domain.Poll
		err := rows.Scan(
			&poll.ID,
			&poll.Title,
			&poll.Description,
			&poll.CreatedBy,
			&poll.IsActive,
			&poll.AllowMultipleVotes,
			&poll.RequireAuthentication,
			&poll.ExpiresAt,
			&poll.ShareToken,
			&poll.CreatedAt,
			&poll.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}

	return polls, rows.Err()
}

// UpdatePoll persists settings edits. Option shape is immutable after
// creation, so only the polls row is touched.
func (r *PollRepository) UpdatePoll(ctx context.Context, poll *domain.Poll) error {
	query := `
		UPDATE polls
		SET title = $2, description = $3, is_active = $4,
		    allow_multiple_votes = $5, require_authentication = $6,
		    expires_at = $7, updated_at = now()
		WHERE id = $1
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		poll.ID,
		poll.Title,
		poll.Description,
		poll.IsActive,
		poll.AllowMultipleVotes,
		poll.RequireAuthentication,
		poll.ExpiresAt,
	).Scan(&poll.UpdatedAt)

	if err == pgx.ErrNoRows {
		return domain.ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update poll: %w", err)
	}

	return nil
}

// DeletePoll removes a poll; options and votes cascade at the schema level
func (r *PollRepository) DeletePoll(ctx context.Context, pollID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM polls WHERE id = $1`, pollID)
	if err != nil {
		return fmt.Errorf("failed to delete poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}
