package domain

import (
	"time"
)

// Poll represents a question with a fixed set of selectable options
type Poll struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	Description           string       `json:"description,omitempty"`
	CreatedBy             string       `json:"created_by"`
	IsActive              bool         `json:"is_active"`
	AllowMultipleVotes    bool         `json:"allow_multiple_votes"`
	RequireAuthentication bool         `json:"require_authentication"`
	ExpiresAt             *time.Time   `json:"expires_at,omitempty"`
	ShareToken            string       `json:"share_token"`
	Options               []PollOption `json:"options,omitempty"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// PollOption is one selectable choice belonging to a poll.
// OrderIndex is the stable display order, unique per poll.
type PollOption struct {
	ID         string `json:"id"`
	PollID     string `json:"poll_id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
}

// HasExpired reports whether the poll's expiry is set and in the past.
// Expiry wins over IsActive: an expired poll accepts no votes regardless.
func (p *Poll) HasExpired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// OptionByID returns the poll's option with the given id, or nil if the
// id does not belong to this poll.
func (p *Poll) OptionByID(optionID string) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// CreatePollRequest represents a poll creation request
type CreatePollRequest struct {
	Title                 string     `json:"title"`
	Description           string     `json:"description"`
	Options               []string   `json:"options"`
	AllowMultipleVotes    bool       `json:"allow_multiple_votes"`
	RequireAuthentication bool       `json:"require_authentication"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
}

// UpdatePollRequest represents an owner-only settings update.
// Nil fields are left unchanged; option shape is immutable after creation.
type UpdatePollRequest struct {
	Title                 *string    `json:"title,omitempty"`
	Description           *string    `json:"description,omitempty"`
	IsActive              *bool      `json:"is_active,omitempty"`
	AllowMultipleVotes    *bool      `json:"allow_multiple_votes,omitempty"`
	RequireAuthentication *bool      `json:"require_authentication,omitempty"`
	ExpiresAt             *time.Time `json:"expires_at,omitempty"`
}
