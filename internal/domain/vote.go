package domain

import (
	"time"
)

// Vote represents one recorded selection of an option by an identity.
// Exactly one of VoterID/VoterEmail/VoterPhone is set, matching the
// identity form the vote was submitted with. IPAddress and UserAgent are
// audit fields and never participate in eligibility decisions.
type Vote struct {
	ID         string    `json:"id"`
	PollID     string    `json:"poll_id"`
	OptionID   string    `json:"option_id"`
	VoterID    string    `json:"voter_id,omitempty"`
	VoterEmail string    `json:"voter_email,omitempty"`
	VoterPhone string    `json:"voter_phone,omitempty"`
	IPAddress  string    `json:"ip_address,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Identity reconstructs the voter identity from the persisted columns
func (v *Vote) Identity() VoterIdentity {
	switch {
	case v.VoterID != "":
		return VoterIdentity{Kind: IdentityAuthenticated, Value: v.VoterID}
	case v.VoterEmail != "":
		return VoterIdentity{Kind: IdentityAnonymousEmail, Value: v.VoterEmail}
	default:
		return VoterIdentity{Kind: IdentityAnonymousPhone, Value: v.VoterPhone}
	}
}

// VoteRequest represents a vote submission request. OptionID is the
// single-choice form; OptionIDs the multi-choice form. Exactly one of the
// two must be supplied. VoterEmail/VoterPhone identify anonymous voters;
// an authenticated session always takes precedence over both.
type VoteRequest struct {
	OptionID   string   `json:"option_id,omitempty"`
	OptionIDs  []string `json:"option_ids,omitempty"`
	VoterEmail string   `json:"voter_email,omitempty"`
	VoterPhone string   `json:"voter_phone,omitempty"`
}

// VoteMetadata carries request audit data recorded alongside each vote
type VoteMetadata struct {
	IPAddress string
	UserAgent string
}

// VoteResponse represents the response after a successful submission
type VoteResponse struct {
	PollID    string    `json:"poll_id"`
	Votes     []Vote    `json:"votes"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// MyVoteStatus reports whether an identity has voted on a poll
type MyVoteStatus struct {
	PollID    string   `json:"poll_id"`
	HasVoted  bool     `json:"has_voted"`
	OptionIDs []string `json:"option_ids,omitempty"`
}
