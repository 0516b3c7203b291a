package domain

import (
	"fmt"
	"strings"
)

// IdentityKind distinguishes the three voter identity forms
type IdentityKind string

const (
	IdentityAuthenticated  IdentityKind = "authenticated"
	IdentityAnonymousEmail IdentityKind = "anonymous_email"
	IdentityAnonymousPhone IdentityKind = "anonymous_phone"
)

// VoterIdentity is the voter-distinguishing key, modeled as a tagged variant
// so "exactly one identity form present" is structural rather than three
// nullable fields checked at runtime.
type VoterIdentity struct {
	Kind  IdentityKind
	Value string
}

// NewAuthenticatedIdentity builds an identity from a verified session user id.
// The id must come from the session validator, never from the request body.
func NewAuthenticatedIdentity(userID string) (VoterIdentity, error) {
	if userID == "" {
		return VoterIdentity{}, fmt.Errorf("authenticated identity requires a user id")
	}
	return VoterIdentity{Kind: IdentityAuthenticated, Value: userID}, nil
}

// NewEmailIdentity builds an anonymous identity keyed by email
func NewEmailIdentity(email string) (VoterIdentity, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return VoterIdentity{}, fmt.Errorf("invalid voter email")
	}
	return VoterIdentity{Kind: IdentityAnonymousEmail, Value: email}, nil
}

// NewPhoneIdentity builds an anonymous identity keyed by phone number
func NewPhoneIdentity(phone string) (VoterIdentity, error) {
	normalized := normalizePhone(phone)
	if normalized == "" {
		return VoterIdentity{}, fmt.Errorf("invalid voter phone")
	}
	return VoterIdentity{Kind: IdentityAnonymousPhone, Value: normalized}, nil
}

// IsAuthenticated reports whether the identity came from a verified session
func (v VoterIdentity) IsAuthenticated() bool {
	return v.Kind == IdentityAuthenticated
}

// IsZero reports whether no identity form is present
func (v VoterIdentity) IsZero() bool {
	return v.Kind == "" || v.Value == ""
}

// Key returns the deduplication key for this identity, stable across the
// kind so the same email always maps to the same key.
func (v VoterIdentity) Key() string {
	return string(v.Kind) + ":" + v.Value
}

// normalizePhone strips spaces, dashes and parentheses so the same number
// always produces the same identity value.
func normalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')':
			// separators are dropped
		default:
			return ""
		}
	}
	if n := len(strings.TrimPrefix(b.String(), "+")); n < 7 || n > 15 {
		return ""
	}
	return b.String()
}

// VoterKey coalesces the three nullable vote columns back into an identity
// key: voter_id first, else voter_email, else voter_phone. Used when
// counting unique voters over persisted rows.
func VoterKey(voterID, voterEmail, voterPhone string) string {
	switch {
	case voterID != "":
		return string(IdentityAuthenticated) + ":" + voterID
	case voterEmail != "":
		return string(IdentityAnonymousEmail) + ":" + voterEmail
	default:
		return string(IdentityAnonymousPhone) + ":" + voterPhone
	}
}
