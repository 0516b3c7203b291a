package domain

// UserProfile represents the verified session profile extracted from a
// Supabase JWT. Sub is the authenticated user id and the only field the
// vote intake trusts for identity.
type UserProfile struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}
