package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// Poll key builders

func (kb *KeyBuilder) KeyPollByID(pollID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollByID, pollID))
}

func (kb *KeyBuilder) KeyPollByShare(shareToken string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollByShare, shareToken))
}

func (kb *KeyBuilder) KeyIdentityVoted(pollID, identityKey string) string {
	return kb.BuildKey(fmt.Sprintf(KeyIdentityVoted, pollID, identityKey))
}

func (kb *KeyBuilder) KeyPollResults(pollID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollResults, pollID))
}

func (kb *KeyBuilder) KeyPollAnalytics(pollID, granularity string) string {
	return kb.BuildKey(fmt.Sprintf(KeyPollAnalytics, pollID, granularity))
}

// KeyCustom builds a key from an arbitrary pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
