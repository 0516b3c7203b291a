package redis

import (
	"testing"
)

func TestKeyBuilder_Environment_Prefixes(t *testing.T) {
	tests := []struct {
		name           string
		environment    string
		expectedPrefix string
	}{
		{
			name:           "Production environment should use prod prefix",
			environment:    "production",
			expectedPrefix: "prod",
		},
		{
			name:           "Development environment should use staging prefix",
			environment:    "development",
			expectedPrefix: "staging",
		},
		{
			name:           "Staging environment should use staging prefix",
			environment:    "staging",
			expectedPrefix: "staging",
		},
		{
			name:           "Unknown environment should default to prod prefix",
			environment:    "unknown",
			expectedPrefix: "prod",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			if kb.GetPrefix() != tt.expectedPrefix {
				t.Errorf("NewKeyBuilder(%s).GetPrefix() = %s, want %s",
					tt.environment, kb.GetPrefix(), tt.expectedPrefix)
			}
		})
	}
}

func TestKeyBuilder_KeyGeneration(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		method   func() string
		expected string
	}{
		{
			name:     "PollByID key",
			method:   func() string { return kb.KeyPollByID("poll-123") },
			expected: "prod:polls:poll:poll-123",
		},
		{
			name:     "PollByShare key",
			method:   func() string { return kb.KeyPollByShare("token-abc") },
			expected: "prod:polls:share:token-abc",
		},
		{
			name:     "IdentityVoted key",
			method:   func() string { return kb.KeyIdentityVoted("poll-123", "anonymous_email:a@x.com") },
			expected: "prod:polls:poll-123:voted:anonymous_email:a@x.com",
		},
		{
			name:     "PollResults key",
			method:   func() string { return kb.KeyPollResults("poll-123") },
			expected: "prod:polls:poll-123:results",
		},
		{
			name:     "PollAnalytics key",
			method:   func() string { return kb.KeyPollAnalytics("poll-123", "day") },
			expected: "prod:polls:poll-123:analytics:day",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.method()
			if result != tt.expected {
				t.Errorf("%s = %s, want %s", tt.name, result, tt.expected)
			}
		})
	}
}

func TestKeyBuilder_EnvironmentSeparation(t *testing.T) {
	prodKB := NewKeyBuilder("production")
	stagingKB := NewKeyBuilder("development")

	prodKey := prodKB.KeyPollResults("poll-1")
	stagingKey := stagingKB.KeyPollResults("poll-1")

	if prodKey == stagingKey {
		t.Errorf("Production and staging keys should be different. Got: prod=%s, staging=%s",
			prodKey, stagingKey)
	}

	expectedProd := "prod:polls:poll-1:results"
	expectedStaging := "staging:polls:poll-1:results"

	if prodKey != expectedProd {
		t.Errorf("Production key = %s, want %s", prodKey, expectedProd)
	}

	if stagingKey != expectedStaging {
		t.Errorf("Staging key = %s, want %s", stagingKey, expectedStaging)
	}
}

func TestKeyBuilder_CustomKey(t *testing.T) {
	kb := NewKeyBuilder("production")

	tests := []struct {
		name     string
		pattern  string
		args     []interface{}
		expected string
	}{
		{
			name:     "Custom key with no args",
			pattern:  "custom:key",
			args:     nil,
			expected: "prod:custom:key",
		},
		{
			name:     "Custom key with string arg",
			pattern:  "custom:%s:data",
			args:     []interface{}{"test"},
			expected: "prod:custom:test:data",
		},
		{
			name:     "Custom key with multiple args",
			pattern:  "custom:%s:%d:%s",
			args:     []interface{}{"user", 123, "action"},
			expected: "prod:custom:user:123:action",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := kb.KeyCustom(tt.pattern, tt.args...)
			if result != tt.expected {
				t.Errorf("KeyCustom(%s, %v) = %s, want %s", tt.pattern, tt.args, result, tt.expected)
			}
		})
	}
}

func TestKeyBuilder_BuildKey(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		key         string
		expected    string
	}{
		{
			name:        "Production simple key",
			environment: "production",
			key:         "test:key",
			expected:    "prod:test:key",
		},
		{
			name:        "Staging simple key",
			environment: "staging",
			key:         "test:key",
			expected:    "staging:test:key",
		},
		{
			name:        "Development simple key",
			environment: "development",
			key:         "test:key",
			expected:    "staging:test:key",
		},
		{
			name:        "Unknown environment defaults to prod",
			environment: "qa",
			key:         "test:key",
			expected:    "prod:test:key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			result := kb.BuildKey(tt.key)
			if result != tt.expected {
				t.Errorf("BuildKey(%s) with env %s = %s, want %s",
					tt.key, tt.environment, result, tt.expected)
			}
		})
	}
}
