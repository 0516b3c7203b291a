package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agure-la/alx-poll/internal/domain"
)

func analyticsPoll() *domain.Poll {
	return &domain.Poll{
		ID:       "poll-1",
		Title:    "Favorite language",
		IsActive: true,
		Options: []domain.PollOption{
			{ID: "opt-1", PollID: "poll-1", Text: "Go", OrderIndex: 0},
			{ID: "opt-2", PollID: "poll-1", Text: "Rust", OrderIndex: 1},
			{ID: "opt-3", PollID: "poll-1", Text: "Python", OrderIndex: 2},
		},
	}
}

func voteAt(optionID, voterEmail string, createdAt time.Time) domain.Vote {
	return domain.Vote{
		ID:         "v-" + optionID + "-" + voterEmail + createdAt.Format(time.RFC3339Nano),
		PollID:     "poll-1",
		OptionID:   optionID,
		VoterEmail: voterEmail,
		CreatedAt:  createdAt,
	}
}

func TestBuildSnapshot_EmptyPoll(t *testing.T) {
	snapshot := BuildSnapshot(analyticsPoll(), nil, domain.TrendDaily, time.Now())

	assert.Equal(t, 0, snapshot.TotalVotes)
	assert.Equal(t, 0, snapshot.UniqueVoters)
	assert.Empty(t, snapshot.Trend)
	assert.Empty(t, snapshot.Insights)

	// Every option still appears, with zero counts and zero percentages
	require.Len(t, snapshot.OptionResults, 3)
	for _, result := range snapshot.OptionResults {
		assert.Equal(t, 0, result.VoteCount)
		assert.Equal(t, 0.0, result.Percentage)
	}
}

func TestBuildSnapshot_CountsAndPercentages(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	votes := []domain.Vote{
		voteAt("opt-1", "a@x.com", now.Add(-3*time.Hour)),
		voteAt("opt-1", "b@x.com", now.Add(-2*time.Hour)),
		voteAt("opt-1", "c@x.com", now.Add(-90*time.Minute)),
		voteAt("opt-2", "d@x.com", now.Add(-time.Hour)),
	}

	snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, now)

	assert.Equal(t, 4, snapshot.TotalVotes)
	assert.Equal(t, 4, snapshot.UniqueVoters)

	require.Len(t, snapshot.OptionResults, 3)
	assert.Equal(t, "opt-1", snapshot.OptionResults[0].OptionID)
	assert.Equal(t, 3, snapshot.OptionResults[0].VoteCount)
	assert.InDelta(t, 75.0, snapshot.OptionResults[0].Percentage, 0.001)
	assert.Equal(t, 1, snapshot.OptionResults[1].VoteCount)
	assert.InDelta(t, 25.0, snapshot.OptionResults[1].Percentage, 0.001)
	assert.Equal(t, 0, snapshot.OptionResults[2].VoteCount)

	total := 0.0
	for _, result := range snapshot.OptionResults {
		total += result.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.001)
}

func TestBuildSnapshot_IsIdempotent(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	votes := []domain.Vote{
		voteAt("opt-1", "a@x.com", now.Add(-3*time.Hour)),
		voteAt("opt-2", "b@x.com", now.Add(-2*time.Hour)),
		voteAt("opt-3", "c@x.com", now.Add(-time.Hour)),
	}

	first := BuildSnapshot(analyticsPoll(), votes, domain.TrendHourly, now)
	second := BuildSnapshot(analyticsPoll(), votes, domain.TrendHourly, now)
	assert.Equal(t, first, second)

	// Insertion order must not matter either
	reversed := []domain.Vote{votes[2], votes[0], votes[1]}
	third := BuildSnapshot(analyticsPoll(), reversed, domain.TrendHourly, now)
	assert.Equal(t, first, third)
}

func TestBuildSnapshot_AsOfExcludesLaterVotes(t *testing.T) {
	asOf := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	votes := []domain.Vote{
		voteAt("opt-1", "a@x.com", asOf.Add(-time.Hour)),
		voteAt("opt-1", "b@x.com", asOf), // exactly at the boundary counts
		voteAt("opt-2", "c@x.com", asOf.Add(time.Second)),
	}

	snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, asOf)

	assert.Equal(t, 2, snapshot.TotalVotes)
	assert.Equal(t, 2, snapshot.OptionResults[0].VoteCount)
	assert.Equal(t, 0, snapshot.OptionResults[1].VoteCount)
}

func TestBuildSnapshot_UniqueVotersCoalesceIdentityColumns(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	votes := []domain.Vote{
		{ID: "v1", PollID: "poll-1", OptionID: "opt-1", VoterID: "user-1", CreatedAt: now.Add(-time.Hour)},
		{ID: "v2", PollID: "poll-1", OptionID: "opt-2", VoterID: "user-1", CreatedAt: now.Add(-time.Hour)},
		{ID: "v3", PollID: "poll-1", OptionID: "opt-1", VoterEmail: "user-1@x.com", CreatedAt: now.Add(-time.Hour)},
		{ID: "v4", PollID: "poll-1", OptionID: "opt-1", VoterPhone: "+1234567890", CreatedAt: now.Add(-time.Hour)},
	}

	snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, now)

	assert.Equal(t, 4, snapshot.TotalVotes)
	// user-1 voted twice (multi-choice); the email and phone voters are
	// distinct identities even though one belongs to the same person.
	assert.Equal(t, 3, snapshot.UniqueVoters)
}

func TestBuildSnapshot_TrendBuckets(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		granularity domain.TrendGranularity
		votes       []domain.Vote
		wantStarts  []time.Time
		wantVotes   []int
	}{
		{
			name:        "hourly",
			granularity: domain.TrendHourly,
			votes: []domain.Vote{
				voteAt("opt-1", "a@x.com", time.Date(2026, 8, 30, 9, 15, 0, 0, time.UTC)),
				voteAt("opt-1", "b@x.com", time.Date(2026, 8, 30, 9, 59, 59, 0, time.UTC)),
				voteAt("opt-2", "c@x.com", time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)),
			},
			wantStarts: []time.Time{
				time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC),
				time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC),
			},
			wantVotes: []int{2, 1},
		},
		{
			name:        "daily skips empty days",
			granularity: domain.TrendDaily,
			votes: []domain.Vote{
				voteAt("opt-1", "a@x.com", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)),
				voteAt("opt-1", "b@x.com", time.Date(2026, 8, 28, 18, 30, 0, 0, time.UTC)),
				voteAt("opt-2", "c@x.com", time.Date(2026, 8, 28, 23, 0, 0, 0, time.UTC)),
			},
			wantStarts: []time.Time{
				time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
			},
			wantVotes: []int{1, 2},
		},
		{
			name:        "weekly starts on monday",
			granularity: domain.TrendWeekly,
			votes: []domain.Vote{
				// 2026-08-30 is a Sunday; its week starts Monday 2026-08-24
				voteAt("opt-1", "a@x.com", time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)),
				voteAt("opt-1", "b@x.com", time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)),
				voteAt("opt-2", "c@x.com", time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)),
			},
			wantStarts: []time.Time{
				time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
			},
			wantVotes: []int{1, 2},
		},
		{
			name:        "monthly",
			granularity: domain.TrendMonthly,
			votes: []domain.Vote{
				voteAt("opt-1", "a@x.com", time.Date(2026, 7, 31, 23, 59, 0, 0, time.UTC)),
				voteAt("opt-1", "b@x.com", time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)),
				voteAt("opt-2", "c@x.com", time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)),
			},
			wantStarts: []time.Time{
				time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			},
			wantVotes: []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot := BuildSnapshot(analyticsPoll(), tt.votes, tt.granularity, now)

			require.Len(t, snapshot.Trend, len(tt.wantStarts))
			cumulative := 0
			for i, bucket := range snapshot.Trend {
				assert.Equal(t, tt.wantStarts[i], bucket.BucketStart)
				assert.Equal(t, tt.wantVotes[i], bucket.Votes)
				cumulative += tt.wantVotes[i]
				assert.Equal(t, cumulative, bucket.CumulativeVotes)
			}
		})
	}
}

func TestBuildSnapshot_Insights(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	codes := func(snapshot *domain.AnalyticsSnapshot) []string {
		out := make([]string, 0, len(snapshot.Insights))
		for _, insight := range snapshot.Insights {
			out = append(out, insight.Code)
		}
		return out
	}

	t.Run("dominant option", func(t *testing.T) {
		var votes []domain.Vote
		for i := 0; i < 8; i++ {
			votes = append(votes, voteAt("opt-1", voterEmailN(i), now.Add(-time.Hour)))
		}
		votes = append(votes, voteAt("opt-2", voterEmailN(8), now.Add(-time.Hour)))

		snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, now)
		assert.Contains(t, codes(snapshot), "dominant_option")
		assert.NotContains(t, codes(snapshot), "close_race")
	})

	t.Run("close race needs enough votes", func(t *testing.T) {
		var votes []domain.Vote
		for i := 0; i < 5; i++ {
			votes = append(votes, voteAt("opt-1", voterEmailN(i), now.Add(-time.Hour)))
		}
		for i := 5; i < 10; i++ {
			votes = append(votes, voteAt("opt-2", voterEmailN(i), now.Add(-time.Hour)))
		}

		snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, now)
		assert.Contains(t, codes(snapshot), "close_race")

		// Same split with fewer votes stays quiet
		snapshot = BuildSnapshot(analyticsPoll(), votes[:6], domain.TrendDaily, now)
		assert.NotContains(t, codes(snapshot), "close_race")
	})

	t.Run("high engagement on multi-choice", func(t *testing.T) {
		votes := []domain.Vote{
			voteAt("opt-1", "a@x.com", now.Add(-time.Hour)),
			voteAt("opt-2", "a@x.com", now.Add(-time.Hour)),
			voteAt("opt-1", "b@x.com", now.Add(-time.Hour)),
			voteAt("opt-3", "b@x.com", now.Add(-time.Hour)),
		}

		snapshot := BuildSnapshot(analyticsPoll(), votes, domain.TrendDaily, now)
		assert.Contains(t, codes(snapshot), "high_engagement")
	})
}

func voterEmailN(i int) string {
	return string(rune('a'+i)) + "@voters.example"
}
