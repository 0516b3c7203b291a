package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/Agure-la/alx-poll/internal/domain"
)

// BuildSnapshot derives an analytics snapshot from a poll's vote set.
// It is a stateless pure function: the same votes and the same asOf
// boundary always produce the same snapshot, regardless of invocation
// count or the order votes were originally inserted.
//
// Votes created after asOf are excluded; everything else counts. One row
// is one selection, so totalVotes counts rows even under multi-choice,
// while uniqueVoters counts distinct identities.
func BuildSnapshot(poll *domain.Poll, votes []domain.Vote, granularity domain.TrendGranularity, asOf time.Time) *domain.AnalyticsSnapshot {
	asOf = asOf.UTC()

	counted := make([]domain.Vote, 0, len(votes))
	for _, vote := range votes {
		if vote.CreatedAt.After(asOf) {
			continue
		}
		counted = append(counted, vote)
	}

	totalVotes := len(counted)

	voters := make(map[string]bool, totalVotes)
	optionCounts := make(map[string]int, len(poll.Options))
	for _, vote := range counted {
		voters[domain.VoterKey(vote.VoterID, vote.VoterEmail, vote.VoterPhone)] = true
		optionCounts[vote.OptionID]++
	}

	snapshot := &domain.AnalyticsSnapshot{
		PollID:        poll.ID,
		TotalVotes:    totalVotes,
		UniqueVoters:  len(voters),
		OptionResults: buildOptionResults(poll.Options, optionCounts, totalVotes),
		Trend:         buildTrend(counted, granularity),
		Granularity:   granularity,
		AsOf:          asOf,
	}
	snapshot.Insights = buildInsights(snapshot)

	return snapshot
}

// buildOptionResults produces the per-option breakdown in display order.
// Percentages are 0 when there are no votes; division by zero never happens.
func buildOptionResults(options []domain.PollOption, optionCounts map[string]int, totalVotes int) []domain.OptionResult {
	results := make([]domain.OptionResult, 0, len(options))
	for _, option := range options {
		count := optionCounts[option.ID]
		percentage := 0.0
		if totalVotes > 0 {
			percentage = float64(count) / float64(totalVotes) * 100
		}
		results = append(results, domain.OptionResult{
			OptionID:   option.ID,
			Text:       option.Text,
			OrderIndex: option.OrderIndex,
			VoteCount:  count,
			Percentage: percentage,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].OrderIndex < results[j].OrderIndex
	})
	return results
}

// buildTrend buckets votes by creation time at the given granularity.
// Buckets come out in chronological order, one entry per non-empty bucket;
// empty buckets are not gap-filled.
func buildTrend(votes []domain.Vote, granularity domain.TrendGranularity) []domain.TrendBucket {
	if len(votes) == 0 {
		return []domain.TrendBucket{}
	}

	byBucket := make(map[time.Time]int)
	for _, vote := range votes {
		byBucket[bucketStart(vote.CreatedAt, granularity)]++
	}

	starts := make([]time.Time, 0, len(byBucket))
	for start := range byBucket {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	trend := make([]domain.TrendBucket, 0, len(starts))
	cumulative := 0
	for _, start := range starts {
		cumulative += byBucket[start]
		trend = append(trend, domain.TrendBucket{
			BucketStart:     start,
			Votes:           byBucket[start],
			CumulativeVotes: cumulative,
		})
	}
	return trend
}

// bucketStart truncates a timestamp to its bucket boundary in UTC.
// Weeks start on Monday.
func bucketStart(t time.Time, granularity domain.TrendGranularity) time.Time {
	t = t.UTC()
	switch granularity {
	case domain.TrendHourly:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC)
	case domain.TrendWeekly:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case domain.TrendMonthly:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
}

// Insight thresholds
const (
	dominantShareThreshold = 70.0
	closeRaceGapPoints     = 5.0
	closeRaceMinVotes      = 10
	engagedSelectionsRatio = 1.5
)

// buildInsights derives rule-based presentation hints from a snapshot.
// Pure function of the snapshot; nothing here is persisted or load-bearing.
func buildInsights(snapshot *domain.AnalyticsSnapshot) []domain.Insight {
	insights := []domain.Insight{}
	if snapshot.TotalVotes == 0 {
		return insights
	}

	sorted := make([]domain.OptionResult, len(snapshot.OptionResults))
	copy(sorted, snapshot.OptionResults)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VoteCount > sorted[j].VoteCount
	})

	if sorted[0].Percentage > dominantShareThreshold {
		insights = append(insights, domain.Insight{
			Code:    "dominant_option",
			Message: fmt.Sprintf("%q holds %.0f%% of all votes", sorted[0].Text, sorted[0].Percentage),
		})
	}

	if len(sorted) > 1 && snapshot.TotalVotes >= closeRaceMinVotes &&
		sorted[0].Percentage-sorted[1].Percentage < closeRaceGapPoints {
		insights = append(insights, domain.Insight{
			Code:    "close_race",
			Message: fmt.Sprintf("%q and %q are within %.0f points of each other", sorted[0].Text, sorted[1].Text, closeRaceGapPoints),
		})
	}

	if snapshot.UniqueVoters > 0 {
		ratio := float64(snapshot.TotalVotes) / float64(snapshot.UniqueVoters)
		if ratio >= engagedSelectionsRatio {
			insights = append(insights, domain.Insight{
				Code:    "high_engagement",
				Message: fmt.Sprintf("voters select %.1f options on average", ratio),
			})
		}
	}

	return insights
}
