package domain

import (
	"time"
)

// TrendGranularity selects the time bucket size for the trend series
type TrendGranularity string

const (
	TrendHourly  TrendGranularity = "hour"
	TrendDaily   TrendGranularity = "day"
	TrendWeekly  TrendGranularity = "week"
	TrendMonthly TrendGranularity = "month"
)

// ParseTrendGranularity maps a query value to a granularity, defaulting
// to daily buckets for empty input.
func ParseTrendGranularity(s string) (TrendGranularity, bool) {
	switch TrendGranularity(s) {
	case TrendHourly, TrendDaily, TrendWeekly, TrendMonthly:
		return TrendGranularity(s), true
	case "":
		return TrendDaily, true
	default:
		return "", false
	}
}

// OptionResult is the per-option breakdown of a snapshot
type OptionResult struct {
	OptionID   string  `json:"option_id"`
	Text       string  `json:"text"`
	OrderIndex int     `json:"order_index"`
	VoteCount  int     `json:"vote_count"`
	Percentage float64 `json:"percentage"`
}

// TrendBucket holds vote counts for one non-empty time bucket
type TrendBucket struct {
	BucketStart     time.Time `json:"bucket_start"`
	Votes           int       `json:"votes"`
	CumulativeVotes int       `json:"cumulative_votes"`
}

// Insight is a rule-based presentation hint derived from a snapshot.
// Insights carry no invariants and are never persisted.
type Insight struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalyticsSnapshot is the derived, recomputable summary of a poll's
// votes. It is a pure function of the vote set at the AsOf boundary and
// must never drift from recomputation over the same rows.
type AnalyticsSnapshot struct {
	PollID        string           `json:"poll_id"`
	TotalVotes    int              `json:"total_votes"`
	UniqueVoters  int              `json:"unique_voters"`
	OptionResults []OptionResult   `json:"option_results"`
	Trend         []TrendBucket    `json:"trend"`
	Granularity   TrendGranularity `json:"granularity"`
	Insights      []Insight        `json:"insights"`
	AsOf          time.Time        `json:"as_of"`
}
