// Package model defines shared data structures.
package model

import "time"

// Config defines play settings.
type Config struct {
	Pattern     string
	Width       float64
	Height      float64
	StrokeWidth float64
	Tolerance   float64
	Threshold   float64
	Selector    string
	Seed        int64
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Pattern     string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// Outcome is how an attempt ended.
type Outcome string

const (
	OutcomeWon       Outcome = "won"
	OutcomeLost      Outcome = "lost"
	OutcomeAbandoned Outcome = "abandoned"
)

// Attempt captures a finished attempt at one pattern.
type Attempt struct {
	UUID         string
	StartedAt    time.Time
	EndedAt      time.Time
	Pattern      string
	Width        float64
	Height       float64
	StrokeWidth  float64
	Tolerance    float64
	Outcome      Outcome
	BestProgress float64
	Samples      int
	DurationMs   int64
}

// AttemptAggregate summarizes an attempt for reporting.
type AttemptAggregate struct {
	AttemptID    int64
	EndedAt      time.Time
	Pattern      string
	Outcome      Outcome
	BestProgress float64
	DurationMs   int64
}

// PatternAggregate aggregates attempts for one pattern.
type PatternAggregate struct {
	Pattern         string
	Attempts        int
	Wins            int
	Losses          int
	BestProgressSum float64
	DurationSumMs   int64
}
