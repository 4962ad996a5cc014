package models

import (
	"time"
)

// StartMatchRequest is the request body for starting a match in a
// lobby. ProblemIds must be present (an empty list is legal, a missing
// one is not). PreparationBufferSec is clamped to at least 1 second
// server-side so clients always get time to render a countdown.
type StartMatchRequest struct {
	ProblemIds           []int `json:"problemIds"`
	DurationSec          int   `json:"durationSec" binding:"required,min=1"`
	PreparationBufferSec int   `json:"preparationBufferSec"`
}

// MatchStarted is the payload broadcast to every connection in the
// lobby room when the host starts the match. StartAtUtc is computed
// exactly once on the server; every recipient sees the same instant.
// SentAtUtc is informational, for latency measurement.
type MatchStarted struct {
	MatchID     int       `json:"matchId"`
	ProblemIds  []int     `json:"problemIds"`
	StartAtUtc  time.Time `json:"startAtUtc"`
	DurationSec int       `json:"durationSec"`
	SentAtUtc   time.Time `json:"sentAtUtc"`
}
