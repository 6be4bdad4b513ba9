package domain

import "time"

// Stages reported while an analysis runs.
const (
	StageFacilities = "facilities"
	StageFallback   = "fallback"
	StageScoring    = "scoring"
	StageCompleted  = "completed"
)

// ProgressEvent reports one stage of a running analysis.
type ProgressEvent struct {
	Time     time.Time `json:"time"`
	Stage    string    `json:"stage"`
	Category Category  `json:"category,omitempty"`
	Count    int       `json:"count"`
	Message  string    `json:"message,omitempty"`
}
