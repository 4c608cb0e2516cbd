package model

// CycleReport summarizes one fetch cycle of a single source.
type CycleReport struct {
	Source     string `json:"source"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at"`

	Fetched    int `json:"fetched"`
	Normalized int `json:"normalized"`
	Skipped    int `json:"skipped"`
	Upserted   int `json:"upserted"`
	Inserted   int `json:"inserted"`
	Linked     int `json:"linked"`

	Errors []string `json:"errors,omitempty"`
}

type RunCycleRequest struct {
	// Source restricts the cycle to one source. Empty runs all of them.
	Source string `json:"source"`
}

type RunCycleResponse struct {
	Reports []CycleReport `json:"reports,omitempty"`
}

type GetLastReportsRequest struct{}

type GetLastReportsResponse struct {
	Reports []CycleReport `json:"reports,omitempty"`
}

// QuestEvent is published to the quest event topic whenever the pipeline
// inserts or updates a quest.
type QuestEvent struct {
	Type    string `json:"type"`
	QuestID string `json:"quest_id"`
	Source  string `json:"source"`
	Region  string `json:"region"`
}

const (
	QuestEventInserted = "quest_inserted"
	QuestEventUpdated  = "quest_updated"
	QuestEventEvicted  = "quest_evicted"
)
