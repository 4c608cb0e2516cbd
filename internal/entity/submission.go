package entity

// Submission is a user-submitted listing waiting to be picked up by the
// ingestion pipeline. The submission source drains unconsumed rows.
type Submission struct {
	Base

	Title       string
	Description string `gorm:"type:longtext"`
	RewardText  string
	Location    string
	SubmittedBy string

	Consumed bool `gorm:"index"`
}
