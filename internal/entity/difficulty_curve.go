package entity

import "time"

// DifficultyCurve is an append-only sample of the difficulty assigned to a
// (category, keyword) pair. Rows are never mutated; the oldest ones are
// pruned beyond a retention count.
type DifficultyCurve struct {
	ID              int64  `gorm:"primarykey;autoIncrement"`
	Category        string `gorm:"index:idx_difficulty_curves_cat_kw"`
	Keyword         string `gorm:"index:idx_difficulty_curves_cat_kw"`
	DifficultyScore float64
	CorpusVersion   int64
	CreatedAt       time.Time
}
