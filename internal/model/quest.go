package model

type Quest struct {
	ID           string   `json:"id,omitempty"`
	Title        string   `json:"title,omitempty"`
	Description  string   `json:"description,omitempty"`
	Link         string   `json:"link,omitempty"`
	Author       string   `json:"author,omitempty"`
	Source       string   `json:"source,omitempty"`
	Location     string   `json:"location,omitempty"`
	Region       string   `json:"region,omitempty"`
	RewardAmount *float64 `json:"reward_amount,omitempty"`
	LowPriority  bool     `json:"low_priority,omitempty"`
	Difficulty   float64  `json:"difficulty,omitempty"`
	GearRequired []string `json:"gear_required,omitempty"`
	Score        *int64   `json:"score,omitempty"`
	Status       string   `json:"status,omitempty"`
	LastSeen     string   `json:"last_seen,omitempty"`
	CreatedAt    string   `json:"created_at,omitempty"`

	// LinkedQuests are the cross-source duplicates of this quest. Canonical
	// marks the one preferred for display.
	LinkedQuests []LinkedQuest `json:"linked_quests,omitempty"`
}

type LinkedQuest struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Canonical bool   `json:"canonical"`
}

type GetQuestRequest struct {
	ID string `json:"id"`
}

type GetQuestResponse Quest

type GetListQuestRequest struct {
	Region        string  `json:"region"`
	Source        string  `json:"source"`
	MinDifficulty float64 `json:"min_difficulty"`
	MaxDifficulty float64 `json:"max_difficulty"`

	// Low-priority quests are hidden unless asked for.
	IncludeLowPriority bool `json:"include_low_priority"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetListQuestResponse struct {
	Quests []Quest `json:"quests,omitempty"`
}

type GetSimilarQuestsRequest struct {
	ID    string `json:"id"`
	Limit int    `json:"limit"`
}

type GetSimilarQuestsResponse struct {
	Quests []Quest `json:"quests,omitempty"`
}

type SubmitQuestRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	RewardText  string `json:"reward_text"`
	Location    string `json:"location"`
	SubmittedBy string `json:"submitted_by"`
}

type SubmitQuestResponse struct {
	ID string `json:"id"`
}

type ApproveQuestRequest struct {
	ID string `json:"id"`
}

type ApproveQuestResponse struct{}

type RejectQuestRequest struct {
	ID string `json:"id"`
}

type RejectQuestResponse struct{}
