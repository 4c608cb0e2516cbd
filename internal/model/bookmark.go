package model

type Bookmark struct {
	QuestID   string `json:"quest_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Quest     Quest  `json:"quest,omitempty"`
}

type AddBookmarkRequest struct {
	QuestID string `json:"quest_id"`
	UserID  string `json:"user_id"`
	Notes   string `json:"notes"`
}

type AddBookmarkResponse struct{}

type RemoveBookmarkRequest struct {
	QuestID string `json:"quest_id"`
	UserID  string `json:"user_id"`
}

type RemoveBookmarkResponse struct{}

type UpdateBookmarkNotesRequest struct {
	QuestID string `json:"quest_id"`
	UserID  string `json:"user_id"`
	Notes   string `json:"notes"`
}

type UpdateBookmarkNotesResponse struct{}

type GetBookmarksRequest struct {
	UserID string `json:"user_id"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type GetBookmarksResponse struct {
	Bookmarks []Bookmark `json:"bookmarks,omitempty"`
}
