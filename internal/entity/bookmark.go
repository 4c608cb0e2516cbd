package entity

type Bookmark struct {
	Base

	QuestID string `gorm:"uniqueIndex:idx_bookmarks_quest_user"`
	Quest   Quest  `gorm:"foreignKey:QuestID;constraint:OnDelete:CASCADE"`

	UserID string `gorm:"uniqueIndex:idx_bookmarks_quest_user"`
	Notes  string
}
