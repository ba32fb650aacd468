package entity

import "time"

// ForumSentiment records whether sentiment analysis is enabled for a forum.
// A row exists for every forum that has ever toggled the feature; rows are
// upserted on settings save and only removed by an explicit cleanup request.
type ForumSentiment struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ForumID      int64     `gorm:"uniqueIndex;not null" json:"forum_id"`
	Enabled      bool      `gorm:"not null;default:false" json:"enabled"`
	TimeModified time.Time `gorm:"autoUpdateTime" json:"time_modified"`
}

// TableName specifies the table name for the ForumSentiment model.
func (ForumSentiment) TableName() string {
	return "forum_sentiments"
}

// EnabledForum is the projection returned when listing forums with analysis
// enabled, joining the feature toggle to the host forum table.
type EnabledForum struct {
	ForumID  int64  `json:"forum_id"`
	Name     string `json:"name"`
	CourseID int64  `json:"course_id"`
	Type     string `json:"type"`
}
