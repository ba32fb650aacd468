package entity

import "time"

// PostSentiment holds the analysis result for a single forum post. A post is
// analyzed at most once; absence of a row is what marks a post as unanalyzed,
// so rows are inserted exactly once and never updated.
type PostSentiment struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	ForumID    int64     `gorm:"not null;index" json:"forum_id"`
	PostID     int64     `gorm:"uniqueIndex;not null" json:"post_id"`
	Sentiment  float64   `gorm:"not null" json:"sentiment"`
	Sadness    float64   `gorm:"not null" json:"sadness"`
	Joy        float64   `gorm:"not null" json:"joy"`
	Fear       float64   `gorm:"not null" json:"fear"`
	Anger      float64   `gorm:"not null" json:"anger"`
	Disgust    float64   `gorm:"not null" json:"disgust"`
	TimePosted time.Time `json:"time_posted"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for the PostSentiment model.
func (PostSentiment) TableName() string {
	return "post_sentiments"
}
