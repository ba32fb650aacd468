package entity

import "time"

// ForumSentimentSummary holds the rolling per-forum averages of sentiment and
// emotion scores. It is derived entirely from post_sentiments and recomputed
// in full after each analysis batch.
type ForumSentimentSummary struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	ForumID      int64     `gorm:"uniqueIndex;not null" json:"forum_id"`
	Sentiment    float64   `gorm:"not null" json:"sentiment"`
	Sadness      float64   `gorm:"not null" json:"sadness"`
	Joy          float64   `gorm:"not null" json:"joy"`
	Fear         float64   `gorm:"not null" json:"fear"`
	Anger        float64   `gorm:"not null" json:"anger"`
	Disgust      float64   `gorm:"not null" json:"disgust"`
	TimeModified time.Time `gorm:"autoUpdateTime" json:"time_modified"`
}

// TableName specifies the table name for the ForumSentimentSummary model.
func (ForumSentimentSummary) TableName() string {
	return "forum_sentiment_summaries"
}
