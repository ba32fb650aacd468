package dto

import "time"

// ForumSummaryResponse is the report payload for a single forum.
type ForumSummaryResponse struct {
	ForumID      int64     `json:"forum_id"`
	Name         string    `json:"name,omitempty"`
	Sentiment    float64   `json:"sentiment"`
	Sadness      float64   `json:"sadness"`
	Joy          float64   `json:"joy"`
	Fear         float64   `json:"fear"`
	Anger        float64   `json:"anger"`
	Disgust      float64   `json:"disgust"`
	TimeModified time.Time `json:"time_modified"`
}

// TermCountResponse is a keyword or concept with its forum-scoped count.
type TermCountResponse struct {
	Text  string `json:"text"`
	Count int64  `json:"count"`
}

// ToggleSentimentRequest enables or disables analysis for a forum.
type ToggleSentimentRequest struct {
	Enabled bool `json:"enabled"`
}

// ErrorResponse is the generic error body returned by the report API.
type ErrorResponse struct {
	Message string `json:"message"`
}
