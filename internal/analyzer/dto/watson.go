package dto

// AnalyzeRequest is the request payload for the /v1/analyze endpoint. The
// shape is fixed by the upstream API contract.
type AnalyzeRequest struct {
	Text     string          `json:"text"`
	Features AnalyzeFeatures `json:"features"`
}

// AnalyzeFeatures selects which analysis features to run.
type AnalyzeFeatures struct {
	Sentiment struct{}     `json:"sentiment"`
	Emotion   struct{}     `json:"emotion"`
	Keywords  FeatureLimit `json:"keywords"`
	Concepts  FeatureLimit `json:"concepts"`
}

// FeatureLimit caps how many results a feature may return.
type FeatureLimit struct {
	Limit int `json:"limit"`
}

// AnalyzeResponse is the subset of the /v1/analyze response the analyzer
// consumes. Missing fields decode to zero values, which is exactly the
// neutral fallback behaviour the analyzer wants.
type AnalyzeResponse struct {
	Sentiment struct {
		Document struct {
			Score float64 `json:"score"`
		} `json:"document"`
	} `json:"sentiment"`
	Emotion struct {
		Document struct {
			Emotion EmotionScores `json:"emotion"`
		} `json:"document"`
	} `json:"emotion"`
	Keywords []ExtractedTerm `json:"keywords"`
	Concepts []ExtractedTerm `json:"concepts"`
}

// EmotionScores holds the five emotion intensities, each in [0,1].
type EmotionScores struct {
	Sadness float64 `json:"sadness"`
	Joy     float64 `json:"joy"`
	Fear    float64 `json:"fear"`
	Anger   float64 `json:"anger"`
	Disgust float64 `json:"disgust"`
}

// ExtractedTerm is a keyword or concept with its relevance score. Only the
// text is persisted; relevance is informational.
type ExtractedTerm struct {
	Text      string  `json:"text"`
	Relevance float64 `json:"relevance"`
}

// SentimentResult is the analyzer-facing result of a single analysis call.
type SentimentResult struct {
	Sentiment float64         `json:"sentiment"`
	Emotion   EmotionScores   `json:"emotion"`
	Keywords  []ExtractedTerm `json:"keywords"`
	Concepts  []ExtractedTerm `json:"concepts"`
}
