package telegram

import (
	"fmt"
	"strings"
	"time"
)

// RunSummary describes a completed analysis run for notification purposes.
type RunSummary struct {
	StartedAt       time.Time
	Duration        time.Duration
	ForumsProcessed int
	PostsAnalyzed   int
	PostsFailed     int
	Err             error
}

// FormatRunSummary renders a run summary as a Telegram Markdown message.
func FormatRunSummary(s RunSummary) string {
	var b strings.Builder
	b.WriteString("*Forum sentiment analysis run*\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", s.StartedAt.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("Duration: %s\n", s.Duration.Round(time.Second)))
	b.WriteString(fmt.Sprintf("Forums processed: %d\n", s.ForumsProcessed))
	b.WriteString(fmt.Sprintf("Posts analyzed: %d\n", s.PostsAnalyzed))
	if s.PostsFailed > 0 {
		b.WriteString(fmt.Sprintf("Posts failed: %d\n", s.PostsFailed))
	}
	if s.Err != nil {
		b.WriteString(fmt.Sprintf("Status: failed (%s)\n", s.Err))
	} else {
		b.WriteString("Status: completed\n")
	}
	return b.String()
}
