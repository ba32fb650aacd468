package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "forum-sentiment-analyzer",
	Short: "A CLI for managing the forum sentiment analyzer services",
	Long:  `Forum Sentiment Analyzer periodically analyzes discussion forum posts for sentiment, emotion, keywords and concepts.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
