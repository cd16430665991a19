package main

import (
	"github.com/lzjever/mbos-wbs/internal/api"
	"github.com/lzjever/mbos-wbs/internal/core"
)

var (
	answerChoices []string
	answerSaveTo  string
)

// presetAnswers returns answers given on the command line.
func presetAnswers() api.Answers {
	ans := api.Answers{Choices: answerChoices}
	if answerSaveTo != "" {
		loc := core.Location(answerSaveTo)
		ans.SaveTarget = &loc
	}
	return ans
}

func init() {
	rootCmd.PersistentFlags().StringArrayVar(&answerChoices, "choice", nil, "Button label answering the next dialog (repeatable)")
	rootCmd.PersistentFlags().StringVar(&answerSaveTo, "save-to", "", "Location answering a save dialog")
}
