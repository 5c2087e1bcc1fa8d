package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newSummaryCmd() *cobra.Command {
	var (
		studentID string
		sessionID string
		message   bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a student's results, for one session or overall",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(studentID) == "" {
				return errors.New("--student is required")
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			summary, err := a.tutor.Summarize(ctx, studentID, sessionID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if message {
				fmt.Fprintln(out, a.tutor.SummaryMessage(ctx, summary))
				return nil
			}
			learned := strings.Join(summary.WordsLearned, ", ")
			if learned == "" {
				learned = "none"
			}
			fmt.Fprintf(out, "Correct answers: %d\n", summary.CorrectAnswers)
			fmt.Fprintf(out, "Incorrect answers: %d\n", summary.IncorrectAnswers)
			fmt.Fprintf(out, "Words learned: %s\n", learned)
			fmt.Fprintf(out, "Total words learned: %d\n", summary.TotalWordsLearned)
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id, empty for the whole history")
	cmd.Flags().BoolVar(&message, "message", false, "print the summary as a message to the student")
	return cmd
}
