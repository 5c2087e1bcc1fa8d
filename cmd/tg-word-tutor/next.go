package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/smith3v/tg-word-tutor/pkg/agent"
	"github.com/spf13/cobra"
)

func newNextCmd() *cobra.Command {
	var studentID string
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Print the next word a student would be asked",
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

			next, err := a.tutor.NextWord(cmd.Context(), studentID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch next.State {
			case agent.StateNoWords:
				fmt.Fprintln(out, "No words are configured.")
			case agent.StateAllLearned:
				fmt.Fprintln(out, "All words are learned.")
			default:
				fmt.Fprintf(out, "%s\t%s\n", next.Word.ID, next.Word.Text)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&studentID, "student", "", "student id")
	return cmd
}
