package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/smith3v/tg-word-tutor/pkg/vocab"
	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <file>",
		Short: "Import words and synonyms from a .json, .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Clean(args[0])
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			entries, skipped, err := vocab.ParseSeedFile(filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}

			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.store.Import(cmd.Context(), entries)
			if err != nil {
				return fmt.Errorf("import seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"Imported %d new words (%d already known) and %d synonyms. Skipped %d rows and %d duplicate synonyms.\n",
				result.WordsAdded, result.WordsReused, result.SynonymsAdded, skipped, result.SynonymsSkipped,
			)
			return nil
		},
	}
}
