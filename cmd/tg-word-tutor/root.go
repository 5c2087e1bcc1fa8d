package main

import (
	"github.com/spf13/cobra"
)

const configFlag = "config"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tg-word-tutor",
		Short:         "Hindi synonym tutor with a Telegram front end",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String(configFlag, "config.json", "path to the JSON config file, empty to use defaults and environment only")

	root.AddCommand(
		newServeCmd(),
		newSeedCmd(),
		newSummaryCmd(),
		newNextCmd(),
	)
	return root
}
