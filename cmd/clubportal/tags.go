package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pearcec/clubportal/internal/portal"
)

var tagsJSON bool

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List the tags events can carry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if tagsJSON {
			return writeJSON(cmd.OutOrStdout(), portal.Vocabulary)
		}
		for _, tag := range portal.Vocabulary {
			fmt.Fprintln(cmd.OutOrStdout(), tag)
		}
		return nil
	},
}

func init() {
	tagsCmd.Flags().BoolVar(&tagsJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(tagsCmd)
}
