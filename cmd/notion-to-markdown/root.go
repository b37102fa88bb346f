package main

import "github.com/spf13/cobra"

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "notion-to-markdown",
	Short: "Export a Notion database into a single markdown document",
	Long: `notion-to-markdown fetches every page of one Notion database and
renders the pages' properties and nested blocks into a single
markdown document, ready for search indexes and other ingestion
pipelines that want one file per corpus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(exportCmd, databasesCmd, logoutCmd)
}
