package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notion-to-markdown/internal/config"
	"notion-to-markdown/internal/logx"
	"notion-to-markdown/internal/notion"
)

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the databases shared with the integration",
	RunE:  runDatabases,
}

func runDatabases(cmd *cobra.Command, args []string) error {
	logger := logx.New(verbose)
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	token, fromPrompt, err := resolveToken(cfg, isInteractive())
	if err != nil {
		return err
	}

	client := notion.NewClient(token, logger)
	databases, err := client.ListDatabases(cmd.Context())
	if err != nil {
		return err
	}

	if fromPrompt {
		cfg.Token = token
		if err := config.Save(cfg); err != nil {
			logger.Warn("save token", zap.Error(err))
		}
	}

	if len(databases) == 0 {
		fmt.Println("no databases are shared with the integration")
		return nil
	}
	for _, db := range databases {
		title := db.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Printf("%s\n  id:  %s\n  url: %s\n", title, db.ID, db.URL)
	}
	return nil
}
