package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"notion-to-markdown/internal/app/export"
	"notion-to-markdown/internal/config"
	"notion-to-markdown/internal/logx"
	"notion-to-markdown/internal/notion"
	"notion-to-markdown/internal/tui"
)

var (
	flagDatabase string
	flagOutput   string
	flagToken    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a database to a markdown document",
	Long: `Export fetches every page of one Notion database and writes the
whole database into a single markdown document.

Without --database the command lists the databases shared with the
integration and lets you pick one.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&flagDatabase, "database", "d", "", "database id or URL to export")
	exportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path")
	exportCmd.Flags().StringVar(&flagToken, "token", "", "Notion integration token")
}

func runExport(cmd *cobra.Command, args []string) error {
	logger := logx.New(verbose)
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()
	interactive := isInteractive()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	token, fromPrompt, err := resolveToken(cfg, interactive)
	if err != nil {
		return err
	}

	for {
		client := notion.NewClient(token, logger)
		db, err := discoverDatabase(ctx, client, interactive)
		if errors.Is(err, notion.ErrUnauthorized) {
			if clearErr := config.ClearToken(); clearErr != nil {
				logger.Warn("clear stored token", zap.Error(clearErr))
			}
			if !interactive {
				return err
			}
			fmt.Fprintln(os.Stderr, "Notion rejected the token, please paste a new one.")
			token, err = tui.PromptToken()
			if err != nil {
				return err
			}
			fromPrompt = true
			continue
		}
		if err != nil {
			return err
		}
		if db.ID == "" {
			return nil
		}

		if fromPrompt {
			cfg.Token = token
			if err := config.Save(cfg); err != nil {
				logger.Warn("save token", zap.Error(err))
			}
		}

		outputPath, err := resolveOutputPath(db, interactive)
		if err != nil {
			return err
		}

		exporter := export.Exporter{Source: client, Log: logger, ShowProgress: interactive}
		stats, err := exporter.Run(ctx, db, outputPath)
		if err != nil {
			return err
		}
		if stats.Pages == 0 {
			fmt.Println("database is empty, nothing to export")
			return nil
		}
		fmt.Printf("exported %d pages (%d bytes) to %s\n", stats.Pages, stats.Bytes, outputPath)
		return nil
	}
}

// resolveToken picks the integration token in order of explicitness: the
// --token flag, the NOTION_TOKEN variable, the config file, and finally an
// interactive prompt.
func resolveToken(cfg config.Config, interactive bool) (token string, fromPrompt bool, err error) {
	if flagToken != "" {
		return flagToken, false, nil
	}
	if env := strings.TrimSpace(os.Getenv("NOTION_TOKEN")); env != "" {
		return env, false, nil
	}
	if cfg.Token != "" {
		return cfg.Token, false, nil
	}
	if !interactive {
		return "", false, errors.New("no token configured, pass --token or set NOTION_TOKEN")
	}
	token, err = tui.PromptToken()
	if err != nil {
		return "", false, err
	}
	return token, true, nil
}

func discoverDatabase(ctx context.Context, client *notion.Client, interactive bool) (notion.Database, error) {
	if flagDatabase != "" {
		id, err := notion.ParseDatabaseRef(flagDatabase)
		if err != nil {
			return notion.Database{}, err
		}
		return client.Database(ctx, id)
	}

	databases, err := client.ListDatabases(ctx)
	if err != nil {
		return notion.Database{}, err
	}
	if len(databases) == 0 {
		fmt.Println("no databases are shared with the integration")
		return notion.Database{}, nil
	}
	if !interactive {
		return notion.Database{}, errors.New("pass a database id or URL with --database in non-interactive mode")
	}
	return tui.PickDatabase(databases)
}

func resolveOutputPath(db notion.Database, interactive bool) (string, error) {
	if flagOutput != "" {
		return flagOutput, nil
	}
	suggested := sanitizeFilename(db.Title) + ".md"
	if !interactive {
		return suggested, nil
	}
	return tui.PromptFilename(suggested)
}

func sanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "",
		"\n", " ",
		"\r", "",
	)
	name = replacer.Replace(name)
	name = strings.TrimSpace(name)

	if len(name) > 200 {
		name = name[:200]
	}
	if name == "" {
		name = "export"
	}
	return name
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
