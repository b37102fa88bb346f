package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"notion-to-markdown/internal/config"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored integration token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ClearToken(); err != nil {
			return err
		}
		fmt.Println("stored token removed")
		return nil
	},
}
