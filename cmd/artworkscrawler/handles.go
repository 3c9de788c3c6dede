package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewHandlesCmd prints the handles a crawl would visit, in order.
func NewHandlesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handles",
		Short: "List the configured profile handles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			for _, h := range cfg.Crawl.Handles {
				fmt.Fprintln(cmd.OutOrStdout(), h)
			}
			return nil
		},
	}
}
