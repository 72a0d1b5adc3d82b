package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spektr-org/asksql/llm"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the language-model API key and model work",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd, setupOptions{needClient: true})
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		reply, err := llm.Ping(cmd.Context(), e.client, e.cfg.LLM.Model)
		if err != nil {
			return fmt.Errorf("%s connection failed: %w", e.cfg.LLM.Provider, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s connection OK (%s): %s\n", e.cfg.LLM.Provider, e.cfg.LLM.Model, reply)
		return nil
	},
}
