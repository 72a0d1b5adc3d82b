package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer one question about the dataset",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(format); err != nil {
			return err
		}

		e, err := setup(cmd, setupOptions{needData: true, needClient: true})
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		answer, err := e.pipeline().Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		w, closeOut, err := output(cmd)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		if err := writeAnswer(w, answer, format); err != nil {
			return err
		}
		if outFile != "" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Output written to %s\n", outFile)
		}
		if !answer.Succeeded() {
			return errAnswerFailed
		}
		return nil
	},
}
