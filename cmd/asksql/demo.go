package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spektr-org/asksql/pipeline"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the sample questions against the dataset",
	Long: `Runs each sample question in turn and prints the answers.
A question that fails does not stop the run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(format); err != nil {
			return err
		}

		e, err := setup(cmd, setupOptions{needData: true, needClient: true})
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		w, closeOut, err := output(cmd)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		p := e.pipeline()
		failed := 0
		for i, question := range pipeline.DemoQuestions {
			if err := cmd.Context().Err(); err != nil {
				return err
			}
			if format == "text" {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintln(w, strings.Repeat("=", 60))
				fmt.Fprintf(w, "Question: %s\n\n", question)
			}

			answer, err := p.Ask(cmd.Context(), question)
			if err != nil {
				failed++
				e.logger.Warn("demo question failed", zap.String("question", question), zap.Error(err))
				fmt.Fprintf(w, "Error: %v\n", err)
				continue
			}
			if !answer.Succeeded() {
				failed++
			}
			if err := writeAnswer(w, answer, format); err != nil {
				return err
			}
		}

		if failed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d questions failed\n", failed, len(pipeline.DemoQuestions))
		}
		return nil
	},
}
