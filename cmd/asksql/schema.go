package main

import (
	"github.com/spf13/cobra"

	"github.com/spektr-org/asksql/profile"
)

// schemaOutput is what the schema command prints.
type schemaOutput struct {
	Dataset string           `json:"dataset"`
	Rows    int              `json:"rows"`
	Columns []profile.Column `json:"columns"`
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the columns, inferred types and value profile of the dataset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := checkFormat(format); err != nil {
			return err
		}

		e, err := setup(cmd, setupOptions{needData: true})
		if err != nil {
			return err
		}
		defer e.logger.Sync() //nolint:errcheck

		w, closeOut, err := output(cmd)
		if err != nil {
			return err
		}
		defer closeOut() //nolint:errcheck

		prof := profile.Build(e.data, samples)
		return writeSchema(w, schemaOutput{
			Dataset: e.data.Name(),
			Rows:    prof.Rows,
			Columns: prof.Columns,
		}, format)
	},
}

var samples int

func init() {
	schemaCmd.Flags().IntVar(&samples, "samples", profile.DefaultMaxSamples, "Sample values shown per column")
}
