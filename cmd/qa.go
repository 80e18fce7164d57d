package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Print the QA report for the latest build",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		ds, err := st.LoadDataset(ctx)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(ds.QA); err != nil {
			return eris.Wrap(err, "encode qa report")
		}

		if !ds.QA.Passed() {
			zap.L().Warn("qa checks failed", zap.Any("checks", ds.QA.Checks))
			return eris.New("qa: checks failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(qaCmd)
}
