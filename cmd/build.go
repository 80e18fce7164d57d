package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/jobcost-cli/internal/pipeline"
)

var (
	buildInput string
	buildFY    string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the dataset from a workbook and persist it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		fy := buildFY
		if fy == "" {
			fy = cfg.App.DefaultFY
		}

		result, err := pipeline.Build(pipeline.BuildOptions{
			InputPath:  buildInput,
			FY:         fy,
			SmartQuote: cfg.SmartQuote,
			Mappings:   cfg.Mappings,
		})
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveDataset(ctx, result.Info, result.Dataset); err != nil {
			return eris.Wrap(err, "save dataset")
		}

		zap.L().Info("build saved",
			zap.String("build_id", result.Info.ID),
			zap.String("fy", result.Info.FY),
			zap.Int("fact_rows", result.Info.FactRows),
			zap.Bool("qa_passed", result.Dataset.QA.Passed()),
		)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildInput, "input", "", "path to the source workbook (required)")
	buildCmd.Flags().StringVar(&buildFY, "fy", "", "fiscal year restriction, e.g. FY26 (default from config)")
	_ = buildCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(buildCmd)
}
