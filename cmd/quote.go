package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/jobcost-cli/internal/intel"
	"github.com/sells-group/jobcost-cli/internal/model"
)

var (
	quoteDept         string
	quoteProduct      string
	quotePolicy       string
	quoteTargetMargin float64
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Recommend a quote for a department and product segment",
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

		sq := cfg.SmartQuote
		if quoteTargetMargin > 0 {
			sq.TargetMargin = quoteTargetMargin
		}

		rec, err := intel.Recommend(ds.TaskCatalog, quoteDept, quoteProduct, model.QuotePolicy(quotePolicy), sq)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	},
}

func init() {
	quoteCmd.Flags().StringVar(&quoteDept, "dept", "", "reporting department (required)")
	quoteCmd.Flags().StringVar(&quoteProduct, "product", "", "product (required)")
	quoteCmd.Flags().StringVar(&quotePolicy, "policy", string(model.PolicyBalanced), "quote policy: aggressive, balanced, or conservative")
	quoteCmd.Flags().Float64Var(&quoteTargetMargin, "target-margin", 0, "target margin override (default from config)")
	_ = quoteCmd.MarkFlagRequired("dept")
	_ = quoteCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(quoteCmd)
}
