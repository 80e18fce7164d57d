package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/jobcost-cli/internal/model"
)

var buildsLimit int

var buildsCmd = &cobra.Command{
	Use:   "builds",
	Short: "List recorded builds",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		builds, err := st.ListBuilds(ctx, buildsLimit)
		if err != nil {
			return err
		}

		if len(builds) == 0 {
			fmt.Fprintln(os.Stderr, "No builds recorded.")
			return nil
		}

		formatBuildsList(os.Stdout, builds)
		return nil
	},
}

func init() {
	buildsCmd.Flags().IntVar(&buildsLimit, "limit", 20, "max number of builds to display")
	rootCmd.AddCommand(buildsCmd)
}

// formatBuildsList writes a tabular list of builds to w.
func formatBuildsList(out io.Writer, builds []model.BuildInfo) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tINPUT\tFY\tFACT_ROWS\tCREATED")
	_, _ = fmt.Fprintln(w, "--\t-----\t--\t---------\t-------")

	for _, b := range builds {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
			truncateID(b.ID),
			b.InputPath,
			b.FY,
			b.FactRows,
			b.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
