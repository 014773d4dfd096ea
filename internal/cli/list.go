package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List vendors and users one page at a time",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.loadPage(cmd.Context(), pageFlag); err != nil {
			return err
		}

		f, _ := parseFormat(outputFlag)
		return renderView(cmd.OutOrStdout(), f, a.console.Snapshot())
	},
}

func init() {
	listCmd.Flags().IntVarP(&pageFlag, "page", "p", 1, "page number")
}
