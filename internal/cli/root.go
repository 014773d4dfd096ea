package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GTDGit/vendor_console/internal/config"
)

var (
	cfg         *config.Config
	outputFlag  string
	sessionFile string
	pageFlag    int
	version     = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "consolectl",
	Short: "Vendor management console",
	Long: `consolectl manages vendor and user accounts on the vendor API.

Log in once, then list, freeze, re-role or delete accounts one page at a time.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if _, err := parseFormat(outputFlag); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "consolectl %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "table", "output format: table, json or yaml")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session", "", "session file path (default ~/.consolectl/session.yaml)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(freezeCmd)
	rootCmd.AddCommand(roleCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(versionCmd)
}

func SetVersion(v string) {
	version = v
}

func Execute() error {
	return rootCmd.Execute()
}

func Root() *cobra.Command {
	return rootCmd
}
