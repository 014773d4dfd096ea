package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/GTDGit/vendor_console/internal/console"
	"github.com/GTDGit/vendor_console/pkg/vendoractivo"
)

var (
	roleTarget string
	assumeYes  bool
)

var freezeCmd = &cobra.Command{
	Use:   "freeze <id>",
	Short: "Freeze or unfreeze a vendor",
	Long:  `Toggle the frozen flag of an account. Frozen vendors cannot upload products.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], func(a *app) error {
			return a.console.ToggleFreeze(cmd.Context(), args[0])
		})
	},
}

var roleCmd = &cobra.Command{
	Use:   "role <id>",
	Short: "Switch an account between vendedor and usuario",
	Long: `Toggle the role of an account between vendedor and usuario, or set it
explicitly with --to. Admin accounts are never changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMutation(cmd, args[0], func(a *app) error {
			if roleTarget != "" {
				return a.console.SetRole(cmd.Context(), args[0], vendoractivo.Role(roleTarget))
			}
			return a.console.ToggleRole(cmd.Context(), args[0])
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an account",
	Long:  `Delete an account after confirmation. Use --yes to skip the prompt.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var confirm console.Confirmer = promptConfirmer(cmd.InOrStdin(), cmd.ErrOrStderr())
		if assumeYes {
			confirm = console.ConfirmFunc(func(context.Context, string) bool { return true })
		}
		err := runMutation(cmd, args[0], func(a *app) error {
			return a.console.Delete(cmd.Context(), args[0], confirm)
		})
		if errors.Is(err, console.ErrConfirmationDeclined) {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
			return nil
		}
		return err
	},
}

// runMutation loads the selected page, applies do and prints the page as it
// stands afterwards.
func runMutation(cmd *cobra.Command, id string, do func(a *app) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.loadPage(cmd.Context(), pageFlag); err != nil {
		return err
	}

	if err := do(a); err != nil {
		var actionErr *console.ActionError
		if errors.As(err, &actionErr) {
			return fmt.Errorf("%s: %w", actionErr.Message(), actionErr.Err)
		}
		if errors.Is(err, console.ErrRecordNotFound) {
			return fmt.Errorf("account %s is not listed on page %d: %w", id, pageFlag, err)
		}
		return err
	}

	f, _ := parseFormat(outputFlag)
	if f == formatTable {
		printOutcome(cmd.OutOrStdout(), id, a.console.Snapshot())
	}
	return renderView(cmd.OutOrStdout(), f, a.console.Snapshot())
}

func printOutcome(w io.Writer, id string, view console.View) {
	for _, r := range view.Records {
		if r.ID == id {
			fmt.Fprintf(w, "%s: role=%s status=%s\n\n", r.DisplayName, r.Role, status(r))
			return
		}
	}
	fmt.Fprintf(w, "%s: done\n\n", id)
}

func init() {
	for _, c := range []*cobra.Command{freezeCmd, roleCmd, deleteCmd} {
		c.Flags().IntVarP(&pageFlag, "page", "p", 1, "page the account is listed on")
	}
	roleCmd.Flags().StringVar(&roleTarget, "to", "", "target role: vendedor or usuario")
	deleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")
}
