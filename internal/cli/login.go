package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GTDGit/vendor_console/internal/session"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the vendor API",
	Long:  `Exchange an email and password for a token and keep it for later commands. The password is read from stdin when --password is omitted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		password := loginPassword
		if password == "" {
			if password, err = readLine(cmd.InOrStdin(), cmd.ErrOrStderr(), "Password: "); err != nil {
				return err
			}
		}

		res, err := session.NewLoginService(a.client, a.store).Login(cmd.Context(), loginEmail, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		f, _ := parseFormat(outputFlag)
		if f != formatTable {
			return encode(cmd.OutOrStdout(), f, map[string]any{
				"userId":    res.Session.UserID,
				"name":      res.Session.Name,
				"email":     res.Session.Email,
				"role":      res.Session.Role,
				"expiresAt": res.Session.ExpiresAt,
				"landing":   res.Landing,
			})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s). Landing: %s\n", res.Session.Email, res.Session.Role, res.Landing)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if err := session.NewLoginService(a.client, a.store).Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
}
