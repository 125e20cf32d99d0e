// ABOUTME: Account commands for prodctl CLI
// ABOUTME: Updates the signed-in user's profile and deletes the account

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/forms"
)

var (
	profileName     string
	profileEmail    string
	profilePassword string
	accountYes      bool
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change name, email, or password",
	Long:  `Change any of name, email, or password. Only the flags given are sent.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		var update client.ProfileUpdate
		if cmd.Flags().Changed("name") {
			update.Name = &profileName
		}
		if cmd.Flags().Changed("email") {
			update.Email = &profileEmail
		}
		if cmd.Flags().Changed("password") {
			update.Password = &profilePassword
		}

		exitCode := runProfileUpdate(ctx, os.Stdout, update)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage your account",
}

var accountDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete your account and sign out",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if !accountYes {
			ok, err := confirm("Delete your account? This cannot be undone.")
			if err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitFailed)
			}
			if !ok {
				fmt.Fprintln(os.Stdout, "Cancelled.")
				return
			}
		}

		exitCode := runAccountDelete(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "New display name")
	profileUpdateCmd.Flags().StringVar(&profileEmail, "email", "", "New email")
	profileUpdateCmd.Flags().StringVar(&profilePassword, "password", "", "New password")
	profileCmd.AddCommand(profileUpdateCmd)

	accountDeleteCmd.Flags().BoolVar(&accountYes, "yes", false, "Skip the confirmation prompt")
	accountCmd.AddCommand(accountDeleteCmd)

	rootCmd.AddCommand(profileCmd, accountCmd)
}

// runProfileUpdate sends the changed profile fields and returns exit code
func runProfileUpdate(ctx context.Context, w io.Writer, update client.ProfileUpdate) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	if err := d.validate.ProfileUpdate(update); err != nil {
		return fail(w, err)
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	user, err := d.sessions.UpdateProfile(ctx, update)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}
	fmt.Fprintln(w, "Profile updated.")
	fmt.Fprintln(w, formatUserHuman(user))
	return exitOK
}

// runAccountDelete removes the account, clears the session, and returns exit code
func runAccountDelete(ctx context.Context, w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	if err := d.sessions.DeleteAccount(ctx); err != nil {
		return fail(w, err)
	}

	fmt.Fprintln(w, "Account deleted. You have been logged out.")
	return exitOK
}

func confirm(question string) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().Title(question).Affirmative("Delete").Negative("Cancel").Value(&ok),
	)).WithTheme(forms.Theme()).Run()
	return ok, err
}
