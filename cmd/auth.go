// ABOUTME: Session commands for prodctl CLI
// ABOUTME: login, register, logout and whoami against the persisted token

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/format"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/session"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/tui/forms"
)

var (
	loginEmail    string
	loginPassword string
	registerName  string
	whoamiVerify  bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Long:  `Sign in with email and password. Missing values are prompted for.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if loginEmail == "" || loginPassword == "" {
			if err := promptCredentials(&loginEmail, &loginPassword); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitFailed)
			}
		}

		exitCode := runLogin(ctx, os.Stdout, loginEmail, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Create an account and sign in with it. Missing values are prompted for.

Password rules follow PRODCTL_PASSWORD_MIN_LENGTH and PRODCTL_PASSWORD_REGEX.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if registerName == "" || loginEmail == "" || loginPassword == "" {
			if err := promptRegistration(&registerName, &loginEmail, &loginPassword, passwordPolicy().Requirements()); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitFailed)
			}
		}

		exitCode := runRegister(ctx, os.Stdout, registerName, loginEmail, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session token",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Long:  `Show the signed-in user. With --verify the profile is fetched fresh from the backend.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout, whoamiVerify)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, registerCmd} {
		c.Flags().StringVar(&loginEmail, "email", "", "Account email")
		c.Flags().StringVar(&loginPassword, "password", "", "Account password")
	}
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	whoamiCmd.Flags().BoolVar(&whoamiVerify, "verify", false, "Fetch the profile from the backend")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd)
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, email, password string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	if err := d.validate.Login(email, password); err != nil {
		return fail(w, err)
	}

	sess, err := d.sessions.Login(ctx, email, password)
	if errors.Is(err, client.ErrUnauthorized) {
		fmt.Fprintln(w, "Error: incorrect email or password")
		return exitFailed
	}
	if err != nil {
		return fail(w, err)
	}

	printSession(w, sess, "Logged in as")
	return exitOK
}

// runRegister creates the account, signs in, and returns exit code
func runRegister(ctx context.Context, w io.Writer, name, email, password string) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	if err := d.validate.Register(name, email, password); err != nil {
		return fail(w, err)
	}

	sess, err := d.sessions.Register(ctx, name, email, password)
	if err != nil {
		return fail(w, err)
	}

	printSession(w, sess, "Registered and logged in as")
	return exitOK
}

func runLogout(w io.Writer) int {
	d, code := setup(w)
	if d == nil {
		return code
	}

	d.sessions.Logout()
	if IsJSONOutput() {
		fmt.Fprintln(w, `{"logged_in": false}`)
	} else {
		fmt.Fprintln(w, "Logged out.")
	}
	return exitOK
}

// runWhoami prints the current session and returns exit code
func runWhoami(ctx context.Context, w io.Writer, verify bool) int {
	d, code := setup(w)
	if d == nil {
		return code
	}
	if code := d.requireSession(ctx, w); code != exitOK {
		return code
	}

	if !verify {
		sess, _ := d.sessions.Current()
		printSession(w, sess, "Logged in as")
		return exitOK
	}

	user, err := d.sessions.Me(ctx)
	if err != nil {
		return fail(w, err)
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(user, "", "  ")
		fmt.Fprintln(w, string(data))
		return exitOK
	}
	fmt.Fprintln(w, formatUserHuman(user))
	return exitOK
}

func printSession(w io.Writer, sess *session.Session, prefix string) {
	if IsJSONOutput() {
		data, _ := json.MarshalIndent(sess, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintf(w, "%s %s <%s>\n", prefix, sess.DisplayName, sess.Email)
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(w, "Session expires %s\n", format.Date(sess.ExpiresAt))
	}
}

// formatUserHuman formats a profile for human readability
func formatUserHuman(u *client.User) string {
	created := "unknown"
	if !u.CreatedAt.IsZero() {
		created = format.Date(u.CreatedAt.Time)
	}
	return fmt.Sprintf(`Name:          %s
Email:         %s
ID:            %s
Member since:  %s`, u.Name, u.Email, u.ID, created)
}

// promptCredentials asks for whichever of email and password is missing
func promptCredentials(email, password *string) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(password),
	)).WithTheme(forms.Theme()).Run()
}

func promptRegistration(name, email, password *string, requirements string) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Name").Value(name),
		huh.NewInput().Title("Email").Value(email),
		huh.NewInput().Title("Password").Description(requirements).EchoMode(huh.EchoModePassword).Value(password),
	)).WithTheme(forms.Theme()).Run()
}
