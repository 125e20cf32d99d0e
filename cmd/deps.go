// ABOUTME: Wiring shared by every command
// ABOUTME: Builds the API client, session manager and product service, and maps errors to exit codes

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/client"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/config"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/credstore"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/products"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/session"
	"github.com/Mega-Barto/ACS-Final-Proyect-Option-2/internal/validation"
)

// Exit codes
const (
	exitOK          = 0
	exitFailed      = 1 // rejected, not found, or invalid input
	exitUnavailable = 2 // backend unreachable or bad configuration
	exitNoSession   = 3 // command needs a login
)

type deps struct {
	api      *client.Client
	sessions *session.Manager
	products *products.Service
	validate *validation.Validator
}

// newDeps builds the object graph from the loaded configuration
func newDeps(log *slog.Logger) (*deps, error) {
	c, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}

	api := client.New(GetAPIURL(), client.WithTimeout(c.HTTPTimeout), client.WithLogger(log))
	policy := policyFromConfig(c)

	return &deps{
		api:      api,
		sessions: session.New(api, credstore.NewFileStore(c.TokenPath()), session.WithLogger(log)),
		products: products.New(api),
		validate: validation.New(policy),
	}, nil
}

func policyFromConfig(c *config.Config) validation.PasswordPolicy {
	return validation.PasswordPolicy{MinLength: c.PasswordMinLength, Pattern: c.PasswordPattern}
}

// passwordPolicy returns the configured policy, or the default when the
// configuration cannot be read
func passwordPolicy() validation.PasswordPolicy {
	c, err := loadConfig()
	if err != nil {
		return validation.DefaultPasswordPolicy()
	}
	return policyFromConfig(c)
}

// setup builds deps, printing the failure and returning a non-zero code when it cannot
func setup(w io.Writer) (*deps, int) {
	d, err := newDeps(nil)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, exitUnavailable
	}
	return d, exitOK
}

// requireSession restores the stored session. A missing or rejected token
// yields exitNoSession.
func (d *deps) requireSession(ctx context.Context, w io.Writer) int {
	if d.sessions.Restore(ctx) == session.Authenticated {
		return exitOK
	}
	fmt.Fprintln(w, "Error: not logged in. Run 'prodctl login' first.")
	return exitNoSession
}

// fail prints err and returns the matching exit code
func fail(w io.Writer, err error) int {
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, client.ErrTransport):
		return exitUnavailable
	case errors.Is(err, client.ErrUnauthorized):
		return exitNoSession
	default:
		return exitFailed
	}
}

// failAuthed is fail for calls made with the session's credential. A
// rejected token is cleared so the next command asks for a login.
func (d *deps) failAuthed(w io.Writer, err error) int {
	return fail(w, d.sessions.Observe(err))
}
