package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bizzai/go-session"
	"github.com/spf13/cobra"
)

var (
	loginCreds   session.Credentials
	registration session.Registration
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	Run: run(func(ctx context.Context, d *deps, w io.Writer) int {
		return runLogin(ctx, d, w, loginCreds)
	}),
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Run: run(func(ctx context.Context, d *deps, w io.Writer) int {
		return runRegister(ctx, d, w, registration)
	}),
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored token",
	Run:   run(runLogout),
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in identity",
	Run:   run(protected(runWhoami)),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the session state",
	Run:   run(runStatus),
}

func init() {
	loginCmd.Flags().StringVar(&loginCreds.Email, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginCreds.Password, "password", "", "Account password (prompted when empty)")

	f := registerCmd.Flags()
	f.StringVar(&registration.Name, "name", "", "Your name")
	f.StringVar(&registration.Email, "email", "", "Account email")
	f.StringVar(&registration.Password, "password", "", "Account password (prompted when empty)")
	f.StringVar(&registration.BusinessName, "business-name", "", "Business name")
	f.StringVar(&registration.BusinessType, "business-type", "", "Business type (default small)")
	f.StringVar(&registration.Website, "website", "", "Business website")
	f.StringVar(&registration.Phone, "phone", "", "Business phone")
	f.StringVar(&registration.Industry, "industry", "", "Industry (default retail)")

	rootCmd.AddCommand(loginCmd, registerCmd, logoutCmd, whoamiCmd, statusCmd)
}

// identityView is the printable form of an identity.
type identityView struct {
	State           string     `json:"state"`
	UserID          string     `json:"userId,omitempty"`
	IdentifierClaim string     `json:"identifierClaim,omitempty"`
	BusinessID      string     `json:"businessId,omitempty"`
	Email           string     `json:"email,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
	Expired         bool       `json:"expired,omitempty"`
}

func newIdentityView(state session.State, identity *session.Identity, now time.Time) identityView {
	view := identityView{State: state.String()}
	if identity == nil {
		return view
	}
	view.UserID = identity.GetUserID()
	view.IdentifierClaim = identity.IdentifierClaim
	view.BusinessID = identity.BusinessID()
	view.Email, _ = identity.Claim("email")
	if exp := identity.ExpiresAt(); exp != nil {
		view.ExpiresAt = exp
		view.Expired = exp.Before(now)
	}
	return view
}

func runLogin(ctx context.Context, d *deps, w io.Writer, creds session.Credentials) int {
	if err := d.prompter.Ask(missing(
		field{Title: "Email", Value: &creds.Email, Validate: required},
		field{Title: "Password", Value: &creds.Password, Secret: true, Validate: required},
	)...); err != nil {
		return reportError(w, err)
	}

	identity, err := d.controller.SignIn(ctx, creds)
	if err != nil {
		return reportError(w, err)
	}

	printIdentity(w, d.controller.State(), identity, "Signed in")
	return exitOK
}

func runRegister(ctx context.Context, d *deps, w io.Writer, reg session.Registration) int {
	if err := d.prompter.Ask(missing(
		field{Title: "Name", Value: &reg.Name, Validate: required},
		field{Title: "Email", Value: &reg.Email, Validate: required},
		field{Title: "Password", Value: &reg.Password, Secret: true, Validate: required},
		field{Title: "Business name", Value: &reg.BusinessName, Validate: required},
	)...); err != nil {
		return reportError(w, err)
	}

	identity, err := d.controller.SignUp(ctx, reg)
	if err != nil {
		return reportError(w, err)
	}

	printIdentity(w, d.controller.State(), identity, "Account created")
	return exitOK
}

func runLogout(ctx context.Context, d *deps, w io.Writer) int {
	if err := d.controller.SignOut(ctx); err != nil {
		return reportError(w, err)
	}

	if IsJSONOutput() {
		writeJSON(w, newIdentityView(d.controller.State(), nil, time.Now()))
		return exitOK
	}
	fmt.Fprintln(w, okStyle.Render("Signed out"))
	return exitOK
}

func runWhoami(_ context.Context, d *deps, w io.Writer) int {
	identity, _ := d.controller.Identity()
	printIdentity(w, d.controller.State(), identity, "")
	return exitOK
}

// runStatus exits 0 when signed in and 1 otherwise, for use in scripts.
func runStatus(_ context.Context, d *deps, w io.Writer) int {
	identity, ok := d.controller.Identity()
	printIdentity(w, d.controller.State(), identity, "")
	if !ok {
		return exitFailure
	}
	return exitOK
}

func printIdentity(w io.Writer, state session.State, identity *session.Identity, headline string) {
	view := newIdentityView(state, identity, time.Now())
	if IsJSONOutput() {
		writeJSON(w, view)
		return
	}
	fmt.Fprintln(w, formatIdentityHuman(view, headline))
}

func formatIdentityHuman(view identityView, headline string) string {
	var b strings.Builder
	if headline != "" {
		b.WriteString(okStyle.Render(headline) + "\n")
	}

	if view.State != session.StateAuthenticated.String() {
		b.WriteString(row("Session", warnStyle.Render(view.State)) + "\n")
		b.WriteString(hintStyle.Render(fmt.Sprintf("Run %q to sign in.", loginCommand)))
		return b.String()
	}

	b.WriteString(row("Session", okStyle.Render(view.State)) + "\n")
	user := view.UserID
	if user == "" {
		user = warnStyle.Render("(no identifier claim)")
	}
	b.WriteString(row("User", user) + "\n")
	if view.IdentifierClaim != "" {
		b.WriteString(row("Claim", view.IdentifierClaim) + "\n")
	}
	if view.Email != "" {
		b.WriteString(row("Email", view.Email) + "\n")
	}
	if view.BusinessID != "" {
		b.WriteString(row("Business", view.BusinessID) + "\n")
	}
	if view.ExpiresAt != nil {
		exp := view.ExpiresAt.Format(time.RFC1123)
		if view.Expired {
			exp += " " + warnStyle.Render("(expired)")
		}
		b.WriteString(row("Expires", exp) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
