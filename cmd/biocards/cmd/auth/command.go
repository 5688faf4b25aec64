// Package auth implements the Google Drive authorization commands.
package auth

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/deppmann/biocards/internal/auth"
	"github.com/deppmann/biocards/internal/cmd/application"
	"github.com/deppmann/biocards/internal/cmd/emoji"
	"github.com/deppmann/biocards/internal/output"
	"github.com/deppmann/biocards/internal/sources/drive"
)

// AppContext defines what the auth commands need from the app.
type AppContext interface {
	Settings() application.Settings
	Logger() *zerolog.Logger
	OutputFormat() string
}

// NewCommand creates the auth command.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth",
		GroupID: "management",
		Short:   "Manage Google Drive authorization",
		Long: `Manage the OAuth credentials used to read the submission upload folder.

Drive access needs an OAuth desktop client secret (credentials.json) from
the Google Cloud Console and a user token (token.json) created by logging
in once through the browser.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(NewStatusCommand(app))
	cmd.AddCommand(NewLoginCommand(app))

	return cmd
}

// NewStatusCommand creates the auth status subcommand.
func NewStatusCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether Drive access is set up",
		Long: `Status checks the client secret and the stored token. It reads local
files only and makes no API calls.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings().Drive
			status := auth.NewChecker().CheckDrive(settings.CredentialsFile, settings.TokenFile)

			format := output.DetectFormat(app.OutputFormat())
			if !format.IsTable() {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), status)
			}
			printStatus(cmd, status)
			return nil
		},
	}
}

// NewLoginCommand creates the auth login subcommand.
func NewLoginCommand(app AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authorize Drive access in the browser",
		Long: `Login runs the OAuth flow: open the printed URL, approve read-only
Drive access, and the token is saved for later syncs. An existing token is
replaced.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings := app.Settings().Drive
			src := drive.New(settings.FolderID,
				drive.WithCredentialsFile(settings.CredentialsFile),
				drive.WithTokenFile(settings.TokenFile),
				drive.WithInteractive(cmd.OutOrStdout()),
				drive.WithLogger(app.Logger()),
			)
			if err := src.Login(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Token saved to %s\n", emoji.Success, settings.TokenFile)
			return nil
		},
	}
}

func printStatus(cmd *cobra.Command, status *auth.Status) {
	symbol := emoji.Error
	switch status.State {
	case auth.StateConfigured:
		symbol = emoji.Success
	case auth.StateLoginRequired:
		symbol = emoji.Warning
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s Google Drive: %s\n", symbol, status.State)
	fmt.Fprintf(w, "  %s\n", status.Summary)
	if d := status.Drive; d != nil {
		fmt.Fprintf(w, "  Credentials: %s\n", d.CredentialsFile)
		if d.ClientID != "" {
			fmt.Fprintf(w, "  Client ID:   %s\n", d.ClientID)
		}
		fmt.Fprintf(w, "  Token:       %s\n", d.TokenFile)
		if !d.Expiry.IsZero() {
			fmt.Fprintf(w, "  Expires:     %s (refreshable: %t)\n", d.Expiry.Format("2006-01-02 15:04"), d.Refreshable)
		}
	}
}
