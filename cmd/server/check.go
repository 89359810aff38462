package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/internal/mailer"
	"github.com/spf13/cobra"
)

var mailTo string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration and external services",
}

var checkConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate the environment and print every problem found",
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := config.Load(config.Options{Root: appRoot})
		if err != nil {
			reportConfigError(cmd.ErrOrStderr(), err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration OK: %s (%s) on %s\n",
			settings.Project.Name, settings.Env, settings.GetAddress())
		return nil
	},
}

var checkMailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Connect to the SMTP server, optionally sending a test message",
	Example: `  # Only check that the SMTP credentials are accepted
  paytypes check mail

  # Also send a test message
  paytypes check mail --to ops@example.com`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}

		if !settings.SMTPConfigured() {
			return fmt.Errorf("SMTP_HOST is not set: %w", mailer.ErrNotConfigured)
		}
		m, err := mailer.New(settings.Mail)
		if err != nil {
			return err
		}
		if err := m.Verify(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "SMTP OK: %s\n", m.Address())

		if mailTo == "" {
			return nil
		}
		subject := fmt.Sprintf("%s mail check", settings.Project.DisplayName)
		if err := m.Send(mailTo, subject, "This is a test message."); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Test message sent to %s\n", mailTo)
		return nil
	},
}

func init() {
	checkMailCmd.Flags().StringVar(&mailTo, "to", "", "Recipient of a test message")
	checkCmd.AddCommand(checkConfigCmd, checkMailCmd)
	rootCmd.AddCommand(checkCmd)
}

func reportConfigError(w io.Writer, err error) {
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "Configuration error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Configuration has %d problem(s):\n", len(verr.Violations))
	for _, v := range verr.Violations {
		fmt.Fprintf(w, "  %s: %s\n", v.Key, v.Message)
	}
}
