package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/portfolio-site/internal/config"
	"github.com/jonathan/portfolio-site/internal/contact"
	"github.com/jonathan/portfolio-site/internal/observability"
	"github.com/jonathan/portfolio-site/internal/types"
	"github.com/spf13/cobra"
)

var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Contact form tools",
}

var contactSendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message through the configured contact relay",
	Long: `Fills the contact form from flags and submits it once, exactly as the page does.
Exits non-zero unless the relay reports success.`,
	RunE: runContactSend,
}

var (
	contactName    string
	contactEmail   string
	contactPhone   string
	contactMessage string
	contactTimeout time.Duration
)

// newContactRelay is replaced in tests.
var newContactRelay = func(cfg config.Config) (contact.Relay, error) {
	return newRelay(cfg)
}

func init() {
	contactSendCmd.Flags().StringVar(&contactName, "name", "", "Sender name")
	contactSendCmd.Flags().StringVar(&contactEmail, "email", "", "Sender email")
	contactSendCmd.Flags().StringVar(&contactPhone, "phone", "", "Sender phone")
	contactSendCmd.Flags().StringVarP(&contactMessage, "message", "m", "", "Message body")
	contactSendCmd.Flags().DurationVar(&contactTimeout, "timeout", 30*time.Second, "Relay request timeout")

	contactCmd.AddCommand(contactSendCmd)
	rootCmd.AddCommand(contactCmd)
}

func runContactSend(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd, config.Config{})
	if err != nil {
		return err
	}

	relay, err := newContactRelay(cfg)
	if err != nil {
		return err
	}

	form := contact.NewForm(relay)
	draft := types.ContactDraft{
		Name:    contactName,
		Email:   contactEmail,
		Phone:   contactPhone,
		Message: contactMessage,
	}
	draft.Normalize()
	form.SetDraft(draft)

	ctx, cancel := context.WithTimeout(cmd.Context(), contactTimeout)
	defer cancel()

	outcome, err := form.Submit(ctx)
	if err != nil {
		var validationErr *contact.ValidationError
		if errors.As(err, &validationErr) {
			return fmt.Errorf("%s (%s)", contact.ValidationIncomplete, validationErr.Field)
		}
		return err
	}

	observability.NewPrinter(cmd.OutOrStdout()).PrintOutcome(outcome)
	if outcome.Kind != contact.Success {
		return fmt.Errorf("submission %s: %s", outcome.Kind, outcome.UserMessage())
	}
	return nil
}
