package cli

import (
	"fmt"
	"os"

	"github.com/amterp/ra"
)

// CommandContext holds parsed values and used flags for all commands.
type CommandContext struct {
	// serve command
	ServeUsed *bool
	ServePort *int

	// setup command
	SetupUsed *bool

	// webhook command
	WebhookUsed *bool

	// webhook register
	WebhookRegisterUsed     *bool
	WebhookRegisterCallback *string
	WebhookRegisterModel    *string

	// webhook list
	WebhookListUsed *bool

	// webhook delete
	WebhookDeleteUsed *bool
	WebhookDeleteID   *string
}

// Run is the main entry point for the CLI.
func Run() {
	ctx := &CommandContext{}

	cmd := ra.NewCmd("trello-sync")
	cmd.SetDescription("Real-time sync server between Trello boards and browser clients")

	registerServe(cmd, ctx)
	registerSetup(cmd, ctx)
	registerWebhook(cmd, ctx)

	cmd.ParseOrExit(os.Args[1:])

	executeCommand(ctx)
}

func executeCommand(ctx *CommandContext) {
	switch {
	case *ctx.ServeUsed:
		runServe(*ctx.ServePort)

	case *ctx.SetupUsed:
		runSetup()

	case *ctx.WebhookRegisterUsed:
		runWebhookRegister(*ctx.WebhookRegisterCallback, *ctx.WebhookRegisterModel)

	case *ctx.WebhookListUsed:
		runWebhookList()

	case *ctx.WebhookDeleteUsed:
		runWebhookDelete(*ctx.WebhookDeleteID)
	}
}

// Fatal prints an error and exits.
func Fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
