package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/config"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/trello"
	"github.com/amterp/ra"
)

func registerWebhook(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("webhook")
	cmd.SetDescription("Manage Trello webhook registrations")

	register := ra.NewCmd("register")
	register.SetDescription("Register a webhook so Trello pushes board activity to the server")
	ctx.WebhookRegisterCallback, _ = ra.NewString("callback-url").
		SetUsage("Publicly reachable URL of the /api/webhooks/trello endpoint").
		Register(register)
	ctx.WebhookRegisterModel, _ = ra.NewString("board-id").
		SetUsage("Board ID to watch").
		Register(register)
	ctx.WebhookRegisterUsed, _ = cmd.RegisterCmd(register)

	list := ra.NewCmd("list")
	list.SetDescription("List webhook registrations")
	ctx.WebhookListUsed, _ = cmd.RegisterCmd(list)

	del := ra.NewCmd("delete")
	del.SetDescription("Delete a webhook registration")
	ctx.WebhookDeleteID, _ = ra.NewString("webhook-id").
		SetUsage("ID of the webhook to delete").
		Register(del)
	ctx.WebhookDeleteUsed, _ = cmd.RegisterCmd(del)

	ctx.WebhookUsed, _ = parent.RegisterCmd(cmd)
}

func newAdapter() (trello.Adapter, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return trello.New(cfg, newLogger()), nil
}

func webhookContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

func runWebhookRegister(callbackURL, boardID string) {
	adapter, err := newAdapter()
	if err != nil {
		Fatal(err)
	}

	ctx, cancel := webhookContext()
	defer cancel()

	fmt.Println("Registering webhook...")
	fmt.Printf("Callback URL: %s\n", callbackURL)
	fmt.Printf("Board ID: %s\n", boardID)

	webhook, err := adapter.CreateWebhook(ctx, callbackURL, boardID)
	if err != nil {
		Fatal(err)
	}

	fmt.Println("\nWebhook registered successfully")
	fmt.Printf("Webhook ID: %s\n", webhook.ID)
	fmt.Printf("Callback URL: %s\n", webhook.CallbackURL)
	fmt.Printf("Model ID: %s\n", webhook.IDModel)
	fmt.Printf("Active: %t\n", webhook.Active)
}

func runWebhookList() {
	adapter, err := newAdapter()
	if err != nil {
		Fatal(err)
	}

	ctx, cancel := webhookContext()
	defer cancel()

	webhooks, err := adapter.ListWebhooks(ctx)
	if err != nil {
		Fatal(err)
	}

	if len(webhooks) == 0 {
		fmt.Println("No webhooks registered")
		return
	}

	for _, wh := range webhooks {
		fmt.Printf("%s  model=%s  active=%t  %s\n", wh.ID, wh.IDModel, wh.Active, wh.CallbackURL)
	}
}

func runWebhookDelete(webhookID string) {
	adapter, err := newAdapter()
	if err != nil {
		Fatal(err)
	}

	ctx, cancel := webhookContext()
	defer cancel()

	if err := adapter.DeleteWebhook(ctx, webhookID); err != nil {
		Fatal(err)
	}
	fmt.Printf("Webhook deleted: %s\n", webhookID)
}
