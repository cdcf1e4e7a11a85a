package cli

import (
	"fmt"
	"strconv"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/config"
	"github.com/amterp/ra"
	"github.com/charmbracelet/huh"
)

func registerSetup(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("setup")
	cmd.SetDescription("Interactive setup: store Trello credentials and server settings")

	ctx.SetupUsed, _ = parent.RegisterCmd(cmd)
}

// runSetup walks through credentials and server settings and writes
// them to the user config file. Environment variables still win over
// the file at startup.
func runSetup() {
	current, err := config.Load()
	if err != nil {
		Fatal(err)
	}

	key := current.TrelloAPIKey
	token := current.TrelloAPIToken
	portStr := strconv.Itoa(current.Port)
	origin := current.CORSOrigin

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trello API key").
				Description("From https://trello.com/app-key (leave empty for test mode)").
				Value(&key),
			huh.NewInput().
				Title("Trello API token").
				Description("Generated from the authorization URL on the app-key page").
				Value(&token),
			huh.NewInput().
				Title("Server port").
				Value(&portStr).
				Validate(func(s string) error {
					_, convErr := strconv.Atoi(s)
					if convErr != nil {
						return fmt.Errorf("port must be a number")
					}
					return nil
				}),
			huh.NewInput().
				Title("CORS origin").
				Description("Origin of the browser frontend").
				Value(&origin),
		),
	)

	if err := form.Run(); err != nil {
		Fatal(err)
	}

	current.TrelloAPIKey = key
	current.TrelloAPIToken = token
	current.Port, _ = strconv.Atoi(portStr)
	current.CORSOrigin = origin

	path := config.ConfigPath()
	if err := config.Save(path, current); err != nil {
		Fatal(err)
	}

	fmt.Printf("Settings saved to %s\n", path)
	if current.FixtureMode() {
		fmt.Println("No credentials configured: the server will run in test mode against in-memory data.")
		fmt.Println("Re-run setup with a key and token to sync against the real Trello API.")
	} else {
		fmt.Println("Run 'trello-sync serve' to start the server, then register a webhook with")
		fmt.Println("'trello-sync webhook register <callbackURL> <boardID>' for real-time updates.")
	}
}
