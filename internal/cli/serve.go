package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/api"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/bus"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/config"
	"github.com/aaryanrlondhe/Trello-Real-Time-Project/internal/trello"
	"github.com/amterp/ra"
	"github.com/rs/zerolog"
)

func registerServe(parent *ra.Cmd, ctx *CommandContext) {
	cmd := ra.NewCmd("serve")
	cmd.SetDescription("Start the sync server")

	ctx.ServePort, _ = ra.NewInt("port").
		SetOptional(true).
		SetDefault(0).
		SetShort("p").
		SetFlagOnly(true).
		SetUsage("Port to listen on (overrides PORT / config file)").
		Register(cmd)

	ctx.ServeUsed, _ = parent.RegisterCmd(cmd)
}

func newLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
}

func runServe(port int) {
	log := newLogger()

	cfg, err := config.Load()
	if err != nil {
		Fatal(err)
	}
	if port > 0 {
		cfg.Port = port
	}

	adapter := trello.New(cfg, log)
	fanout := bus.New()
	hub := api.NewWebSocketHub(fanout, log)
	handler := api.NewHandler(adapter, fanout, log)
	server := api.NewServer(handler, hub, cfg, log)

	log.Info().Int("port", cfg.Port).Msg("server starting")
	log.Info().Str("origin", cfg.CORSOrigin).Msg("CORS origin")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	stop, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	select {
	case err := <-errCh:
		if err != nil {
			Fatal(err)
		}
	case <-stop.Done():
		log.Info().Msg("shutting down")
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelShutdown()
		if err := server.Shutdown(shutdownCtx); err != nil {
			Fatal(err)
		}
	}
}
