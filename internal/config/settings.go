package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Settings holds everything the server needs at startup. Values come
// from the optional config file written by `setup`, with environment
// variables taking precedence.
type Settings struct {
	TrelloAPIKey   string `envconfig:"TRELLO_API_KEY" toml:"trello_api_key"`
	TrelloAPIToken string `envconfig:"TRELLO_API_TOKEN" toml:"trello_api_token"`
	Port           int    `envconfig:"PORT" toml:"port"`
	CORSOrigin     string `envconfig:"CORS_ORIGIN" toml:"cors_origin"`

	// TestMode forces the in-memory fixture adapter even when
	// credentials are present.
	TestMode bool `envconfig:"TEST_MODE" toml:"test_mode"`
}

// Defaults returns settings with default values applied.
func Defaults() Settings {
	return Settings{
		Port:       5001,
		CORSOrigin: "http://localhost:3000",
	}
}

// Load resolves settings: defaults, then the config file if one exists,
// then environment variables on top.
func Load() (*Settings, error) {
	s := Defaults()

	if err := loadFile(ConfigPath(), &s); err != nil {
		return nil, err
	}

	if err := envconfig.Process("", &s); err != nil {
		return nil, err
	}

	return &s, nil
}

// FixtureMode reports whether the in-memory fixture adapter should be
// used instead of the real Trello API: either requested explicitly, or
// forced because credentials are missing.
func (s *Settings) FixtureMode() bool {
	return s.TestMode || s.TrelloAPIKey == "" || s.TrelloAPIToken == ""
}
