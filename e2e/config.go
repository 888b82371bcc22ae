package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIAddr string `envconfig:"API_ADDR" default:"localhost:8080"`
	// E2E_JWT_SECRET must match the secret of the server under test so
	// the suite can mint its own identities.
	JWTSecret string `envconfig:"E2E_JWT_SECRET" default:"dev-secret"`
	// E2E_DEBUG_JSON allows dumping full HTTP request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
