package services

import (
	"github.com/rs/zerolog"

	"github.com/nexuscrm/hygiene/internal/config"
)

func init() {
	zerolog.SetGlobalLevel(zerolog.Disabled)
}

func testConfig() *config.Config {
	return config.Default()
}
