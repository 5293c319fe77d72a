package utils

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GenerateID generates a new UUID v4 string
func GenerateID() string {
	id, err := uuid.NewRandom()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate UUID")
		return ""
	}
	return id.String()
}
