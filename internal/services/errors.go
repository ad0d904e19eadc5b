package services

import (
	"errors"

	"github.com/anonto42/linkup/backend/internal/models"
	"github.com/rs/zerolog/log"
)

// storeErr turns a repository error into the AppError surfaced to callers.
// Missing documents become NotFound, anything else is a logged StoreError.
func storeErr(op, resource, id string, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	log.Error().Err(err).Str("op", op).Str("id", id).Msg("store operation failed")
	return models.NewStoreError(op, id, err)
}
