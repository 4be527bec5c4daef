package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// withinTx runs fn inside one transaction of store. Any error from fn rolls
// the transaction back; otherwise it is committed.
func withinTx(ctx context.Context, store ports.Store, log zerolog.Logger, fn func(tx ports.Tx) error) error {
	tx, err := store.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			log.Warn().Err(rbErr).Msg("rollback failed")
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
