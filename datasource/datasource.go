// Package datasource loads the historical transaction log the pipeline
// trains on. Sources yield plain TransactionRecords; parsing concerns stay
// here.
package datasource

import (
	"context"

	"app/models"
)

// Source yields the full historical transaction batch. Implementations must
// surface an unreadable or empty source as models.ErrDataSource.
type Source interface {
	Load(ctx context.Context) ([]models.TransactionRecord, error)
}
