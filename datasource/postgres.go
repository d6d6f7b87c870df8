package datasource

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"app/models"
)

// PostgresSource reads the transaction log from the sales table when the
// service runs against the POS database instead of a CSV export.
type PostgresSource struct {
	Pool *pgxpool.Pool
}

func NewPostgresSource(pool *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{Pool: pool}
}

func (s *PostgresSource) Load(ctx context.Context) ([]models.TransactionRecord, error) {
	query := `
        SELECT sale_time, item_name, quantity_sold
        FROM sales
        WHERE quantity_sold >= 0
        ORDER BY sale_time
    `
	rows, err := s.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w: %v", models.ErrDataSource, err)
	}
	defer rows.Close()

	var transactions []models.TransactionRecord
	for rows.Next() {
		var tx models.TransactionRecord
		if err := rows.Scan(&tx.Timestamp, &tx.ItemName, &tx.Quantity); err != nil {
			return nil, fmt.Errorf("scanning sale row: %w: %v", models.ErrDataSource, err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading sales: %w: %v", models.ErrDataSource, err)
	}

	if len(transactions) == 0 {
		return nil, fmt.Errorf("sales table is empty: %w", models.ErrDataSource)
	}
	return transactions, nil
}
