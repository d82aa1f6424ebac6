package data

import (
	"context"
	"time"

	"github.com/estately/api/internal/pool"
)

// BankModel exposes the bank table's counting aggregate.
type BankModel struct {
	Pool *pool.Pool
}

// Count returns the number of bank rows.
func (m BankModel) Count() (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM bank`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer lease.Release()

	var count int64

	err = lease.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, pool.Classify(err)
	}

	return count, nil
}
