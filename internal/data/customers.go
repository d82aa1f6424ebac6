package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/estately/api/internal/pool"
)

// Customer is read-only from this layer; it exists for the password-reset
// lookup.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CustomerModel wraps the connection pool for customer table operations.
type CustomerModel struct {
	Pool *pool.Pool
}

// GetByEmail looks up a customer by email for the reset flow.
func (m CustomerModel) GetByEmail(email string) (*Customer, error) {
	query := `
		SELECT id, name, email
		FROM customer
		WHERE email = $1`

	var customer Customer

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, email).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrCustomerNotFound
		default:
			return nil, pool.Classify(err)
		}
	}

	return &customer, nil
}
