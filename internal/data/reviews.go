package data

import (
	"context"
	"database/sql"
	"time"

	"github.com/estately/api/internal/pool"
	"github.com/estately/api/internal/validator"
)

// Review is an append-only visitor rating. UserID is optional; anonymous
// reviews carry no user reference.
type Review struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Rating    int32     `json:"rating"`
	Comment   string    `json:"comment"`
	UserID    *int64    `json:"user_id,omitempty"`
}

// ValidateReview checks rating range and comment presence.
func ValidateReview(v *validator.Validator, review *Review) {
	v.Check(review.Rating >= 1, "rating", "must be at least 1")
	v.Check(review.Rating <= 5, "rating", "must not be more than 5")
	v.Check(review.Comment != "", "comment", "must be provided")
	v.Check(len(review.Comment) <= 1000, "comment", "must not be more than 1000 bytes long")
}

// ReviewModel wraps the connection pool for review table operations.
type ReviewModel struct {
	Pool *pool.Pool
}

// GetAll retrieves every review, newest first.
func (m ReviewModel) GetAll() ([]*Review, error) {
	query := `
		SELECT id, created_at, rating, comment, user_id
		FROM review
		ORDER BY id DESC`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	rows, err := lease.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []*Review{}

	for rows.Next() {
		var (
			review Review
			userID sql.NullInt64
		)
		err := rows.Scan(
			&review.ID,
			&review.CreatedAt,
			&review.Rating,
			&review.Comment,
			&userID,
		)
		if err != nil {
			return nil, pool.Classify(err)
		}
		if userID.Valid {
			review.UserID = &userID.Int64
		}
		reviews = append(reviews, &review)
	}

	if err = rows.Err(); err != nil {
		return nil, pool.Classify(err)
	}

	return reviews, nil
}

// Insert appends a new review. Reviews are never updated or deleted.
func (m ReviewModel) Insert(review *Review) error {
	query := `
		INSERT INTO review (rating, comment, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	var userID sql.NullInt64
	if review.UserID != nil {
		userID = sql.NullInt64{Int64: *review.UserID, Valid: true}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, review.Rating, review.Comment, userID).Scan(
		&review.ID,
		&review.CreatedAt,
	)
	if err != nil {
		return pool.Classify(err)
	}

	return nil
}
