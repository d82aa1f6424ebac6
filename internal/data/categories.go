package data

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/estately/api/internal/pool"
	"github.com/estately/api/internal/validator"
)

// Category groups property listings under a browsable heading.
type Category struct {
	ID          int64     `json:"id"`
	CreatedAt   time.Time `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

// ValidateCategory checks that the required category fields are present.
func ValidateCategory(v *validator.Validator, category *Category) {
	v.Check(category.Title != "", "title", "must be provided")
	v.Check(len(category.Title) <= 200, "title", "must not be more than 200 bytes long")
	v.Check(category.Description != "", "description", "must be provided")
}

// CategoryModel wraps the connection pool for categories table operations.
type CategoryModel struct {
	Pool *pool.Pool
}

// GetAll retrieves up to 50 categories in title order.
func (m CategoryModel) GetAll() ([]*Category, error) {
	query := `
		SELECT id, created_at, title, description
		FROM categories
		ORDER BY title ASC
		LIMIT 50`

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

	categories := []*Category{}

	for rows.Next() {
		var category Category
		err := rows.Scan(
			&category.ID,
			&category.CreatedAt,
			&category.Title,
			&category.Description,
		)
		if err != nil {
			return nil, pool.Classify(err)
		}
		categories = append(categories, &category)
	}

	if err = rows.Err(); err != nil {
		return nil, pool.Classify(err)
	}

	return categories, nil
}

// Insert adds a new category after checking the title is not already taken.
// As with agents, the check and the insert are not one atomic unit.
func (m CategoryModel) Insert(category *Category) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	taken, err := m.titleTaken(ctx, category.Title)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicateCategoryTitle
	}

	query := `
		INSERT INTO categories (title, description)
		VALUES ($1, $2)
		RETURNING id, created_at`

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, category.Title, category.Description).Scan(
		&category.ID,
		&category.CreatedAt,
	)
	if err != nil {
		return pool.Classify(err)
	}

	return nil
}

// titleTaken reports whether a category with the given title already exists.
func (m CategoryModel) titleTaken(ctx context.Context, title string) (bool, error) {
	query := `
		SELECT id
		FROM categories
		WHERE title = $1`

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer lease.Release()

	var id int64

	err = lease.QueryRow(ctx, query, title).Scan(&id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return false, nil
		default:
			return false, pool.Classify(err)
		}
	}

	return true, nil
}

// Delete removes a category by ID.
func (m CategoryModel) Delete(id int64) error {
	if id < 1 {
		return ErrCategoryNotFound
	}

	query := `
		DELETE FROM categories
		WHERE id = $1`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.Pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pool.Classify(err)
	}

	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}

	return nil
}
