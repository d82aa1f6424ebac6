package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/estately/api/internal/pool"
)

// Property represents a real estate listing. Images is persisted as a
// serialized JSON string; an absent value reads back as an empty list.
type Property struct {
	ID           int64     `json:"id"`
	CreatedAt    time.Time `json:"-"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	Price        float64   `json:"price"`
	Images       []string  `json:"images"`
	IsFavourites bool      `json:"is_favourites"`
}

// PropertyModel wraps the connection pool for properties table operations.
type PropertyModel struct {
	Pool *pool.Pool
}

// Get retrieves a property by ID with its images deserialized.
func (m PropertyModel) Get(id int64) (*Property, error) {
	if id < 1 {
		return nil, ErrPropertyNotFound
	}

	query := `
		SELECT id, created_at, title, description, location, price, images, is_favourites
		FROM properties
		WHERE id = $1`

	var (
		property  Property
		rawImages sql.NullString
	)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	lease, err := m.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer lease.Release()

	err = lease.QueryRow(ctx, query, id).Scan(
		&property.ID,
		&property.CreatedAt,
		&property.Title,
		&property.Description,
		&property.Location,
		&property.Price,
		&rawImages,
		&property.IsFavourites,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrPropertyNotFound
		default:
			return nil, pool.Classify(err)
		}
	}

	property.Images, err = decodeImages(rawImages)
	if err != nil {
		return nil, err
	}

	return &property, nil
}

// GetFavourites retrieves every property currently flagged as a favourite.
func (m PropertyModel) GetFavourites() ([]*Property, error) {
	query := `
		SELECT id, created_at, title, description, location, price, images, is_favourites
		FROM properties
		WHERE is_favourites = true
		ORDER BY id ASC`

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

	properties := []*Property{}

	for rows.Next() {
		var (
			property  Property
			rawImages sql.NullString
		)
		err := rows.Scan(
			&property.ID,
			&property.CreatedAt,
			&property.Title,
			&property.Description,
			&property.Location,
			&property.Price,
			&rawImages,
			&property.IsFavourites,
		)
		if err != nil {
			return nil, pool.Classify(err)
		}

		property.Images, err = decodeImages(rawImages)
		if err != nil {
			return nil, err
		}

		properties = append(properties, &property)
	}

	if err = rows.Err(); err != nil {
		return nil, pool.Classify(err)
	}

	return properties, nil
}

// SetFavourite sets the two-state favourites flag on a property.
func (m PropertyModel) SetFavourite(id int64, favourite bool) error {
	if id < 1 {
		return ErrPropertyNotFound
	}

	query := `
		UPDATE properties
		SET is_favourites = $1
		WHERE id = $2`

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	result, err := m.Pool.Exec(ctx, query, favourite, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return pool.Classify(err)
	}

	if rowsAffected == 0 {
		return ErrPropertyNotFound
	}

	return nil
}

// Delete removes a property by ID.
func (m PropertyModel) Delete(id int64) error {
	if id < 1 {
		return ErrPropertyNotFound
	}

	query := `
		DELETE FROM properties
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
		return ErrPropertyNotFound
	}

	return nil
}

// decodeImages normalizes the stored images column: NULL or empty becomes
// an empty list, anything that fails to parse surfaces as ErrMalformedImages.
func decodeImages(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return []string{}, nil
	}

	var images []string
	if err := json.Unmarshal([]byte(raw.String), &images); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImages, err)
	}

	if images == nil {
		images = []string{}
	}

	return images, nil
}
