package data

import (
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryGetAllOrderedByTitle(t *testing.T) {
	models, mock := newTestModels(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at", "title", "description"}).
		AddRow(3, now, "Apartments", "City apartments").
		AddRow(1, now, "Villas", "Luxury villas")

	mock.ExpectQuery("FROM categories ORDER BY title ASC LIMIT 50").WillReturnRows(rows)

	categories, err := models.Categories.GetAll()
	require.NoError(t, err)

	require.Len(t, categories, 2)
	assert.Equal(t, "Apartments", categories[0].Title)
	assert.Equal(t, "Villas", categories[1].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryInsert(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectQuery("SELECT id FROM categories WHERE title").
		WithArgs("Villas").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Villas", "Luxury villas").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	category := &Category{Title: "Villas", Description: "Luxury villas"}

	err := models.Categories.Insert(category)
	require.NoError(t, err)
	assert.Equal(t, int64(7), category.ID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCategoryInsertDuplicateTitle(t *testing.T) {
	models, mock := newTestModels(t)

	// The existence check matches; no insert statement may follow.
	mock.ExpectQuery("SELECT id FROM categories WHERE title").
		WithArgs("Villas").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	err := models.Categories.Insert(&Category{Title: "Villas", Description: "dup"})
	assert.ErrorIs(t, err, ErrDuplicateCategoryTitle)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The check-then-insert pair is not atomic: two concurrent creates with the
// same title can both pass the check and both insert. This test reproduces
// that window and reports it rather than asserting it away.
func TestCategoryInsertRaceWindow(t *testing.T) {
	models, mock := newTestModels(t)

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 2; i++ {
		mock.ExpectQuery("SELECT id FROM categories WHERE title").
			WithArgs("Villas").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("INSERT INTO categories").
			WithArgs("Villas", "dup").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(i+1), time.Now()))
	}

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- models.Categories.Insert(&Category{Title: "Villas", Description: "dup"})
		}()
	}

	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		}
	}

	if succeeded == 2 {
		t.Logf("race window reproduced: both concurrent creates with title %q passed the existence check and inserted", "Villas")
	}
	assert.Equal(t, 2, succeeded)
}

func TestCategoryDelete(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectExec("DELETE FROM categories WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := models.Categories.Delete(7)
	assert.NoError(t, err)
}

func TestCategoryDeleteNotFound(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectExec("DELETE FROM categories WHERE id").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := models.Categories.Delete(99)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}
