package data

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estately/api/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewGetAll(t *testing.T) {
	models, mock := newTestModels(t)

	rows := sqlmock.NewRows([]string{"id", "created_at", "rating", "comment", "user_id"}).
		AddRow(2, time.Now(), 5, "Great service", 14).
		AddRow(1, time.Now(), 3, "Average", nil)

	mock.ExpectQuery("FROM review ORDER BY id DESC").WillReturnRows(rows)

	reviews, err := models.Reviews.GetAll()
	require.NoError(t, err)

	require.Len(t, reviews, 2)
	require.NotNil(t, reviews[0].UserID)
	assert.Equal(t, int64(14), *reviews[0].UserID)
	assert.Nil(t, reviews[1].UserID)
}

func TestReviewInsertAnonymous(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectQuery("INSERT INTO review").
		WithArgs(int32(4), "Lovely place", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	review := &Review{Rating: 4, Comment: "Lovely place"}

	err := models.Reviews.Insert(review)
	require.NoError(t, err)
	assert.Equal(t, int64(9), review.ID)
}

func TestValidateReviewRatingRange(t *testing.T) {
	v := validator.New()
	ValidateReview(v, &Review{Rating: 0, Comment: "x"})
	assert.Contains(t, v.Errors, "rating")

	v = validator.New()
	ValidateReview(v, &Review{Rating: 6, Comment: "x"})
	assert.Contains(t, v.Errors, "rating")

	v = validator.New()
	ValidateReview(v, &Review{Rating: 3, Comment: ""})
	assert.Contains(t, v.Errors, "comment")
}

func TestBankCount(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := models.Bank.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestCustomerGetByEmail(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectQuery("FROM customer WHERE email").
		WithArgs("mary@customer.example").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(3, "Mary Njeri", "mary@customer.example"))

	customer, err := models.Customers.GetByEmail("mary@customer.example")
	require.NoError(t, err)
	assert.Equal(t, "Mary Njeri", customer.Name)
}

func TestCustomerGetByEmailNotFound(t *testing.T) {
	models, mock := newTestModels(t)

	mock.ExpectQuery("FROM customer WHERE email").
		WithArgs("ghost@customer.example").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}))

	_, err := models.Customers.GetByEmail("ghost@customer.example")
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}
