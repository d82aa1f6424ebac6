package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/estately/api/internal/config"
	"github.com/estately/api/internal/data"
	"github.com/estately/api/internal/jsonlog"
	"github.com/estately/api/internal/pool"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestApplication wires the full handler stack over a mock driver.
func newTestApplication(t *testing.T) (*application, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	p := pool.New(db, 5, 10)

	cfg := &config.Config{Env: "test", Port: 4000}
	cfg.Auth.Secret = "test-signing-secret"

	return &application{
		config: cfg,
		logger: jsonlog.New(io.Discard, jsonlog.LevelOff),
		models: data.NewModels(p),
		pool:   p,
	}, mock
}

func doRequest(t *testing.T, app *application, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(js)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()

	app.routes().ServeHTTP(rec, req)
	return rec
}

func TestHealthcheck(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := doRequest(t, app, http.MethodGet, "/healthcheck", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "available")
}

func TestCreateCategory(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT id FROM categories WHERE title").
		WithArgs("Villas").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO categories").
		WithArgs("Villas", "Luxury villas").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, time.Now()))

	rec := doRequest(t, app, http.MethodPost, "/categories", map[string]interface{}{
		"title":       "Villas",
		"description": "Luxury villas",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id": 7`)
}

func TestCreateCategoryDuplicateTitle(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT id FROM categories WHERE title").
		WithArgs("Villas").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	rec := doRequest(t, app, http.MethodPost, "/categories", map[string]interface{}{
		"title":       "Villas",
		"description": "Luxury villas",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryMissingFields(t *testing.T) {
	app, mock := newTestApplication(t)

	rec := doRequest(t, app, http.MethodPost, "/categories", map[string]interface{}{
		"title": "Villas",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "description")

	// Invalid input must not reach storage.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCategoryUnknownField(t *testing.T) {
	app, _ := newTestApplication(t)

	rec := doRequest(t, app, http.MethodPost, "/categories", map[string]interface{}{
		"title":       "Villas",
		"description": "Luxury villas",
		"surprise":    true,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAgentMissingFields(t *testing.T) {
	app, mock := newTestApplication(t)

	rec := doRequest(t, app, http.MethodPost, "/agent", map[string]interface{}{
		"name":     "Jane Wambui",
		"password": "pa55word123",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteAgentNotFound(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectExec("DELETE FROM agent WHERE id").
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doRequest(t, app, http.MethodDelete, "/agent/404", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShowPropertyNotFound(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("FROM properties WHERE id").
		WithArgs(int64(9999)).
		WillReturnError(sql.ErrNoRows)

	rec := doRequest(t, app, http.MethodGet, "/properties/9999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetFavourite(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectExec("UPDATE properties SET is_favourites").
		WithArgs(true, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := doRequest(t, app, http.MethodPatch, "/properties/favourites", map[string]interface{}{
		"id":            5,
		"is_favourites": true,
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetFavouriteUnknownProperty(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectExec("UPDATE properties SET is_favourites").
		WithArgs(true, int64(9999)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := doRequest(t, app, http.MethodPatch, "/properties/favourites", map[string]interface{}{
		"id":            9999,
		"is_favourites": true,
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetFavouriteMissingFlag(t *testing.T) {
	app, mock := newTestApplication(t)

	rec := doRequest(t, app, http.MethodPatch, "/properties/favourites", map[string]interface{}{
		"id": 5,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func agentRowWithPassword(t *testing.T, plaintext string) *sqlmock.Rows {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), 12)
	require.NoError(t, err)

	return sqlmock.NewRows([]string{"id", "created_at", "name", "phone", "email", "gender", "status", "role", "password", "experience"}).
		AddRow(11, time.Now(), "Jane Wambui", "0712000001", "jane@estately.example", "female", "active", "agent", hash, 4)
}

func TestLogin(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("FROM agent WHERE email").
		WithArgs("jane@estately.example").
		WillReturnRows(agentRowWithPassword(t, "pa55word123"))

	rec := doRequest(t, app, http.MethodPost, "/login", map[string]interface{}{
		"email":    "jane@estately.example",
		"password": "pa55word123",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "token")
}

func TestLoginWrongPassword(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("FROM agent WHERE email").
		WithArgs("jane@estately.example").
		WillReturnRows(agentRowWithPassword(t, "pa55word123"))

	rec := doRequest(t, app, http.MethodPost, "/login", map[string]interface{}{
		"email":    "jane@estately.example",
		"password": "not-the-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginUnknownEmail(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("FROM agent WHERE email").
		WithArgs("ghost@estately.example").
		WillReturnError(sql.ErrNoRows)

	rec := doRequest(t, app, http.MethodPost, "/login", map[string]interface{}{
		"email":    "ghost@estately.example",
		"password": "pa55word123",
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBankCountHandler(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	rec := doRequest(t, app, http.MethodGet, "/bank/count", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count": 12`)
}

func TestServerErrorHidesCause(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnError(&pq.Error{Code: "42P01", Message: "relation \"bank\" does not exist"})

	rec := doRequest(t, app, http.MethodGet, "/bank/count", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "bank")
	assert.Contains(t, rec.Body.String(), "the server encountered a problem")
}

func TestCreateReview(t *testing.T) {
	app, mock := newTestApplication(t)

	mock.ExpectQuery("INSERT INTO review").
		WithArgs(int32(5), "Great service", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(9, time.Now()))

	rec := doRequest(t, app, http.MethodPost, "/review", map[string]interface{}{
		"rating":  5,
		"comment": "Great service",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateReviewInvalidRating(t *testing.T) {
	app, mock := newTestApplication(t)

	rec := doRequest(t, app, http.MethodPost, "/review", map[string]interface{}{
		"rating":  9,
		"comment": "way too good",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
