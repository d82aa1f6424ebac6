package main

import (
	"net/http"

	"github.com/estately/api/internal/data"
	"github.com/estately/api/internal/validator"
)

// listReviewsHandler returns every review, newest first.
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
	reviews, err := app.models.Reviews.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createReviewHandler appends a new review; the user reference is optional.
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Rating  int32  `json:"rating"`
		Comment string `json:"comment"`
		UserID  *int64 `json:"user_id"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	review := &data.Review{
		Rating:  input.Rating,
		Comment: input.Comment,
		UserID:  input.UserID,
	}

	v := validator.New()
	if data.ValidateReview(v, review); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Reviews.Insert(review)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
