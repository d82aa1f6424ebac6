package main

import (
	"errors"
	"net/http"

	"github.com/estately/api/internal/data"
)

// showPropertyHandler fetches one property with its images deserialized.
func (app *application) showPropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	property, err := app.models.Properties.Get(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPropertyNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"property": property}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deletePropertyHandler removes a property by ID.
func (app *application) deletePropertyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Properties.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPropertyNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "property successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listFavouritePropertiesHandler returns every property currently flagged.
func (app *application) listFavouritePropertiesHandler(w http.ResponseWriter, r *http.Request) {
	properties, err := app.models.Properties.GetFavourites()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"properties": properties}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// setFavouritePropertyHandler sets the favourites flag on a property.
func (app *application) setFavouritePropertyHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ID           int64 `json:"id"`
		IsFavourites *bool `json:"is_favourites"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if input.ID < 1 || input.IsFavourites == nil {
		app.badRequestResponse(w, r, errors.New("id and is_favourites must be provided"))
		return
	}

	err = app.models.Properties.SetFavourite(input.ID, *input.IsFavourites)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrPropertyNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "favourite flag updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
