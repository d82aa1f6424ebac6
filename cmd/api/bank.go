package main

import (
	"net/http"
)

// bankCountHandler returns the number of partner bank records.
func (app *application) bankCountHandler(w http.ResponseWriter, r *http.Request) {
	count, err := app.models.Bank.Count()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"count": count}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
