package main

import (
	"errors"
	"net/http"

	"github.com/estately/api/internal/data"
	"github.com/estately/api/internal/validator"
)

// listAgentsHandler returns every registered agent.
func (app *application) listAgentsHandler(w http.ResponseWriter, r *http.Request) {
	agents, err := app.models.Agents.GetAll()
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"agents": agents}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createAgentHandler registers a new agent. Names are unique; a taken name
// is reported as a conflict.
func (app *application) createAgentHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name       string `json:"name"`
		Phone      string `json:"phone"`
		Email      string `json:"email"`
		Gender     string `json:"gender"`
		Status     string `json:"status"`
		Role       string `json:"role"`
		Password   string `json:"password"`
		Experience int32  `json:"experience"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	agent := &data.Agent{
		Name:       input.Name,
		Phone:      input.Phone,
		Email:      input.Email,
		Gender:     input.Gender,
		Status:     input.Status,
		Role:       input.Role,
		Experience: input.Experience,
	}

	err = agent.Password.Set(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateAgent(v, agent); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	err = app.models.Agents.Insert(agent)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrDuplicateAgentName):
			app.conflictResponse(w, r, "an agent with this name already exists")
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"agent": agent}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteAgentHandler removes an agent by ID.
func (app *application) deleteAgentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	err = app.models.Agents.Delete(id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAgentNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "agent successfully deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
