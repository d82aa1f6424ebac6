package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/estately/api/internal/data"
	"github.com/estately/api/internal/validator"
	"github.com/pascaldekloe/jwt"
)

// loginHandler checks an agent's credentials and issues a signed token.
// An unknown email is reported as not found, a wrong password as
// unauthorized.
func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateEmail(v, input.Email)
	data.ValidatePasswordPlaintext(v, input.Password)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	agent, err := app.models.Agents.GetByEmail(input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrAgentNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	match, err := agent.Password.Matches(input.Password)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}
	if !match {
		app.invalidCredentialsResponse(w, r)
		return
	}

	var claims jwt.Claims
	claims.Subject = strconv.FormatInt(agent.ID, 10)
	claims.Issuer = "estately.api"
	claims.Issued = jwt.NewNumericTime(time.Now())
	claims.Expires = jwt.NewNumericTime(time.Now().Add(24 * time.Hour))
	claims.Set = map[string]interface{}{
		"role":  agent.Role,
		"email": agent.Email,
	}

	token, err := claims.HMACSign(jwt.HS256, []byte(app.config.Auth.Secret))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"agent": agent,
		"token": string(token),
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// resetPasswordHandler looks up a customer by email and sends reset
// instructions in the background.
func (app *application) resetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	data.ValidateEmail(v, input.Email)
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	customer, err := app.models.Customers.GetByEmail(input.Email)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrCustomerNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	app.background(func() {
		payload := map[string]interface{}{
			"name":  customer.Name,
			"email": customer.Email,
		}
		if err := app.mailer.Send(customer.Email, "password_reset.tmpl", payload); err != nil {
			app.logger.PrintError(err, nil)
		}
	})

	err = app.writeJSON(w, http.StatusOK, envelope{
		"message": "reset instructions have been sent to the email address",
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
