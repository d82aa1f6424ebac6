package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Defines and returns the application's route mappings
func (app *application) routes() http.Handler {
	router := chi.NewRouter()

	// Custom 404 and 405 handlers
	router.NotFound(app.notFoundResponse)
	router.MethodNotAllowed(app.methodNotAllowedResponse)

	router.Get("/healthcheck", app.healthcheckHandler)

	// Agents
	router.Get("/agent", app.listAgentsHandler)
	router.Post("/agent", app.createAgentHandler)
	router.Delete("/agent/{id}", app.deleteAgentHandler)

	// Categories
	router.Get("/categories", app.listCategoriesHandler)
	router.Post("/categories", app.createCategoryHandler)
	router.Delete("/categories/{id}", app.deleteCategoryHandler)

	// Properties; the favourites routes must be registered alongside the
	// id-parameterized ones, which chi resolves by static-segment priority.
	router.Get("/properties/favourites", app.listFavouritePropertiesHandler)
	router.Patch("/properties/favourites", app.setFavouritePropertyHandler)
	router.Get("/properties/{id}", app.showPropertyHandler)
	router.Delete("/properties/{id}", app.deletePropertyHandler)

	// Aggregates
	router.Get("/bank/count", app.bankCountHandler)

	// Credentials
	router.Post("/login", app.loginHandler)
	router.Post("/reset", app.resetPasswordHandler)

	// Reviews
	router.Get("/review", app.listReviewsHandler)
	router.Post("/review", app.createReviewHandler)

	// Return configured router with middleware
	return app.recoverPanic(app.enableCORS(app.rateLimit(app.logRequest(router))))
}
