package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/opencamara/camara-server/internal/ctxstore"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/validator"
)

func (app *application) requestLogger(r *http.Request) *slog.Logger {
	tid, ok := ctxstore.From[string](r.Context(), _traceIDKey)
	if !ok {
		return app.baseLogger
	}
	return app.baseLogger.With(_traceIDKey.String(), tid)
}

func (app *application) reportServerError(r *http.Request, err error) {
	app.requestLogger(r).Error("server error",
		"error", err.Error(),
		slog.Group("request", "method", r.Method, "url", r.URL.String()),
	)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "The server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "The requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) unauthorized(w http.ResponseWriter, r *http.Request, err error) {
	headers := http.Header{"WWW-Authenticate": []string{"Bearer"}}
	app.errorMessage(w, r, http.StatusUnauthorized, err.Error(), headers)
}

func (app *application) forbidden(w http.ResponseWriter, r *http.Request) {
	message := "You do not have permission to perform this action"
	app.errorMessage(w, r, http.StatusForbidden, message, nil)
}

// domainError maps the model sentinel errors onto the API status codes:
// missing entities are 404, everything else the domain can refuse
// (duplicates, guarded transitions) is a 400 with the error message.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, model.ErrExists),
		errors.Is(err, model.ErrInvalidTransition),
		errors.Is(err, model.ErrInvalidState):
		app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		app.serverError(w, r, err)
	}
}
