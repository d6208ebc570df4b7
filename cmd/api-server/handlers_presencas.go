package main

import (
	"net/http"

	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
)

type requestRegistrarPresenca struct {
	Presente bool `json:"presente"`
}

// Handle Registrar Presenca
// @Summary Register attendance for one member
// @Description Upsert: a repeated registration rewrites the existing row.
// @Tags presencas
// @Accept json
// @Produce json
// @Param input body main.requestRegistrarPresenca true "Attendance flag"
// @Success 200 {object} model.Presenca
// @Router /sessoes/{sessaoId}/vereadores/{vereadorId}/presenca [post]
func (app *application) handleRegistrarPresenca(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	sessaoID, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	vereadorID, err := vereadorIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestRegistrarPresenca
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	if _, err := sessaoDAO.Get(ctx, sessaoID); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewPresencaDAO(logger, app.db)

	presenca, err := dao.Upsert(ctx, sessaoID, vereadorID, input.Presente)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"presenca": presenca}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Todos Presentes
// @Summary Mark every chamber member present
// @Description Creates or rewrites one attendance row per vereador of
// @Description the session's chamber. Returns the number processed.
// @Tags presencas
// @Produce json
// @Router /sessoes/{sessaoId}/presencas/todos-presentes [post]
func (app *application) handleTodosPresentes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	sessaoID, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	sessao, err := sessaoDAO.Get(ctx, sessaoID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewPresencaDAO(logger, app.db)

	processados, err := dao.MarkAllPresent(ctx, sessaoID, sessao.Camara)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"processados": processados}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Todos Ausentes
// @Summary Mark registered members absent
// @Description Flips existing attendance rows to absent. Members without
// @Description a row are left without one: absence is the default.
// @Tags presencas
// @Produce json
// @Router /sessoes/{sessaoId}/presencas/todos-ausentes [post]
func (app *application) handleTodosAusentes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	sessaoID, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	if _, err := sessaoDAO.Get(ctx, sessaoID); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewPresencaDAO(logger, app.db)

	processados, err := dao.MarkAllAbsent(ctx, sessaoID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"processados": processados}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle List Presencas
// @Summary Attendance list and counts for a session
// @Tags presencas
// @Produce json
// @Router /sessoes/{sessaoId}/presencas [get]
func (app *application) handleListPresencas(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	sessaoID, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	if _, err := sessaoDAO.Get(ctx, sessaoID); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewPresencaDAO(logger, app.db)

	presencas, err := dao.FindBySessao(ctx, sessaoID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	contagem, err := dao.Count(ctx, sessaoID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := response.JSONObject{
		"presencas": presencas,
		"contagem":  contagem,
	}
	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}
