package main

import (
	"net/http"
	"time"

	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/validator"
)

func (app *application) handleListSessoes(w http.ResponseWriter, r *http.Request) {
	filter := database.FindSessaoFilter{
		Camara: optionalIDQueryParams(r, "camara_id"),
	}

	if status := optionalStringQueryParams(r, "status"); status != nil {
		s := model.SessaoStatus(*status)
		filter.Status = &s
	}

	de, ok, err := timeQueryParams(r, "de")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	if ok {
		filter.De = &de
	}

	ate, ok, err := timeQueryParams(r, "ate")
	if err != nil {
		app.badRequest(w, r, err)
		return
	}
	if ok {
		filter.Ate = &ate
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	sessoes, err := dao.Find(r.Context(), filter, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"sessoes": sessoes}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetSessao(w http.ResponseWriter, r *http.Request) {
	id, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	sessao, err := dao.Get(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"sessao": sessao}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddSessao struct {
	Titulo    string           `json:"titulo"`
	Descricao string           `json:"descricao"`
	Data      time.Time        `json:"data_sessao"`
	Tipo      model.SessaoTipo `json:"tipo"`
	Camara    model.ID         `json:"camara_id"`
}

func (app *application) handleAddSessao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestAddSessao
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateSessaoTitulo(&v, input.Titulo)
	validateSessaoTipo(&v, input.Tipo)
	v.CheckField(!input.Data.IsZero(), "data_sessao", "cannot be blank")
	v.CheckField(input.Camara != 0, "camara_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	id, err := dao.Insert(ctx, database.InsertSessaoDTO{
		Titulo:    input.Titulo,
		Descricao: input.Descricao,
		Data:      input.Data,
		Tipo:      input.Tipo,
		Camara:    input.Camara,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	sessao, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"sessao": sessao}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateSessao struct {
	Titulo    *string           `json:"titulo"`
	Descricao *string           `json:"descricao"`
	Data      *time.Time        `json:"data_sessao"`
	Tipo      *model.SessaoTipo `json:"tipo"`
}

func (app *application) handleUpdateSessao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateSessao
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Titulo != nil {
		validateSessaoTitulo(&v, *input.Titulo)
	}
	if input.Tipo != nil {
		validateSessaoTipo(&v, *input.Tipo)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	if _, err := dao.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	err = dao.Update(ctx, id, database.UpdateSessaoDTO{
		Titulo:    input.Titulo,
		Descricao: input.Descricao,
		Data:      input.Data,
		Tipo:      input.Tipo,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	sessao, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"sessao": sessao}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteSessao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	if _, err := dao.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := dao.Delete(ctx, id); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Handle Iniciar Sessao
// @Summary Start a scheduled session
// @Tags sessoes
// @Produce json
// @Success 200 {object} model.Sessao
// @Failure 400 {object} any "Session is not agendada"
// @Router /sessoes/{sessaoId}/iniciar [post]
func (app *application) handleIniciarSessao(w http.ResponseWriter, r *http.Request) {
	app.transitionSessao(w, r, model.SessaoEmAndamento, model.Sessao.CanIniciar)
}

func (app *application) handleFinalizarSessao(w http.ResponseWriter, r *http.Request) {
	app.transitionSessao(w, r, model.SessaoFinalizada, model.Sessao.CanFinalizar)
}

func (app *application) handleCancelarSessao(w http.ResponseWriter, r *http.Request) {
	app.transitionSessao(w, r, model.SessaoCancelada, model.Sessao.CanCancelar)
}

// transitionSessao runs one state-machine step: load, check the
// predicate, then update guarded by the observed status so a concurrent
// transition cannot be overwritten.
func (app *application) transitionSessao(w http.ResponseWriter, r *http.Request, to model.SessaoStatus, can func(model.Sessao) bool) {
	ctx := r.Context()

	id, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewSessaoDAO(app.requestLogger(r), app.db)

	sessao, err := dao.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if !can(sessao) {
		app.domainError(w, r, model.NewError("sessao", model.ErrInvalidTransition))
		return
	}

	if err := dao.UpdateStatus(ctx, id, sessao.Status, to); err != nil {
		app.domainError(w, r, err)
		return
	}

	sessao, err = dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"sessao": sessao}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Painel
// @Summary Voting panel data
// @Description One JSON document for the public voting panel poller:
// @Description the session, attendance counts and, when a ballot is
// @Description open, the project under vote with its live tally.
// @Tags sessoes
// @Produce json
// @Router /sessoes/{sessaoId}/painel [get]
func (app *application) handlePainel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	id, err := sessaoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	sessao, err := sessaoDAO.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	presencaDAO := database.NewPresencaDAO(logger, app.db)

	presencas, err := presencaDAO.Count(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	painel := response.JSONObject{
		"sessao":    sessao,
		"presencas": presencas,
	}

	status := model.ProjetoEmVotacao
	projetoDAO := database.NewProjetoDAO(logger, app.db)

	emVotacao, err := projetoDAO.Find(ctx, database.FindProjetoFilter{
		Sessao: &id,
		Status: &status,
	}, database.FindOptions{Limit: 1})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if len(emVotacao) > 0 {
		votoDAO := database.NewVotoDAO(logger, app.db)

		contagem, err := votoDAO.Tally(ctx, emVotacao[0].ID)
		if err != nil {
			app.serverError(w, r, err)
			return
		}

		painel["projeto_em_votacao"] = emVotacao[0]
		painel["contagem"] = contagem
	}

	if err := response.JSON(w, http.StatusOK, painel); err != nil {
		app.serverError(w, r, err)
	}
}
