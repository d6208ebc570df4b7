package main

import (
	"net/http"
	"time"

	"github.com/opencamara/camara-server/internal/ctxstore"
	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/validator"
)

func (app *application) handleListProjetos(w http.ResponseWriter, r *http.Request) {
	filter := database.FindProjetoFilter{
		Sessao: optionalIDQueryParams(r, "sessao_id"),
		Camara: optionalIDQueryParams(r, "camara_id"),
	}

	if status := optionalStringQueryParams(r, "status"); status != nil {
		s := model.ProjetoStatus(*status)
		filter.Status = &s
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	projetos, err := dao.Find(r.Context(), filter, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projetos": projetos}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetProjeto(w http.ResponseWriter, r *http.Request) {
	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	projeto, err := dao.Get(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projeto": projeto}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddProjeto struct {
	Titulo           string     `json:"titulo"`
	Descricao        string     `json:"descricao"`
	Autor            string     `json:"autor"`
	DataApresentacao *time.Time `json:"data_apresentacao"`
	Sessao           model.ID   `json:"sessao_id"`
	Camara           model.ID   `json:"camara_id"`
}

// Handle Add Projeto
// @Summary Add legislative project
// @Description Creates a project attached to a session, status
// @Description apresentado; presentation date defaults to now.
// @Tags projetos
// @Accept json
// @Produce json
// @Param input body main.requestAddProjeto true "Project data"
// @Success 201 {object} model.Projeto
// @Router /projetos [post]
func (app *application) handleAddProjeto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestAddProjeto
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateProjetoTitulo(&v, input.Titulo)
	v.CheckField(validator.NotBlank(input.Descricao), "descricao", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Autor), "autor", "cannot be blank")
	v.CheckField(input.Sessao != 0, "sessao_id", "cannot be blank")
	v.CheckField(input.Camara != 0, "camara_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dataApresentacao := time.Now()
	if input.DataApresentacao != nil {
		dataApresentacao = *input.DataApresentacao
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	id, err := dao.Insert(ctx, database.InsertProjetoDTO{
		Titulo:           input.Titulo,
		Descricao:        input.Descricao,
		Autor:            input.Autor,
		DataApresentacao: dataApresentacao,
		Sessao:           input.Sessao,
		Camara:           input.Camara,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	projeto, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"projeto": projeto}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateProjeto struct {
	Titulo    *string `json:"titulo"`
	Descricao *string `json:"descricao"`
	Autor     *string `json:"autor"`
}

// Handle Update Projeto
// @Summary Update project (guarded)
// @Description The normal edit path: only projects still apresentado may
// @Description be edited, and status is untouchable. See /forcar for the
// @Description unconditional override.
// @Tags projetos
// @Router /projetos/{projetoId} [put]
func (app *application) handleUpdateProjeto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateProjeto
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Titulo != nil {
		validateProjetoTitulo(&v, *input.Titulo)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	projeto, err := dao.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if projeto.Status != model.ProjetoApresentado {
		app.domainError(w, r, model.NewError("projeto", model.ErrInvalidState))
		return
	}

	err = dao.Update(ctx, id, database.UpdateProjetoDTO{
		Titulo:    input.Titulo,
		Descricao: input.Descricao,
		Autor:     input.Autor,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	projeto, err = dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projeto": projeto}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestForceUpdateProjeto struct {
	Titulo    *string              `json:"titulo"`
	Descricao *string              `json:"descricao"`
	Autor     *string              `json:"autor"`
	Status    *model.ProjetoStatus `json:"status"`
}

// Handle Force Update Projeto
// @Summary Update project (override)
// @Description Unconditional patch that may rewrite status, bypassing
// @Description the state machine. Restricted to super_admin.
// @Tags projetos
// @Router /projetos/{projetoId}/forcar [put]
func (app *application) handleForceUpdateProjeto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestForceUpdateProjeto
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Titulo != nil {
		validateProjetoTitulo(&v, *input.Titulo)
	}
	if input.Status != nil {
		validateProjetoStatus(&v, *input.Status)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	if _, err := dao.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	err = dao.ForceUpdate(ctx, id, database.ForceUpdateProjetoDTO{
		Titulo:    input.Titulo,
		Descricao: input.Descricao,
		Autor:     input.Autor,
		Status:    input.Status,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	projeto, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projeto": projeto}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteProjeto(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

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

// Handle Iniciar Votacao
// @Summary Open the ballot
// @Description Moves an apresentado project to em_votacao. Requires the
// @Description owning session to be em_andamento.
// @Tags projetos
// @Produce json
// @Router /projetos/{projetoId}/iniciar-votacao [post]
func (app *application) handleIniciarVotacao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjetoDAO(logger, app.db)

	projeto, err := dao.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if !projeto.CanIniciarVotacao() {
		app.domainError(w, r, model.NewError("projeto", model.ErrInvalidState))
		return
	}

	sessaoDAO := database.NewSessaoDAO(logger, app.db)

	sessao, err := sessaoDAO.Get(ctx, projeto.Sessao)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if sessao.Status != model.SessaoEmAndamento {
		app.domainError(w, r, model.NewError("sessao", model.ErrInvalidState))
		return
	}

	if err := dao.UpdateStatus(ctx, id, model.ProjetoApresentado, model.ProjetoEmVotacao); err != nil {
		app.domainError(w, r, err)
		return
	}

	projeto, err = dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"projeto": projeto}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Finalizar Votacao
// @Summary Close the ballot
// @Description Tallies the votes and persists the terminal status in one
// @Description transaction. Approved on sim > nao; ties reject.
// @Tags projetos
// @Produce json
// @Router /projetos/{projetoId}/finalizar-votacao [post]
func (app *application) handleFinalizarVotacao(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewProjetoDAO(app.requestLogger(r), app.db)

	projeto, contagem, err := dao.FinalizarVotacao(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	resp := response.JSONObject{
		"projeto": projeto,
		"resultado": response.JSONObject{
			"status":   projeto.Status,
			"contagem": contagem,
		},
	}
	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

type requestVotar struct {
	Tipo model.TipoVoto `json:"tipo_voto"`
}

// Handle Votar
// @Summary Cast a vote
// @Description Records the caller's vote on a project under ballot. One
// @Description vote per member per project; a rerun is refused.
// @Tags votos
// @Accept json
// @Produce json
// @Param input body main.requestVotar true "Vote"
// @Success 201 {object} model.Voto
// @Failure 400 {object} any "Invalid value, closed ballot or duplicate vote"
// @Router /projetos/{projetoId}/votar [post]
func (app *application) handleVotar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	user := ctxstore.MustFrom[model.User](ctx, _authUserKey)

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestVotar
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateTipoVoto(&v, input.Tipo)

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	projetoDAO := database.NewProjetoDAO(logger, app.db)

	projeto, err := projetoDAO.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if !projeto.CanReceberVoto() {
		app.domainError(w, r, model.NewError("projeto", model.ErrInvalidState))
		return
	}

	votoDAO := database.NewVotoDAO(logger, app.db)

	votoID, err := votoDAO.Insert(ctx, database.InsertVotoDTO{
		Projeto:  id,
		Vereador: user.ID,
		Tipo:     input.Tipo,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	voto, err := votoDAO.Get(ctx, votoID)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"voto": voto}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleListVotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	projetoDAO := database.NewProjetoDAO(logger, app.db)

	if _, err := projetoDAO.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewVotoDAO(logger, app.db)

	votos, err := dao.FindByProjeto(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"votos": votos}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Contagem Votos
// @Summary Live tally
// @Description Aggregate counts for a project's ballot; zeros for a
// @Description project with no votes.
// @Tags votos
// @Produce json
// @Router /projetos/{projetoId}/contagem-votos [get]
func (app *application) handleContagemVotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	id, err := projetoIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	projetoDAO := database.NewProjetoDAO(logger, app.db)

	if _, err := projetoDAO.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewVotoDAO(logger, app.db)

	contagem, err := dao.Tally(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"contagem": contagem}); err != nil {
		app.serverError(w, r, err)
	}
}
