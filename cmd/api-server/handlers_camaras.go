package main

import (
	"net/http"

	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/validator"
)

func (app *application) handleListCamaras(w http.ResponseWriter, r *http.Request) {
	dao := database.NewCamaraDAO(app.requestLogger(r), app.db)

	camaras, err := dao.Find(r.Context(), findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"camaras": camaras}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetCamara(w http.ResponseWriter, r *http.Request) {
	id, err := camaraIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewCamaraDAO(app.requestLogger(r), app.db)

	camara, err := dao.Get(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"camara": camara}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddCamara struct {
	Nome      string `json:"nome"`
	Municipio string `json:"municipio"`
	UF        string `json:"uf"`
}

func (app *application) handleAddCamara(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestAddCamara
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Nome), "nome", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Municipio), "municipio", "cannot be blank")
	v.CheckField(len(input.UF) == 2, "uf", "must be a two-letter state code")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewCamaraDAO(app.requestLogger(r), app.db)

	id, err := dao.Insert(ctx, database.InsertCamaraDTO{
		Nome:      input.Nome,
		Municipio: input.Municipio,
		UF:        input.UF,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	camara, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"camara": camara}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateCamara struct {
	Nome      *string `json:"nome"`
	Municipio *string `json:"municipio"`
	UF        *string `json:"uf"`
}

func (app *application) handleUpdateCamara(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := camaraIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateCamara
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Nome != nil {
		v.CheckField(validator.NotBlank(*input.Nome), "nome", "cannot be blank")
	}
	if input.UF != nil {
		v.CheckField(len(*input.UF) == 2, "uf", "must be a two-letter state code")
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewCamaraDAO(app.requestLogger(r), app.db)

	if _, err := dao.Get(ctx, id); err != nil {
		app.domainError(w, r, err)
		return
	}

	err = dao.Update(ctx, id, database.UpdateCamaraDTO{
		Nome:      input.Nome,
		Municipio: input.Municipio,
		UF:        input.UF,
	})
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	camara, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"camara": camara}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteCamara(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := camaraIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewCamaraDAO(app.requestLogger(r), app.db)

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

type requestPromoverPresidente struct {
	Vereador model.ID `json:"vereador_id"`
}

// Handle Promover Presidente
// @Summary Promote a member to chamber president
// @Description Demotes the chamber's current admin and promotes the
// @Description given member in a single transaction, keeping at most one
// @Description admin per chamber.
// @Tags camaras
// @Accept json
// @Produce json
// @Router /camaras/{camaraId}/presidente [post]
func (app *application) handlePromoverPresidente(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	camaraID, err := camaraIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestPromoverPresidente
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(input.Vereador != 0, "vereador_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	camaraDAO := database.NewCamaraDAO(app.requestLogger(r), app.db)
	if _, err := camaraDAO.Get(ctx, camaraID); err != nil {
		app.domainError(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	if err := dao.PromoteToPresident(ctx, camaraID, input.Vereador); err != nil {
		app.domainError(w, r, err)
		return
	}

	presidente, err := dao.Get(ctx, input.Vereador)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"presidente": presidente}); err != nil {
		app.serverError(w, r, err)
	}
}
