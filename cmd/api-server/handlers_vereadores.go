package main

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/validator"
)

func (app *application) handleListVereadores(w http.ResponseWriter, r *http.Request) {
	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	filter := database.FindUserFilter{
		Camara:  optionalIDQueryParams(r, "camara_id"),
		Partido: optionalStringQueryParams(r, "partido"),
	}

	// The chamber president keeps their council seat with role=admin, so
	// the role filter is opt-in rather than pinned to vereador.
	if role := optionalStringQueryParams(r, "role"); role != nil {
		rr := model.Role(*role)
		filter.Role = &rr
	}

	vereadores, err := dao.Find(r.Context(), filter, findOptionsFromRequest(r))
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"vereadores": vereadores}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleGetVereador(w http.ResponseWriter, r *http.Request) {
	id, err := vereadorIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	vereador, err := dao.Get(r.Context(), id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"vereador": vereador}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddVereador struct {
	Nome     string   `json:"nome"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Partido  string   `json:"partido"`
	Cargo    string   `json:"cargo"`
	Foto     *string  `json:"foto"`
	Camara   model.ID `json:"camara_id"`
}

// Handle Add Vereador
// @Summary Add council member
// @Tags vereadores
// @Accept json
// @Produce json
// @Param input body main.requestAddVereador true "Member data"
// @Success 201 {object} model.User
// @Failure 400 {object} any "Duplicate email"
// @Router /vereadores [post]
func (app *application) handleAddVereador(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input requestAddVereador
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	validateVereadorNome(&v, input.Nome)
	validateEmail(&v, input.Email)
	validatePassword(&v, input.Password)
	v.CheckField(input.Camara != 0, "camara_id", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	dto := database.InsertUserDTO{
		Nome:         input.Nome,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         model.RoleVereador,
		Partido:      input.Partido,
		Cargo:        input.Cargo,
		Foto:         input.Foto,
		Camara:       input.Camara,
	}

	// Creating a member whose office is Presidente runs the insert and the
	// promotion in one transaction, keeping the single-office invariant.
	var id model.ID
	if input.Cargo == model.CargoPresidente {
		id, err = dao.InsertPresident(ctx, dto)
	} else {
		id, err = dao.Insert(ctx, dto)
	}
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	vereador, err := dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, response.JSONObject{"vereador": vereador}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestUpdateVereador struct {
	Nome    *string `json:"nome"`
	Email   *string `json:"email"`
	Partido *string `json:"partido"`
	Cargo   *string `json:"cargo"`
	Foto    *string `json:"foto"`
}

func (app *application) handleUpdateVereador(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := vereadorIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	var input requestUpdateVereador
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if input.Nome != nil {
		validateVereadorNome(&v, *input.Nome)
	}
	if input.Email != nil {
		validateEmail(&v, *input.Email)
	}

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

	vereador, err := dao.Get(ctx, id)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	// Setting the office to Presidente carries the admin role with it. The
	// promotion transaction is the only writer of that cargo value, so the
	// plain update never leaves a second office holder behind.
	cargo := input.Cargo
	promote := cargo != nil && *cargo == model.CargoPresidente
	if promote {
		cargo = nil
	}

	err = dao.Update(ctx, id, database.UpdateUserDTO{
		Nome:    input.Nome,
		Email:   input.Email,
		Partido: input.Partido,
		Cargo:   cargo,
		Foto:    input.Foto,
	})
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if promote {
		if err := dao.PromoteToPresident(ctx, vereador.Camara, id); err != nil {
			app.serverError(w, r, err)
			return
		}
	}

	vereador, err = dao.Get(ctx, id)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"vereador": vereador}); err != nil {
		app.serverError(w, r, err)
	}
}

func (app *application) handleDeleteVereador(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := vereadorIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	dao := database.NewUserDAO(app.requestLogger(r), app.db)

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
