package main

import (
	"errors"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/opencamara/camara-server/internal/ctxstore"
	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/request"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/token"
	"github.com/opencamara/camara-server/internal/validator"
)

// Handle Status
// @Summary Server Status
// @Description Check if the server is up and running
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type responseLogin struct {
	User         model.User `json:"user"`
	Token        string     `json:"token"`
	RefreshToken string     `json:"refresh_token"`
}

// Handle Login
// @Summary Login
// @Description Authenticate with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestLogin true "Credentials"
// @Success 200 {object} main.responseLogin
// @Failure 401 {object} any "Bad credentials"
// @Router /auth/login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	var input requestLogin
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	v.CheckField(validator.NotBlank(input.Email), "email", "cannot be blank")
	v.CheckField(validator.NotBlank(input.Password), "password", "cannot be blank")

	if v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	user, err := dao.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.unauthorized(w, r, errors.New("invalid credentials"))
			return
		}

		app.serverError(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		app.unauthorized(w, r, errors.New("invalid credentials"))
		return
	}

	accessToken, err := app.tokens.Issue(user)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	refreshToken, err := token.NewRefreshToken()
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	refreshDAO := database.NewRefreshTokenDAO(logger, app.db)
	expiresAt := time.Now().Add(app.config.jwt.refreshTTL)
	if err := refreshDAO.Insert(ctx, user.ID, refreshToken, expiresAt); err != nil {
		app.serverError(w, r, err)
		return
	}

	resp := responseLogin{
		User:         user,
		Token:        accessToken,
		RefreshToken: refreshToken,
	}
	if err := response.JSON(w, http.StatusOK, resp); err != nil {
		app.serverError(w, r, err)
	}
}

type requestRefresh struct {
	RefreshToken string `json:"refresh_token"`
}

// Handle Refresh
// @Summary Refresh access token
// @Description Exchange an opaque refresh token for a new access token.
// @Description The refresh token is not rotated; logout stays client-side.
// @Tags auth
// @Accept json
// @Produce json
// @Param input body main.requestRefresh true "Refresh token"
// @Success 200 {object} map[string]string
// @Failure 401 {object} any "Unknown or expired refresh token"
// @Router /auth/refresh [post]
func (app *application) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := app.requestLogger(r)

	var input requestRefresh
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	refreshDAO := database.NewRefreshTokenDAO(logger, app.db)

	refresh, err := refreshDAO.Get(ctx, input.RefreshToken)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.unauthorized(w, r, token.ErrInvalidToken)
			return
		}

		app.serverError(w, r, err)
		return
	}

	dao := database.NewUserDAO(logger, app.db)

	user, err := dao.Get(ctx, refresh.User)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.unauthorized(w, r, token.ErrInvalidToken)
			return
		}

		app.serverError(w, r, err)
		return
	}

	accessToken, err := app.tokens.Issue(user)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"token": accessToken}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Me
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} model.User
// @Router /auth/me [get]
func (app *application) handleMe(w http.ResponseWriter, r *http.Request) {
	user := ctxstore.MustFrom[model.User](r.Context(), _authUserKey)

	if err := response.JSON(w, http.StatusOK, response.JSONObject{"user": user}); err != nil {
		app.serverError(w, r, err)
	}
}
