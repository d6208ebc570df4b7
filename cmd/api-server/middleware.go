package main

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/opencamara/camara-server/internal/ctxstore"
	"github.com/opencamara/camara-server/internal/database"
	"github.com/opencamara/camara-server/internal/model"
	"github.com/opencamara/camara-server/internal/response"
	"github.com/opencamara/camara-server/internal/token"
	"github.com/rs/cors"

	"github.com/tomasen/realip"
)

const (
	_traceIDKey  = ctxstore.Key("traceId")
	_authUserKey = ctxstore.Key("authUser")
)

func (app *application) traceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tid := genTraceID()
		ctx := ctxstore.With(r.Context(), _traceIDKey, tid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			err := recover()
			if err != nil {
				app.serverError(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

func (app *application) logAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mw := response.NewMetricsResponseWriter(w)
		next.ServeHTTP(mw, r)

		var (
			ip     = realip.FromRequest(r)
			method = r.Method
			url    = r.URL.String()
			proto  = r.Proto
			tid    = ctxstore.MustFrom[string](r.Context(), _traceIDKey)
		)

		userAttrs := slog.Group("user", "ip", ip)
		requestAttrs := slog.Group("request", "method", method, "url", url, "proto", proto, _traceIDKey.String(), tid)
		responseAttrs := slog.Group("response", "status", mw.StatusCode, "size", mw.BytesCount)

		app.serverLogger().Info("access", userAttrs, requestAttrs, responseAttrs)
	})
}

func (app *application) CORS(next http.Handler) http.Handler {
	return cors.AllowAll().Handler(next)
}

// authenticate verifies the bearer token and re-resolves its subject
// against the database, so tokens of deleted accounts stop working. The
// resolved user is stored in the request context for downstream
// handlers.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		raw, err := token.FromHeader(r.Header.Get("Authorization"))
		if err != nil {
			app.unauthorized(w, r, err)
			return
		}

		claims, err := app.tokens.Verify(raw)
		if err != nil {
			app.unauthorized(w, r, err)
			return
		}

		dao := database.NewUserDAO(app.requestLogger(r), app.db)

		user, err := dao.Get(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				app.unauthorized(w, r, token.ErrInvalidToken)
				return
			}

			app.serverError(w, r, err)
			return
		}

		ctx = ctxstore.With(ctx, _authUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin allows admin and super_admin; must run after
// authenticate.
func (app *application) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ctxstore.MustFrom[model.User](r.Context(), _authUserKey)
		if !user.Role.IsAdmin() {
			app.forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ctxstore.MustFrom[model.User](r.Context(), _authUserKey)
		if user.Role != model.RoleSuperAdmin {
			app.forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func genTraceID() string {
	id, _ := uuid.NewRandom()
	return id.String()
}
