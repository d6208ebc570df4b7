package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Get("/api/status", app.handleStatus)

	mux.Post("/api/auth/login", app.handleLogin)
	mux.Post("/api/auth/refresh", app.handleRefresh)

	// Public reads: the voting panel page polls these without a token.
	mux.Get("/api/camaras", app.handleListCamaras)
	mux.Get("/api/camaras/{camaraId}", app.handleGetCamara)
	mux.Get("/api/vereadores", app.handleListVereadores)
	mux.Get("/api/vereadores/{vereadorId}", app.handleGetVereador)
	mux.Get("/api/sessoes", app.handleListSessoes)
	mux.Get("/api/sessoes/{sessaoId}", app.handleGetSessao)
	mux.Get("/api/sessoes/{sessaoId}/painel", app.handlePainel)
	mux.Get("/api/sessoes/{sessaoId}/presencas", app.handleListPresencas)
	mux.Get("/api/projetos", app.handleListProjetos)
	mux.Get("/api/projetos/{projetoId}", app.handleGetProjeto)
	mux.Get("/api/projetos/{projetoId}/votos", app.handleListVotos)
	mux.Get("/api/projetos/{projetoId}/contagem-votos", app.handleContagemVotos)

	mux.Group(func(mux chi.Router) {
		mux.Use(app.authenticate)

		mux.Get("/api/auth/me", app.handleMe)

		// Any authenticated chamber member may vote; identity comes
		// from the token, never from the body.
		mux.Post("/api/projetos/{projetoId}/votar", app.handleVotar)

		mux.Group(func(mux chi.Router) {
			mux.Use(app.requireAdmin)

			mux.Post("/api/vereadores", app.handleAddVereador)
			mux.Put("/api/vereadores/{vereadorId}", app.handleUpdateVereador)
			mux.Delete("/api/vereadores/{vereadorId}", app.handleDeleteVereador)
			mux.Post("/api/camaras/{camaraId}/presidente", app.handlePromoverPresidente)

			mux.Post("/api/sessoes", app.handleAddSessao)
			mux.Put("/api/sessoes/{sessaoId}", app.handleUpdateSessao)
			mux.Delete("/api/sessoes/{sessaoId}", app.handleDeleteSessao)
			mux.Post("/api/sessoes/{sessaoId}/iniciar", app.handleIniciarSessao)
			mux.Post("/api/sessoes/{sessaoId}/finalizar", app.handleFinalizarSessao)
			mux.Post("/api/sessoes/{sessaoId}/cancelar", app.handleCancelarSessao)

			mux.Post("/api/sessoes/{sessaoId}/vereadores/{vereadorId}/presenca", app.handleRegistrarPresenca)
			mux.Post("/api/sessoes/{sessaoId}/presencas/todos-presentes", app.handleTodosPresentes)
			mux.Post("/api/sessoes/{sessaoId}/presencas/todos-ausentes", app.handleTodosAusentes)

			mux.Post("/api/projetos", app.handleAddProjeto)
			mux.Put("/api/projetos/{projetoId}", app.handleUpdateProjeto)
			mux.Post("/api/projetos/{projetoId}/iniciar-votacao", app.handleIniciarVotacao)
			mux.Post("/api/projetos/{projetoId}/finalizar-votacao", app.handleFinalizarVotacao)
		})

		mux.Group(func(mux chi.Router) {
			mux.Use(app.requireSuperAdmin)

			mux.Post("/api/camaras", app.handleAddCamara)
			mux.Put("/api/camaras/{camaraId}", app.handleUpdateCamara)
			mux.Delete("/api/camaras/{camaraId}", app.handleDeleteCamara)

			// Escape hatches around the project state machine.
			mux.Put("/api/projetos/{projetoId}/forcar", app.handleForceUpdateProjeto)
			mux.Delete("/api/projetos/{projetoId}", app.handleDeleteProjeto)
		})
	})

	app.baseLogger.Debug("routes configured", "routes", chiRoutesToStrings(mux.Routes()))

	return mux
}

func chiRoutesToStrings(routes []chi.Route) []string {
	parsedRoutes := make([]string, 0, len(routes))
	for _, route := range routes {
		parsedRoutes = append(parsedRoutes, route.Pattern)
	}
	return parsedRoutes
}
