package main

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/toolhub/toolhub/internal/config"
	"github.com/toolhub/toolhub/internal/handlers"
	mw "github.com/toolhub/toolhub/internal/middleware"
	"github.com/toolhub/toolhub/internal/repo"
	"github.com/toolhub/toolhub/internal/router"
)

// apiNamespace is the mount namespace for every catalog route.
const apiNamespace = "api"

// newRouter wires repositories, handlers, the route registry, and the
// middleware chain into the full API handler. The registry is built here, once,
// before the listener starts, and handed to the root resolver.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	userRepo := repo.NewUserRepo(database)
	tokenRepo := repo.NewTokenRepo(database)
	toolRepo := repo.NewToolRepo(database)
	authorRepo := repo.NewAuthorRepo(database)
	bookRepo := repo.NewBookRepo(database)
	auditRepo := repo.NewAuditRepo(database)

	authHandler := &handlers.AuthHandler{Users: userRepo, Tokens: tokenRepo, Audit: auditRepo}
	toolHandler := &handlers.ToolHandler{Repo: toolRepo, AuditRepo: auditRepo}
	authorHandler := &handlers.AuthorHandler{Repo: authorRepo, AuditRepo: auditRepo}
	bookHandler := &handlers.BookHandler{Repo: bookRepo, AuditRepo: auditRepo}
	userHandler := &handlers.UserHandler{Repo: userRepo, AuditRepo: auditRepo, BcryptCost: cfg.BcryptCost}
	auditHandler := &handlers.AuditHandler{Repo: auditRepo}

	requireToken := mw.TokenAuth(tokenRepo)
	protected := func(h http.HandlerFunc) http.Handler {
		return requireToken(h)
	}
	staffOnly := func(h http.HandlerFunc) http.Handler {
		return requireToken(mw.RequireStaff(h))
	}

	reg := router.NewRegistry(apiNamespace, "/api")
	mustRegister(reg.RegisterResource("tools", "tool", router.ResourceHandlers{
		List:     protected(toolHandler.ListTools),
		Create:   protected(toolHandler.CreateTool),
		Retrieve: protected(toolHandler.GetTool),
		Update:   protected(toolHandler.UpdateTool),
		Delete:   protected(toolHandler.DeleteTool),
	}))
	mustRegister(reg.RegisterResource("authors", "author", router.ResourceHandlers{
		List:     protected(authorHandler.ListAuthors),
		Create:   protected(authorHandler.CreateAuthor),
		Retrieve: protected(authorHandler.GetAuthor),
		Update:   protected(authorHandler.UpdateAuthor),
		Delete:   protected(authorHandler.DeleteAuthor),
	}))
	mustRegister(reg.RegisterResource("books", "book", router.ResourceHandlers{
		List:     protected(bookHandler.ListBooks),
		Create:   protected(bookHandler.CreateBook),
		Retrieve: protected(bookHandler.GetBook),
		Update:   protected(bookHandler.UpdateBook),
		Delete:   protected(bookHandler.DeleteBook),
	}))
	// Users are read-only through the API; provisioning and removal are staff operations.
	mustRegister(reg.RegisterResource("users", "user", router.ResourceHandlers{
		List:     protected(userHandler.ListUsers),
		Create:   staffOnly(userHandler.CreateUser),
		Retrieve: protected(userHandler.GetUser),
		Delete:   staffOnly(userHandler.DeleteUser),
	}))
	mustRegister(reg.RegisterEndpoint("auth", "auth/", mw.AuthRateLimiter().Middleware(authHandler)))
	mustRegister(reg.RegisterEndpoint("audit", "audit/", requireToken(mw.RequireStaff(auditHandler))))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(mw.RequestLog)
	r.Use(mw.Recoverer)
	r.Use(mw.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(mw.CORS(cfg.CORSAllowedOrigins))
	r.Use(mw.MaxBytes(0))
	r.Use(mw.Prometheus)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "ok")
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.JSONError(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprintln(w, "ok")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Get("/", router.Root(reg))
		reg.Mount(api)
	})

	return r
}

// mustRegister panics on a route registration error. Names and prefixes are
// static, so a collision here is a programming mistake caught at startup.
func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}
