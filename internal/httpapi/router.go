package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/metrics"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/session"
	"github.com/meerski/arakh/internal/snapshot"
	"github.com/meerski/arakh/internal/species"
)

// RouterConfig wires every registry the routed handlers need.
type RouterConfig struct {
	World          *region.World
	Engine         *engine.Engine
	SpeciesReg     *species.Registry
	CharacterReg   *character.Registry
	FamilyTreeReg  *character.FamilyTreeRegistry
	CardReg        *legacy.CardRegistry
	SnapshotRepo   snapshot.Repository
	TokenManager   *session.TokenManager
	AllowedOrigins []string
}

// NewRouter builds the full chi router: health/metrics endpoints are
// public, everything under /api requires a bearer token.
func NewRouter(cfg RouterConfig) http.Handler {
	worldHandler := NewWorldHandler(cfg.World, cfg.Engine)
	regionHandler := NewRegionHandler(cfg.World)
	speciesHandler := NewSpeciesHandler(cfg.SpeciesReg)
	characterHandler := NewCharacterHandler(cfg.CharacterReg)
	snapshotHandler := NewSnapshotHandler(cfg.World, cfg.SpeciesReg, cfg.CharacterReg, cfg.FamilyTreeReg, cfg.CardReg, cfg.SnapshotRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/metrics", metrics.Handler())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.TokenManager))

		r.Get("/world/status", worldHandler.Status)

		r.Get("/regions", regionHandler.List)
		r.Get("/regions/{id}", regionHandler.Get)

		r.Get("/species", speciesHandler.List)
		r.Get("/species/{id}", speciesHandler.Get)

		r.Get("/characters/{id}", characterHandler.Get)

		r.Get("/snapshots", snapshotHandler.List)
		r.Post("/snapshots", snapshotHandler.Create)
	})

	return r
}
