package main

import (
	"context"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/meerski/arakh/internal/character"
	"github.com/meerski/arakh/internal/config"
	"github.com/meerski/arakh/internal/diplomacy"
	"github.com/meerski/arakh/internal/ecosystem"
	"github.com/meerski/arakh/internal/engine"
	"github.com/meerski/arakh/internal/espionage"
	"github.com/meerski/arakh/internal/httpapi"
	"github.com/meerski/arakh/internal/intel"
	"github.com/meerski/arakh/internal/legacy"
	"github.com/meerski/arakh/internal/region"
	"github.com/meerski/arakh/internal/seed"
	"github.com/meerski/arakh/internal/session"
	"github.com/meerski/arakh/internal/snapshot"
	"github.com/meerski/arakh/internal/species"
	"github.com/meerski/arakh/internal/taxonomy"
	"github.com/meerski/arakh/internal/trust"
	"github.com/meerski/arakh/internal/wsgateway"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("Starting Arakh World Server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: 0})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis; session mirroring disabled")
		redisClient = nil
	}

	var snapshotRepo snapshot.Repository
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to PostgreSQL; falling back to filesystem snapshots")
		} else if err := pool.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to ping PostgreSQL; falling back to filesystem snapshots")
			pool.Close()
		} else {
			defer pool.Close()
			snapshotRepo = snapshot.NewPostgresRepository(pool)
			log.Info().Msg("Using PostgreSQL snapshot repository")
		}
	}
	if snapshotRepo == nil {
		fileRepo, err := snapshot.NewFileRepository(cfg.SnapshotDir)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open snapshot directory")
		}
		snapshotRepo = fileRepo
		log.Info().Str("dir", cfg.SnapshotDir).Msg("Using filesystem snapshot repository")
	}

	world := region.CreateWorld("arakh", time.Now().Unix())
	speciesReg := species.NewRegistry()
	taxReg := taxonomy.NewRegistry()
	charReg := character.NewRegistry()
	treeReg := character.NewFamilyTreeRegistry()
	foodWeb := ecosystem.NewFoodWeb()
	intelReg := intel.NewRegistry()
	trustLedger := trust.NewLedger()
	espionageReg := espionage.NewRegistry()
	heartland := espionage.NewHeartlandTracker()
	diplomacyReg := diplomacy.NewRegistry()
	cardReg := legacy.NewCardRegistry()
	mainCharacters := legacy.NewMainCharacterManager(cardReg)

	rng := rand.New(rand.NewSource(cfg.WorldSeed))

	restored, err := snapshotRepo.Latest(ctx)
	switch {
	case err == nil:
		log.Info().Uint64("tick", restored.Tick).Msg("Restoring world from latest checkpoint")
		snapshot.Restore(restored, world, speciesReg, charReg, treeReg, cardReg)
		if err := seed.RegisterTaxonomy(taxReg); err != nil {
			log.Fatal().Err(err).Msg("Failed to reload seed taxonomy")
		}
	default:
		log.Info().Msg("No checkpoint found; seeding a fresh world")
		if _, err := seed.Seed(rng, taxReg, speciesReg, world); err != nil {
			log.Fatal().Err(err).Msg("Failed to seed world content")
		}
	}

	sessionMgr := session.NewManager(redisClient)
	tokenMgr := session.NewTokenManager(cfg.JWTSecret)

	hooks := wsgateway.BuildHooks(sessionMgr)
	hooks.Checkpoint = func(tick uint64) {
		doc := snapshot.Serialize(world.Name, world, speciesReg, charReg, treeReg, cardReg, time.Now().UTC())
		go func() {
			if _, err := snapshotRepo.Save(ctx, doc, ""); err != nil {
				log.Error().Err(err).Uint64("tick", tick).Msg("Failed to write checkpoint")
			}
		}()
	}

	eng := engine.New(engine.Config{
		World:              world,
		Species:            speciesReg,
		Characters:         charReg,
		FamilyTrees:        treeReg,
		FoodWeb:            foodWeb,
		Intel:              intelReg,
		Trust:              trustLedger,
		Espionage:          espionageReg,
		Heartland:          heartland,
		Diplomacy:          diplomacyReg,
		Cards:              cardReg,
		MainCharacters:     mainCharacters,
		RNG:                rng,
		TickInterval:       cfg.TickInterval,
		SnapshotEveryTicks: cfg.SnapshotEveryTicks,
		Hooks:              hooks,
	})

	retention := snapshot.NewRetentionSweeper(snapshotRepo, cfg.RetentionWindowTicks)
	if err := retention.Start(ctx, "@every 1h"); err != nil {
		log.Warn().Err(err).Msg("Failed to start snapshot retention sweeper")
	}
	defer retention.Stop()

	if err := eng.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start engine")
	}
	log.Info().Msg("Engine tick loop running")

	wsHandler := wsgateway.NewHandler(tokenMgr, sessionMgr, eng)

	router := httpapi.NewRouter(httpapi.RouterConfig{
		World:         world,
		Engine:        eng,
		SpeciesReg:    speciesReg,
		CharacterReg:  charReg,
		FamilyTreeReg: treeReg,
		CardReg:       cardReg,
		SnapshotRepo:  snapshotRepo,
		TokenManager:  tokenMgr,
	})

	mux := http.NewServeMux()
	mux.Handle("/", router)
	mux.HandleFunc("/ws", wsHandler.ServeHTTP)

	server := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		<-sigint

		log.Info().Msg("Shutting down world server...")
		eng.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown error")
		}
	}()

	log.Info().Str("addr", server.Addr).Msg("World server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server error")
	}

	log.Info().Msg("World server stopped")
}
