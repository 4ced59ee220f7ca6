package main

import (
	"context"

	"github.com/cppla/folio/config"
	"github.com/cppla/folio/media"
	"github.com/cppla/folio/models"
	"github.com/cppla/folio/routes"
	"github.com/cppla/folio/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}
	defer func() { _ = utils.Logger.Sync() }()

	ctx := context.Background()

	db, err := config.InitDatabase(cfg, models.All()...)
	if err != nil {
		utils.Sugar.Fatalf("database init failed: %v", err)
	}

	rc := utils.NewRedis(ctx, cfg)
	if rc != nil {
		defer rc.Close()
	}

	store, err := media.New(ctx, cfg)
	if err != nil {
		// Uploads answer 503 until the media host is reachable again.
		utils.Sugar.Warnf("media storage disabled: %v", err)
	}

	r := routes.SetupRouter(cfg, routes.Deps{DB: db, Redis: rc, Media: store})

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(ctx, ":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
