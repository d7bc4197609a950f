package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polyglottos/dataport/internal/config"
	http_controllers "github.com/polyglottos/dataport/internal/http"
	"github.com/polyglottos/dataport/internal/importer"
	"github.com/polyglottos/dataport/internal/scheduler"
	"github.com/polyglottos/dataport/internal/storage"
	"github.com/polyglottos/dataport/internal/storage/cloud"
	"github.com/polyglottos/dataport/internal/storage/factory"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the sync scheduler)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Dataport v%s", version)

	storageCfg := cfg.StorageConfig()
	store, err := factory.NewService(storageCfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	importService := importer.NewService(store)

	// The migration target is always the cloud backend; when cloud is
	// already the primary there is nowhere to migrate to.
	var migrateTarget storage.Service
	if storageCfg.Type != storage.TypeCloud {
		cloudCfg := storageCfg
		cloudCfg.Type = storage.TypeCloud
		migrateTarget = cloud.New(cloudCfg)
	}

	syncScheduler := scheduler.NewCloudSyncScheduler(importService, migrateTarget, cfg.CloudSync.Schedule, cfg.CloudSync.Enabled)
	if err := syncScheduler.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start cloud sync scheduler: %v", err)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Storage:       store,
		ImportService: importService,
		MigrateTarget: migrateTarget,
		Version:       version,
	})

	Serve(router, cfg, func(ctx context.Context) {
		syncScheduler.Stop()
	})
}
