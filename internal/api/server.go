package api

import (
	"context"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/handler"
	"orderledger/internal/app/ledger"
	"orderledger/internal/app/middleware"
	"orderledger/internal/app/storage"
	"orderledger/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with the common middleware.
func NewRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, middleware.RequestIDHeader)
	corsCfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Content-Disposition"}
	r.Use(cors.New(corsCfg))

	return r
}

type minioConnector func(ctx context.Context, cfg config.MinIOConfig) (*storage.MinIOClient, error)

// exportUploader returns the MinIO client used for export uploads, or nil when
// uploads are off or MinIO is unreachable. The ledger store is reused when it
// already is a MinIO client.
func exportUploader(ctx context.Context, cfg *config.Config, store storage.BlobStore, connect minioConnector) handler.Uploader {
	if !cfg.Export.Upload {
		return nil
	}
	if client, ok := store.(*storage.MinIOClient); ok {
		return client
	}
	client, err := connect(ctx, cfg.Storage.MinIO)
	if err != nil {
		logrus.Errorf("export uploads disabled: %v", err)
		return nil
	}
	return client
}

func StartServer() {
	logrus.Info("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("config: %v", err)
	}
	cfg.SetupLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		logrus.Fatalf("storage: %v", err)
	}

	l, err := ledger.New(store, ledger.Config{
		Key:          cfg.Ledger.Key,
		NodeID:       cfg.Ledger.NodeID,
		WriteTimeout: cfg.Ledger.WriteTimeout,
	})
	if err != nil {
		logrus.Fatalf("ledger: %v", err)
	}
	// the list must be loaded before anything is served
	l.Restore(ctx)

	uploader := exportUploader(ctx, cfg, store, storage.NewMinIOClient)
	h := handler.NewHandler(l, cfg.Export, uploader)

	gin.SetMode(gin.ReleaseMode)
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	}

	app := pkg.NewApp(cfg, NewRouter(), h, l, closeStore)
	app.RunApp()

	logrus.Info("Server down")
}
