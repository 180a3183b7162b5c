package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"productflow/internal/config"
	httpAPI "productflow/internal/http"
	"productflow/internal/http/controller"
	"productflow/internal/logger"
	"productflow/internal/metrics"
	"productflow/internal/repository/sql"
	"productflow/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	conf, err := config.LoadFromEnv()
	handleErr("loading config", err)

	logger.InitJSONLogger(conf.IsProduction())

	ctx := context.Background()
	manager, err := sql.NewManager(conf.Database)
	handleErr("creating connection manager", err)
	handleErr("connecting to database", manager.Open(ctx))
	handleErr("running migrations", manager.Migrate())

	productRepository := sql.NewProductRepository(manager.DB())
	productService := service.NewProductService(productRepository)

	ctr := controller.New()
	productCtr := controller.NewProductController(productService)

	if conf.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	server := httpAPI.InitRouter(conf, gin.New(), ctr, productCtr)

	httpServer := &http.Server{
		Addr:              ":" + conf.HTTPServer.Port,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			handleErr("listening to HTTP requests", err)
		}
	}()

	metrics.StartMetricsServer(conf)
	slog.Info("server started",
		slog.String("port", conf.HTTPServer.Port),
		slog.String("env", conf.Env),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	slog.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown failed", slog.Any("err", err))
	}
	if err := manager.Close(); err != nil {
		slog.Error("closing store connection failed", slog.Any("err", err))
	}
}

func handleErr(msg string, err error) {
	if err != nil {
		slog.Error("fatal error while "+msg, slog.Any("err", err))
		os.Exit(1)
	}
}
