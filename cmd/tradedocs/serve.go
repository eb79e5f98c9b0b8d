package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tradedocs/pdfgen/internal/config"
	"github.com/tradedocs/pdfgen/internal/renderserver"
	"github.com/tradedocs/pdfgen/internal/renderserver/store"
	"github.com/tradedocs/pdfgen/pkg/logger_i"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the bundled development rendering service",
	RunE:  runServe,
}

var serveListenAddr string

func init() {
	serveCommand.Flags().StringVar(&serveListenAddr, "listen-addr", "", "Listen address (defaults to TRADEDOCS_LISTEN_ADDR)")
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := logger_i.NewLogger("serve")

	listenAddr := serveListenAddr
	if listenAddr == "" {
		listenAddr = config.ListenAddr()
	}

	serviceCtx, closeServices := context.WithCancel(context.Background())
	defer closeServices()

	var jobs store.JobStore
	var artifacts store.ArtifactStore
	if redisStore := store.GetRedisStore(serviceCtx); redisStore != nil {
		jobs, artifacts = redisStore, redisStore
	} else {
		logger.Warn("Redis is offline, falling back to the in-memory store")
		memStore := store.NewInMemoryStore()
		jobs, artifacts = memStore, memStore
	}

	svc := renderserver.NewService(jobs, artifacts)

	stopWorkers := make(chan bool)
	var workerGroup sync.WaitGroup
	pool := renderserver.NewPool(svc, stopWorkers, &workerGroup)
	pool.Start()

	handlers := renderserver.NewHandlers(svc)
	middleware := renderserver.NewMiddleware(config.AuthToken())
	server := renderserver.NewServer(listenAddr, renderserver.NewRouter(handlers, middleware))

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	go server.HandleShutdown(renderserver.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkers,
		Group:            &workerGroup,
		CloseServices:    closeServices,
	})
	go server.ListenAndServe()

	<-stopExecution
	logger.Info("Render service stopped")
	return nil
}
