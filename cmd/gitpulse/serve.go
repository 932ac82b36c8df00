package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/gitpulse/gitpulse/internal/handlers"
	"github.com/gitpulse/gitpulse/internal/middleware"
	"github.com/gitpulse/gitpulse/internal/services"
	"github.com/gitpulse/gitpulse/pkg/config"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Analyze once, then serve the result tables over HTTP",
	Long: `Run one analysis pass and expose the computed tables as read-only
JSON endpoints. Nothing is persisted; the snapshot lives in memory for
the lifetime of the process.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("log", "", "path to the pipe-delimited commit log (required)")
	serveCmd.Flags().String("events", "", "path to a GitHub event archive (NDJSON)")
	serveCmd.Flags().String("rules", "", "path to the override ruleset (YAML)")
	serveCmd.Flags().String("port", "", "listen port (default from PORT env)")
	serveCmd.MarkFlagRequired("log")
}

func runServe(cmd *cobra.Command, args []string) error {
	logPath, _ := cmd.Flags().GetString("log")
	eventsPath, _ := cmd.Flags().GetString("events")
	rulesPath, _ := cmd.Flags().GetString("rules")
	port, _ := cmd.Flags().GetString("port")
	if port == "" {
		port = config.AppConfig.Server.Port
	}

	snapshot, err := runAnalysis(logPath, eventsPath, rulesPath)
	if err != nil {
		return err
	}

	gin.SetMode(config.AppConfig.Server.Mode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	setupRoutes(router, snapshot)

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  time.Duration(config.AppConfig.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(config.AppConfig.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Infof("Server starting on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

func setupRoutes(router *gin.Engine, snapshot *services.Snapshot) {
	reportHandler := handlers.NewReportHandler(snapshot)
	healthHandler := handlers.NewHealthHandler()

	api := router.Group("/api")
	{
		api.GET("/identities", reportHandler.Identities)
		api.GET("/stats/monthly", reportHandler.MonthlyStats)
		api.GET("/stats/hosts", reportHandler.HostStats)
		api.GET("/stats/drive-by", reportHandler.DriveBy)
		api.GET("/stats/summary", reportHandler.Summary)
	}

	router.GET("/health", healthHandler.HealthCheck)
}
