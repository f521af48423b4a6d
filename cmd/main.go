package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studytrack/internal/config"
	"studytrack/internal/handlers"
	"studytrack/internal/logger"
	"studytrack/internal/repository"
	"studytrack/internal/repository/db"
	"studytrack/internal/server"
	"studytrack/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       StudyTrack API
// @version                     1.0
// @description                 Per-user task tracking with JWT authentication.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.InfoLevel, logger.ConsoleFormat).Fatalw("error reading config", "err", err)
	}

	// init logger
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.UsesDefaultSecret() {
		log.Warnw("JWT_SECRET not set; using the built-in development secret")
	}

	// open DB
	conn, err := openDB(cfg, log)
	if err != nil {
		log.Fatalw("failed to init database", "driver", cfg.DB.Driver, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, cfg.AuthService())
	apiHandler := handlers.NewHandler(services, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, cfg.Port, server.WithCORS(apiHandler.InitRoutes(), cfg.CORS.AllowedOrigins), log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// openDB initializes the configured database and its schema.
func openDB(cfg config.Config, log *logger.Logger) (*sql.DB, error) {
	dbCfg := cfg.Database()
	if dbCfg.Driver == db.DriverSQLite {
		log.Infow("using sqlite database", "path", dbCfg.Path)
	} else {
		log.Infow("using postgres database", "host", dbCfg.Host, "port", dbCfg.Port, "name", dbCfg.Name)
	}
	return db.InitDB(context.Background(), dbCfg)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler http.Handler, log *logger.Logger) {
	go func() {
		log.Infow("http server listening", "port", port)
		if err := srv.Run(port, handler); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
