package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"todo-platform/internal/config"
	"todo-platform/internal/database"
	"todo-platform/internal/domain"
	"todo-platform/internal/llm"
	"todo-platform/internal/repository"
	"todo-platform/internal/server"
	"todo-platform/internal/service"
)

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	}
}

func gracefulShutdown(apiServer *http.Server, dbService database.Service, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	if err := dbService.Close(); err != nil {
		log.Error().Err(err).Msg("close database connection pool")
	}

	done <- true
}

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	dbService, err := database.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	gormDB := dbService.GetDB()

	if err := gormDB.AutoMigrate(&domain.Category{}, &domain.TodoItem{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate database")
	}

	categoryRepo := repository.NewGormCategoryRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)

	categoryService := service.NewCategoryService(categoryRepo)
	todoService := service.NewTodoService(todoRepo)

	parser := llm.NewClient(cfg)
	if !parser.Configured() {
		log.Warn().Msg("no LLM API key configured; natural-language parsing is disabled")
	}

	apiServer := server.New(cfg, todoService, categoryService, parser).HTTPServer()

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, done)

	log.Info().Str("addr", apiServer.Addr).Msg("starting server")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server")
	}

	<-done
	log.Info().Msg("graceful shutdown complete")
}
