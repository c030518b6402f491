package app

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/server"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	fx      *fx.App
	config  *config.Config
	logger  *logging.Service
	db      *gorm.DB
	server  *server.Server
	cleaner *Cleaner
}

func (a *App) Start(ctx context.Context) error {
	return a.fx.Start(ctx)
}

func (a *App) Stop(ctx context.Context) error {
	return a.fx.Stop(ctx)
}

// Run starts the app and blocks until SIGINT, SIGTERM or an fx shutdown.
func (a *App) Run() error {
	if err := a.Start(context.Background()); err != nil {
		return err
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	exitCode := 0
	select {
	case sig := <-signals:
		a.logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case shutdown := <-a.fx.Wait():
		exitCode = shutdown.ExitCode
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Stop(ctx); err != nil {
		a.logger.Error("failed to stop application gracefully", zap.Error(err))
		return err
	}
	if exitCode != 0 {
		return &ExitError{Code: exitCode}
	}
	return nil
}

func (a *App) Cleanup(ctx context.Context) (CleanupReport, error) {
	return a.cleaner.Run(ctx)
}

// Echo is nil when the app was built WithoutHTTP.
func (a *App) Echo() *echo.Echo {
	if a.server == nil {
		return nil
	}
	return a.server.Echo()
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Logger() *logging.Service {
	return a.logger
}

func (a *App) Config() *config.Config {
	return a.config
}

type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return "application exited with code " + strconv.Itoa(e.Code)
}
