package app

import (
	"errors"
	"fmt"

	"github.com/tech-arch1tect/jwtauth/config"
	"github.com/tech-arch1tect/jwtauth/database"
	authhandler "github.com/tech-arch1tect/jwtauth/handlers/auth"
	"github.com/tech-arch1tect/jwtauth/middleware/ratelimit"
	"github.com/tech-arch1tect/jwtauth/server"
	"github.com/tech-arch1tect/jwtauth/services/auth"
	"github.com/tech-arch1tect/jwtauth/services/jwt"
	"github.com/tech-arch1tect/jwtauth/services/logging"
	"github.com/tech-arch1tect/jwtauth/services/mail"
	"github.com/tech-arch1tect/jwtauth/services/password"
	"github.com/tech-arch1tect/jwtauth/services/refreshtoken"
	"github.com/tech-arch1tect/jwtauth/services/resetcode"
	"github.com/tech-arch1tect/jwtauth/services/revocation"
	"github.com/tech-arch1tect/jwtauth/services/users"
	"go.uber.org/fx"
)

type AppBuilder struct {
	config    *config.Config
	logger    *logging.Service
	models    []any
	fxOptions []fx.Option
	errors    []error
	http      bool
}

func NewApp() *AppBuilder {
	return &AppBuilder{http: true}
}

func (b *AppBuilder) WithConfig(cfg *config.Config) *AppBuilder {
	if cfg == nil {
		b.errors = append(b.errors, errors.New("config cannot be nil"))
		return b
	}
	b.config = cfg
	return b
}

func (b *AppBuilder) WithAutoConfig() *AppBuilder {
	cfg := &config.Config{}
	if err := config.LoadConfig(cfg); err != nil {
		b.errors = append(b.errors, fmt.Errorf("failed to load config: %w", err))
		return b
	}
	b.config = cfg
	return b
}

// WithLogger replaces the logger built from config.
func (b *AppBuilder) WithLogger(logger *logging.Service) *AppBuilder {
	b.logger = logger
	return b
}

// WithModels migrates extra models alongside the service's own tables.
func (b *AppBuilder) WithModels(models ...any) *AppBuilder {
	b.models = append(b.models, models...)
	return b
}

// WithoutHTTP builds the services without the HTTP server, for one-shot
// commands.
func (b *AppBuilder) WithoutHTTP() *AppBuilder {
	b.http = false
	return b
}

func (b *AppBuilder) WithFxOptions(opts ...fx.Option) *AppBuilder {
	b.fxOptions = append(b.fxOptions, opts...)
	return b
}

func (b *AppBuilder) Build() (*App, error) {
	if b.config == nil && len(b.errors) == 0 {
		b.WithAutoConfig()
	}
	if len(b.errors) > 0 {
		return nil, fmt.Errorf("configuration errors: %w", errors.Join(b.errors...))
	}
	if err := config.Validate(b.config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := b.logger
	if logger == nil {
		var err error
		if logger, err = b.createLogger(); err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	app := &App{config: b.config, logger: logger}

	options := b.buildFxOptions(logger)
	options = append(options, fx.Populate(&app.db, &app.cleaner))
	if b.http {
		options = append(options, fx.Populate(&app.server))
	}

	app.fx = fx.New(options...)
	if err := app.fx.Err(); err != nil {
		return nil, fmt.Errorf("failed to wire application: %w", err)
	}
	return app, nil
}

func (b *AppBuilder) createLogger() (*logging.Service, error) {
	return logging.NewService(logging.Config{
		Level:      logging.LogLevel(b.config.Log.Level),
		Format:     b.config.Log.Format,
		OutputPath: b.config.Log.Output,
	})
}

func (b *AppBuilder) buildFxOptions(logger *logging.Service) []fx.Option {
	options := []fx.Option{
		config.NewProvider(b.config),
		fx.Supply(logger, database.WithModels(append(Models(), b.models...)...)),
		fx.NopLogger,
		database.Module,
		password.Module,
		users.Module,
		revocation.Module,
		jwt.Module,
		refreshtoken.Module,
		mail.Module,
		resetcode.Module,
		auth.Module,
		fx.Provide(NewCleaner),
		// construct the reset service eagerly so a bad code alphabet fails Build
		fx.Invoke(func(*resetcode.Service) {}),
	}

	if b.http {
		options = append(options,
			server.Module,
			ratelimit.Module,
			authhandler.Module,
		)
	}

	return append(options, b.fxOptions...)
}
