package main

//	@title						curvefit API
//	@version					0.1.0
//	@description				Least-squares curve fitting with worked explanations.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: "Bearer {token}"

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/HerbHall/curvefit/api/swagger"
	"github.com/HerbHall/curvefit/internal/auth"
	"github.com/HerbHall/curvefit/internal/config"
	"github.com/HerbHall/curvefit/internal/fitting"
	"github.com/HerbHall/curvefit/internal/registry"
	"github.com/HerbHall/curvefit/internal/server"
	"github.com/HerbHall/curvefit/internal/version"
	"github.com/HerbHall/curvefit/internal/ws"
	"github.com/HerbHall/curvefit/pkg/plugin"
	"go.uber.org/zap"
)

func main() {
	// Subcommand dispatch (before flag.Parse).
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "fit":
			os.Exit(runFit(os.Args[2:], os.Stdin, os.Stdout, os.Stderr))
		case "token":
			os.Exit(runToken(os.Args[2:], os.Stdout, os.Stderr))
		case "version":
			fmt.Println(version.Info())
			return
		}
	}

	configPath := flag.String("config", "", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if err := serve(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "curvefit: %v\n", err)
		os.Exit(1)
	}
}

// modules lists the compiled-in plugins.
func modules() []plugin.Plugin {
	return []plugin.Plugin{
		fitting.New(),
	}
}

// buildRegistry registers, validates and initializes every module.
func buildRegistry(ctx context.Context, cfg *config.ViperConfig, logger *zap.Logger) (*registry.Registry, error) {
	reg := registry.New(logger.Named("registry"))
	for _, m := range modules() {
		if err := reg.Register(m); err != nil {
			return nil, fmt.Errorf("register plugin: %w", err)
		}
	}
	if err := reg.Validate(); err != nil {
		return nil, fmt.Errorf("validate plugins: %w", err)
	}
	err := reg.InitAll(ctx, func(name string) plugin.Dependencies {
		return plugin.Dependencies{
			Config: cfg.Sub("plugins." + name),
			Logger: logger.Named(name),
		}
	})
	if err != nil {
		return nil, fmt.Errorf("initialize plugins: %w", err)
	}
	return reg, nil
}

// fittingModule returns the initialized fitting plugin from reg.
func fittingModule(reg *registry.Registry) (*fitting.Module, error) {
	p, ok := reg.Get("fitting")
	if !ok {
		return nil, errors.New("fitting plugin not registered")
	}
	m, ok := p.(*fitting.Module)
	if !ok || m.Service() == nil {
		return nil, errors.New("fitting plugin not initialized")
	}
	return m, nil
}

func serve(configPath string) error {
	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := server.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg := config.New(viperCfg)

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("curvefit server starting", zap.String("version", version.Short()))
	if f := viperCfg.ConfigFileUsed(); f != "" {
		logger.Info("configuration loaded", zap.String("component", "config"), zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults", zap.String("component", "config"))
	}

	srvCfg, err := server.ServerConfig(viperCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg, err := buildRegistry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if err := reg.StartAll(ctx); err != nil {
		return fmt.Errorf("start plugins: %w", err)
	}

	fit, err := fittingModule(reg)
	if err != nil {
		return err
	}

	var tokens *auth.TokenService
	opts := server.Options{
		DevMode:        srvCfg.DevMode,
		RateLimitRPS:   srvCfg.RateLimitRPS,
		RateLimitBurst: srvCfg.RateLimitBurst,
	}
	if secret := viperCfg.GetString("auth.jwt_secret"); secret != "" {
		tokens = auth.NewTokenService([]byte(secret), viperCfg.GetDuration("auth.access_token_ttl"))
		opts.Auth = auth.AuthMiddleware(tokens)
		logger.Info("bearer authentication enabled",
			zap.String("component", "auth"),
			zap.Duration("access_token_ttl", tokens.AccessTokenTTL()),
		)
	} else {
		logger.Warn("auth.jwt_secret not set, API is unauthenticated", zap.String("component", "auth"))
	}

	var extraRoutes []server.SimpleRouteRegistrar
	var wsHandler *ws.Handler
	if fit.Config().WSEnabled {
		wsHandler = ws.NewHandler(fit.Service(), tokens, fit.Config().WSReadLimit, logger.Named("ws"))
		extraRoutes = append(extraRoutes, wsHandler)
	}

	readyCheck := server.ReadinessChecker(func(ctx context.Context) error {
		for name, h := range reg.Health(ctx) {
			if h.Status == "unhealthy" {
				return fmt.Errorf("plugin %s unhealthy: %s", name, h.Message)
			}
		}
		return nil
	})

	srv := server.New(srvCfg.Addr(), reg, logger, readyCheck, opts, extraRoutes...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	logger.Info("curvefit server ready", zap.String("addr", srvCfg.Addr()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("server error", zap.Error(serveErr))
		}
	}

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if wsHandler != nil {
		wsHandler.Shutdown(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	reg.StopAll(shutdownCtx)

	logger.Info("curvefit server stopped")
	return serveErr
}
