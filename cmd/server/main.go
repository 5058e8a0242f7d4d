package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"time"

	"marathon-chat/internal/chat"
	"marathon-chat/internal/metrics"
	"marathon-chat/internal/server"
	"marathon-chat/internal/storage"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("godotenv.Load: %v", err)
	}

	app := appConfig{}
	if err := env.Parse(&app); err != nil {
		log.Fatalf("Cannot parse app config: %v", err)
	}

	zapConfig := zap.NewDevelopmentConfig()
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(app.LogLevel)); err != nil {
		log.Fatalf("Cannot parse LOG_LEVEL: %v", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		log.Fatalf("zap.Build: %v", err)
	}
	defer logger.Sync()

	sugar := logger.Sugar()
	sugar.Info("Application is starting")

	cfg := server.EnvConfig{}
	if err := env.Parse(&cfg); err != nil {
		sugar.Fatalf("Cannot parse env config: %v", err)
	}

	storeOpts, err := app.storeOptions()
	if err != nil {
		sugar.Fatalf("Cannot build store options: %v", err)
	}

	serverOpts := []server.Option{server.WithEnvConfig(cfg)}

	var dialer storage.Dialer
	if app.Pool {
		pd := storage.NewPoolDialer(logger, app.PoolMaxConns, storeOpts...)
		serverOpts = append(serverOpts, server.RegisterAfterShutdown(func() {
			sugar.Info("Closing database pools")
			pd.Close()
		}))
		dialer = pd
	} else {
		dialer = storage.NewConnDialer(logger, storeOpts...)
	}

	if app.AutoMigrate {
		dsn := storage.DSNFromEnv()
		if dsn == "" {
			sugar.Fatal("AUTO_MIGRATE requires DATABASE_URL")
		}
		ctx, cancel := context.WithTimeout(context.Background(), app.ConnectTimeout+10*time.Second)
		err := storage.New(sugar, dsn, dialer).Migrate(ctx)
		cancel()
		if err != nil {
			sugar.Fatalf("Cannot apply schema: %v", err)
		}
	}

	seed := app.ColorSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	reg := prometheus.NewRegistry()
	h := chat.NewHandler(sugar,
		chat.WithGatewayFactory(func(dsn string) chat.Gateway {
			return storage.New(sugar, dsn, dialer)
		}),
		chat.WithColorChooser(chat.NewRandomChooser(seed)),
		chat.WithRejectionMessage(app.ModerationMessage),
		chat.WithMetrics(metrics.New(reg)),
	)
	chatHTTP := server.ChatHandler(sugar, h)

	serverOpts = append(serverOpts,
		server.Handle("/", chatHTTP),
		server.Handle("/messages", chatHTTP),
		server.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
	)

	srv, err := server.NewServer(sugar, serverOpts...)
	if err != nil {
		sugar.Fatalf("Cannot create Server instance: %v", err)
	}

	if err := srv.Start(); err != nil {
		sugar.Fatalf("Cannot start http srv: %v", err)
	}
}
