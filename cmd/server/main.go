package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/meterlog/meterlog/internal/accounts"
	"github.com/meterlog/meterlog/internal/auth"
	"github.com/meterlog/meterlog/internal/config"
	"github.com/meterlog/meterlog/internal/handlers"
	"github.com/meterlog/meterlog/internal/logger"
	"github.com/meterlog/meterlog/internal/readings"
	"github.com/meterlog/meterlog/internal/server"
	"github.com/meterlog/meterlog/internal/storage"
	"github.com/meterlog/meterlog/internal/version"
)

func provideConfig() (config.Config, error) {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func provideLogger(cfg config.Config) *slog.Logger {
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return logger.L
}

func provideCodec(cfg config.Config) (*auth.TokenCodec, error) {
	codec, err := auth.NewTokenCodec([]byte(cfg.Auth.JWTSecret), cfg.Auth.ExpiresIn())
	if err != nil {
		return nil, fmt.Errorf("token codec: %w", err)
	}
	return codec, nil
}

func provideAccounts(log *slog.Logger, cfg config.Config) *accounts.Service {
	users := make([]accounts.User, 0, len(cfg.Users))
	for _, u := range cfg.Users {
		users = append(users, accounts.User{
			Username:     u.Username,
			PasswordHash: u.PasswordHash,
		})
	}
	return accounts.NewService(log, users)
}

// provideStore selects the storage backend once at startup. The local backend
// optionally wipes its base path before serving.
func provideStore(log *slog.Logger, cfg config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "local", "":
		local := storage.NewLocal(log, cfg.Storage.BasePath)
		if cfg.Storage.ResetOnStart {
			if err := local.Reset(); err != nil {
				return nil, fmt.Errorf("reset storage: %w", err)
			}
		}
		return local, nil
	case "minio":
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := storage.NewMinio(ctx, log, storage.MinioOptions{
			Endpoint:  cfg.Storage.Minio.Endpoint,
			AccessKey: cfg.Storage.Minio.AccessKey,
			SecretKey: cfg.Storage.Minio.SecretKey,
			Bucket:    cfg.Storage.Minio.Bucket,
			UseSSL:    cfg.Storage.Minio.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

func provideServerHandler(fn any) any {
	return fx.Annotate(
		fn,
		fx.As(new(server.Handler)),
		fx.ResultTags(`group:"server_handlers"`),
	)
}

type serverParams struct {
	fx.In

	Logger         *slog.Logger
	Config         config.Config
	Codec          *auth.TokenCodec
	Store          storage.Store
	ServerHandlers []server.Handler `group:"server_handlers"`
}

func provideServer(params serverParams) *server.Server {
	opts := server.Options{
		Addr:           params.Config.Server.Addr,
		AllowedOrigins: params.Config.CORS.Origins(),
	}
	// Static image serving exists only for the local backend; object store
	// deployments fetch images from the store directly.
	if local, ok := params.Store.(*storage.Local); ok {
		opts.StaticImageDir = local.BasePath()
	}
	return server.NewServer(params.Logger, params.Codec, opts, params.ServerHandlers...)
}

func startServer(lc fx.Lifecycle, log *slog.Logger, srv *server.Server, shutdowner fx.Shutdowner) {
	fmt.Printf("Starting meterlog %s\n", version.GetInfo())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("server failed", slog.Any("error", err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Stop(ctx)
		},
	})
}

func main() {
	fx.New(
		fx.Provide(
			provideConfig,
			provideLogger,
			provideCodec,
			provideAccounts,
			provideStore,
			readings.NewRepository,
			readings.NewService,

			provideServerHandler(handlers.NewPingHandler),
			provideServerHandler(handlers.NewAuthHandler),
			provideServerHandler(handlers.NewReadingsHandler),

			provideServer,
		),
		fx.Invoke(
			startServer,
		),
		fx.WithLogger(func(log *slog.Logger) fxevent.Logger {
			return &fxevent.SlogLogger{Logger: log.With(slog.String("component", "fx"))}
		}),
	).Run()
}
