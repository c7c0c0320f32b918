// Package server initializes and runs the memberhub application server.
// It connects the account store and the code store, wires the services,
// and runs the HTTP API until shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/irezaei/memberhub/internal/logging"
	"github.com/irezaei/memberhub/internal/server/config"
	"github.com/irezaei/memberhub/internal/server/httpapi"
	"github.com/irezaei/memberhub/internal/server/repositories/members"
	"github.com/irezaei/memberhub/internal/server/repositories/otpcodes"
	"github.com/irezaei/memberhub/internal/server/services"
)

const connectTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.Server
	mongo  *mongo.Client
	redis  *redis.Client
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	mc, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect error: %w", err)
	}
	if err := mc.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping error: %w", err)
	}

	memberRepo := members.NewMongoRepository(mc.Database(cfg.MongoDatabase))
	if err := memberRepo.EnsureIndexes(connectCtx); err != nil {
		return nil, fmt.Errorf("mongo index error: %w", err)
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := rc.Ping(connectCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping error: %w", err)
	}
	codeRepo := otpcodes.NewRedisRepository(rc)

	ms := services.NewMemberService(memberRepo, cfg)
	otps := services.NewOTPService(codeRepo, memberRepo, services.NewLogSender(logger), cfg)
	as := services.NewAvatarService(cfg)

	handler := httpapi.NewHandler(ms, otps, as, cfg, logger)
	srv := httpapi.NewServer(handler, cfg, logger)

	return &App{config: cfg, logger: logger, server: srv, mongo: mc, redis: rc}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	app.close()
}

func (app *App) close() {
	closeCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := app.mongo.Disconnect(closeCtx); err != nil {
		app.logger.Error(closeCtx, err.Error())
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error(closeCtx, err.Error())
	}
}
