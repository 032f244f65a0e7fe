// Package app wires the services and the HTTP API together.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"homeclean/internal/config"
	"homeclean/internal/docstore"
	"homeclean/internal/modules/admin"
	"homeclean/internal/modules/auth"
	"homeclean/internal/modules/booking"
	"homeclean/internal/modules/chat"
	"homeclean/internal/modules/cleaner"
	"homeclean/internal/modules/dispatch"
	"homeclean/internal/modules/house"
	"homeclean/internal/modules/notification"
	"homeclean/internal/modules/review"
	"homeclean/internal/modules/tracking"
	"homeclean/internal/modules/verification"
	"homeclean/internal/modules/wallet"
	"homeclean/internal/pkg/jwt"
	"homeclean/internal/pkg/push"
	"homeclean/internal/repository"
)

type App struct {
	Config *config.Config
	Log    *zap.Logger
	Store  *docstore.Store
	Repos  *repository.Repositories

	Auth          *auth.Service
	Notifications *notification.Service
	Dispatcher    *dispatch.Dispatcher
	Bookings      *booking.Service
	Verification  *verification.Service
	Tracking      *tracking.Service
	Broker        *tracking.Broker
	Watcher       *tracking.Watcher
	Houses        *house.Service
	Cleaners      *cleaner.Service
	Chat          *chat.Service
	ChatHub       *chat.Hub
	Reviews       *review.Service
	Wallets       *wallet.Service
	Admin         *admin.Service

	closers []func()
}

// New builds every service on top of store. Redis and FCM are only used when
// configured.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger, store *docstore.Store) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &App{Config: cfg, Log: log, Store: store, Repos: repository.New(store)}

	sessions, err := a.sessionStore(ctx)
	if err != nil {
		return nil, err
	}
	sender, err := a.pushSender(ctx)
	if err != nil {
		return nil, err
	}

	r := a.Repos
	a.Auth = auth.NewService(r.Users, jwt.New(cfg.JWTSecret, cfg.SessionTTL), sessions, log.Named("auth"))
	a.Notifications = notification.NewService(r.Notifications, r.Users, sender, log.Named("notification"))
	a.closers = append(a.closers, a.Notifications.Wait)
	a.Dispatcher = dispatch.New(r.Cleaners, r.Houses, a.Notifications, log.Named("dispatch"))
	a.Bookings = booking.NewService(booking.Deps{
		Bookings:     r.Bookings,
		Houses:       r.Houses,
		Cleaners:     r.Cleaners,
		Promos:       r.Promos,
		Settings:     r.Settings,
		Reviews:      r.Reviews,
		Transactions: r.Transactions,
		Notifier:     a.Notifications,
		Broadcaster:  a.Dispatcher,
		Numbers:      store.IDs(),
	}, cfg.PlatformFeePercent, log.Named("booking"))
	a.Verification = verification.NewService(r.Bookings, a.Notifications, log.Named("verification"))

	a.Broker = tracking.NewBroker()
	a.Tracking = tracking.NewService(r.Bookings, a.Notifications, a.Broker, log.Named("tracking"))
	a.Watcher = tracking.NewWatcher(a.Tracking, a.Broker, cfg.TrackingPollInterval, nil, log.Named("tracking"))

	a.Houses = house.NewService(r.Houses, log.Named("house"))
	a.Cleaners = cleaner.NewService(r.Cleaners, log.Named("cleaner"))
	a.ChatHub = chat.NewHub()
	a.closers = append(a.closers, a.ChatHub.Close)
	a.Chat = chat.NewService(r.Chats, r.Bookings, a.Notifications, a.ChatHub, log.Named("chat"))
	a.Reviews = review.NewService(r.Reviews)
	a.Wallets = wallet.NewService(r.Transactions)
	a.Admin = admin.NewService(r.Promos, r.Settings, cfg.PlatformFeePercent, log.Named("admin"))
	return a, nil
}

func (a *App) sessionStore(ctx context.Context) (auth.SessionStore, error) {
	if a.Config.RedisAddr == "" {
		return auth.NewMemorySessionStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     a.Config.RedisAddr,
		Password: a.Config.RedisPassword,
		DB:       a.Config.RedisSessionDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	a.Log.Info("sessions stored in redis", zap.String("addr", a.Config.RedisAddr))
	return auth.NewRedisSessionStore(client), nil
}

func (a *App) pushSender(ctx context.Context) (push.Sender, error) {
	if a.Config.FCMCredentialsFile == "" {
		a.Log.Info("push notifications disabled")
		return push.Nop{}, nil
	}
	sender, err := push.NewFCMSender(ctx, a.Config.FCMCredentialsFile, a.Log.Named("push"))
	if err != nil {
		return nil, err
	}
	return sender, nil
}

// Close releases what New opened. The store is owned by the caller.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Run serves the API until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + a.Config.AppPort,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.Log.Info("shutting down http server")
	a.ChatHub.Close()
	return srv.Shutdown(shutdownCtx)
}
