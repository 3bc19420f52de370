package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"realestate-backend/internal/adapter/events"
	httpadp "realestate-backend/internal/adapter/http"
	"realestate-backend/internal/adapter/middleware"
	"realestate-backend/internal/adapter/payment/razorpay"
	"realestate-backend/internal/adapter/repository/mysql"
	"realestate-backend/internal/adapter/scheduler"
	"realestate-backend/internal/config"
	"realestate-backend/internal/domain/event"
	"realestate-backend/internal/infrastructure/cache"
	dealUC "realestate-backend/internal/usecase/deal"
	featuredUC "realestate-backend/internal/usecase/featured"
	"realestate-backend/internal/usecase/pricing"
	subscriptionUC "realestate-backend/internal/usecase/subscription"
	"realestate-backend/internal/usecase/webhook"

	"github.com/spf13/cobra"
)

type publisher interface {
	event.Publisher
	io.Closer
}

func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the subscription expiry scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			noScheduler, _ := cmd.Flags().GetBool("no-scheduler")
			migrate, _ := cmd.Flags().GetBool("migrate")
			return serve(cmd.Context(), !noScheduler, migrate)
		},
	}
	cmd.Flags().Bool("no-scheduler", false, "do not run the expiry sweep in this process")
	cmd.Flags().Bool("migrate", false, "auto-migrate owned tables before serving")
	return cmd
}

func openPublisher(cfg *config.Config, log *slog.Logger) (publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NewLogPublisher(log), nil
	}
	return events.DialRabbit(cfg.AMQPURL, "realestate.events", log)
}

func serve(parent context.Context, withScheduler, migrate bool) error {
	cfg, log := loadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	gdb, err := openDB(cfg, log)
	if err != nil {
		return err
	}
	defer closeDB(gdb, log)
	if migrate {
		if err := mysql.Migrate(gdb, false); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	rdb, err := cache.OpenRedis(cfg.RedisOptions())
	if err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	defer rdb.Close()

	pub, err := openPublisher(cfg, log)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer pub.Close()

	gateway := razorpay.NewClient(razorpay.Config{
		KeyID:         cfg.RazorpayKeyID,
		KeySecret:     cfg.RazorpayKeySecret,
		WebhookSecret: cfg.RazorpayWebhookSecret,
		BaseURL:       cfg.RazorpayBaseURL,
		Timeout:       cfg.RazorpayTimeout,
	})

	tx := mysql.NewGormUoW(gdb)
	deals := dealUC.NewUsecase(mysql.NewDealRepository(gdb), tx, log)
	coupons := pricing.NewUsecase(mysql.NewCouponRepository(gdb), mysql.NewBrokerCouponRepository(gdb))
	featured := featuredUC.NewUsecase(
		mysql.NewFeaturedRepository(gdb),
		mysql.NewPropertyRepository(gdb),
		tx, gateway, pub, cfg.FeaturedPricing(), log,
	)
	subs := subscriptionUC.NewUsecase(mysql.NewSubscriptionRepository(gdb), tx, gateway, pub, cfg.SubscriptionSettings(), log)
	hooks := webhook.NewUsecase(gateway, subs, log)

	e := httpadp.NewEcho(log)
	httpadp.Register(e, httpadp.Handlers{
		Health: httpadp.NewHandler(map[string]httpadp.Check{
			"database": func(ctx context.Context) error {
				sqlDB, err := gdb.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			},
			"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}),
		Deals:        httpadp.NewDealHandler(deals),
		Coupons:      httpadp.NewCouponHandler(coupons),
		Featured:     httpadp.NewFeaturedHandler(featured),
		Subscription: httpadp.NewSubscriptionHandler(subs),
		Webhooks:     httpadp.NewWebhookHandler(hooks),
	}, httpadp.RouterConfig{
		JWTSecret:   []byte(cfg.JWTSecret),
		Idempotency: middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	})

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	if withScheduler {
		sched := scheduler.New(subs, cache.NewLocker(rdb), cfg.SweepInterval, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			sched.Run(ctx)
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		log.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = e.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}
