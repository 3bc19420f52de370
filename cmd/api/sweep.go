package main

import (
	"fmt"

	"realestate-backend/internal/adapter/repository/mysql"
	"realestate-backend/internal/adapter/scheduler"
	"realestate-backend/internal/infrastructure/cache"
	subscriptionUC "realestate-backend/internal/usecase/subscription"

	"github.com/spf13/cobra"
)

// SweepCmd runs one expiry pass, for cron-driven deployments.
func SweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Expire overdue broker subscriptions once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			noLock, _ := cmd.Flags().GetBool("no-lock")

			cfg, log := loadConfig()
			if err := cfg.ValidateDB(); err != nil {
				return fmt.Errorf("config: %w", err)
			}
			gdb, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(gdb, log)

			pub, err := openPublisher(cfg, log)
			if err != nil {
				return fmt.Errorf("events: %w", err)
			}
			defer pub.Close()

			// no gateway: the sweep never creates or verifies orders
			subs := subscriptionUC.NewUsecase(
				mysql.NewSubscriptionRepository(gdb), mysql.NewGormUoW(gdb),
				nil, pub, cfg.SubscriptionSettings(), log,
			)

			var locker scheduler.Locker
			if !noLock {
				rdb, err := cache.OpenRedis(cfg.RedisOptions())
				if err != nil {
					return fmt.Errorf("redis: %w", err)
				}
				defer rdb.Close()
				locker = cache.NewLocker(rdb)
			}

			ran, err := scheduler.New(subs, locker, cfg.SweepInterval, log).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if !ran {
				log.Info("another instance holds the sweep lock")
			}
			return nil
		},
	}
	cmd.Flags().Bool("no-lock", false, "skip the Redis lock (single instance)")
	return cmd
}
