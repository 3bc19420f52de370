package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"realestate-backend/internal/adapter/middleware"
	"realestate-backend/internal/domain/user"

	"github.com/spf13/cobra"
)

// TokenCmd mints a bearer token signed with JWT_SECRET, for local testing.
func TokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed bearer token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, _ := cmd.Flags().GetUint64("user-id")
			name, _ := cmd.Flags().GetString("name")
			role, _ := cmd.Flags().GetString("role")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, _ := loadConfig()
			if cfg.JWTSecret == "" {
				return errors.New("missing JWT_SECRET")
			}
			if userID == 0 {
				return errors.New("--user-id is required")
			}
			tok, err := middleware.IssueToken([]byte(cfg.JWTSecret), middleware.Actor{
				UserID: userID,
				Name:   name,
				Role:   user.Role(strings.ToUpper(role)),
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Uint64("user-id", 0, "user id (sub claim)")
	cmd.Flags().String("name", "", "display name used in deal notes")
	cmd.Flags().String("role", string(user.RoleBuyer), "BUYER|SELLER|AGENT|ADMIN|BROKER")
	cmd.Flags().Duration("ttl", time.Hour, "token lifetime")
	return cmd
}
