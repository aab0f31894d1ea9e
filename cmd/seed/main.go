package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/karthikc1125/GroqTales/internal/config"
	"github.com/karthikc1125/GroqTales/internal/database"
	"github.com/karthikc1125/GroqTales/internal/logger"
	"github.com/karthikc1125/GroqTales/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	storyCount int
	userCount  int
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the development database with stories and interaction histories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			_ = err
		}
		cfg := config.Load()

		if err := logger.Initialize(cfg.LogLevel, "seed.log"); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logger.Close()

		if err := database.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		seeder := seed.NewSeeder(database.DB)
		if err := seeder.SeedDev(context.Background(), storyCount, userCount); err != nil {
			logger.Log.Error("Seeding failed", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.Flags().IntVar(&storyCount, "stories", 200, "number of stories to create")
	rootCmd.Flags().IntVar(&userCount, "users", 25, "number of users with interaction histories")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
