package main

import (
	"fmt"
	"os"

	"zamar-backend/config"
	"zamar-backend/internal/database"
	"zamar-backend/internal/logger"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seeder",
		Short:         "Database tooling for the Zamar backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update all tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, log, err := connect()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}
			log.Info("migration complete")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var (
		adminName  string
		adminEmail string
		samples    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, permissions, the admin account and ad packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, log, err := connect()
			if err != nil {
				return err
			}
			if err := config.Migrate(db); err != nil {
				return err
			}

			// .env is loaded by connect, so read these afterwards
			if adminEmail == "" {
				adminEmail = config.GetEnv("ADMIN_EMAIL", "admin@zamar.local")
			}
			admin := database.AdminAccount{
				Name:     adminName,
				Email:    adminEmail,
				Password: config.GetEnv("ADMIN_PASSWORD", "admin12345"),
			}
			if err := database.SeedAll(db, admin, samples, log); err != nil {
				return err
			}
			log.Info("seeding complete")
			return nil
		},
	}

	cmd.Flags().StringVar(&adminName, "admin-name", "Zamar Admin", "display name of the first admin")
	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "email of the first admin (default $ADMIN_EMAIL or admin@zamar.local)")
	cmd.Flags().BoolVar(&samples, "samples", false, "also insert sample songs")
	return cmd
}

func connect() (*gorm.DB, *logrus.Logger, error) {
	cfg, err := config.Parse()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg.Log)

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	log.WithField("driver", cfg.Database.Driver).Info("database connected")
	return db, log, nil
}
