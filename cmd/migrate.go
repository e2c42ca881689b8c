package main

import (
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ReservationService/internal/app"
	"github.com/m04kA/SMC-ReservationService/internal/infra/storage/migrations"
)

func newMigrateCmd(load runtimeLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply embedded database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			defer log.Close()

			db, err := app.OpenDatabase(cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := migrations.Up(cmd.Context(), db, log)
			if err != nil {
				return err
			}

			log.Info("Migrations complete: %d applied", applied)
			return nil
		},
	}
}
