package commands

import (
	"context"
	"errors"
	"imovelhub/pkg/config"
	"log"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var withSeed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the Postgres tables and optionally load the demo data",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.NewConfig(envPath)
			if err != nil {
				return err
			}
			if appConfig.Storage != config.StoragePostgres {
				return errors.New("migrate needs STORAGE=postgres")
			}
			ctx := context.Background()
			s, err := openStores(ctx, appConfig)
			if err != nil {
				return err
			}
			defer s.close()
			if err := s.createTables(ctx); err != nil {
				return err
			}
			if withSeed || appConfig.Seed {
				if err := s.seedIfEmpty(ctx); err != nil {
					return err
				}
			}
			log.Print("migrate: done")
			return nil
		},
	}
	cmd.Flags().BoolVar(&withSeed, "seed", false, "load the demo accounts and listings into an empty database")
	return cmd
}
