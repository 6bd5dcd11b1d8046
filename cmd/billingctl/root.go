package main

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/textil-api/internal/infrastructure/postgres"
	"github.com/jhoicas/textil-api/pkg/config"
	"github.com/jhoicas/textil-api/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:           "billingctl",
	Short:         "Operación del servicio de facturación",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(counterCmd)
	rootCmd.AddCommand(paymentsCmd)
}

// env configuración y logger compartidos por los comandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "cargar configuración")
	}
	return &env{cfg: cfg, log: logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})}, nil
}

// openDB abre el pool; los comandos de datos no tienen sentido sin PostgreSQL.
func (e *env) openDB(ctx context.Context) (*pgxpool.Pool, error) {
	if !e.cfg.DB.Enabled() {
		return nil, errors.New("se requiere base de datos (DATABASE_URL o DB_HOST)")
	}
	return postgres.NewPool(ctx, e.cfg.DB)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Crea las tablas del consecutivo y del registro de pagos",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		pool, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.Migrate(cmd.Context(), pool); err != nil {
			return err
		}
		e.log.Info().Msg("esquema de facturación al día")
		return nil
	},
}
