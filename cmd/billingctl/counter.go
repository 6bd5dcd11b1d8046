package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jhoicas/textil-api/internal/application/billing"
	dbilling "github.com/jhoicas/textil-api/internal/domain/billing"
	"github.com/jhoicas/textil-api/internal/infrastructure/postgres"
	"github.com/jhoicas/textil-api/pkg/money"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Consulta o ajusta el consecutivo de facturas",
}

var counterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Muestra el valor del contador y el próximo consecutivo",
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

		repo := postgres.NewCounterRepository(pool)
		value, err := repo.Get(cmd.Context(), counterKey(e.cfg.Billing.CounterKey))
		if err != nil {
			return err
		}
		next, err := billing.NewAllocator(repo, e.cfg.Billing.CounterKey, e.log).PreviewNext(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "contador: %d\npróximo:  %s\n", value, next)
		return nil
	},
}

var counterSetCmd = &cobra.Command{
	Use:   "set <valor|consecutivo>",
	Short: "Fija el contador (ej. 120 o A00120: el próximo consecutivo a emitir)",
	Long: `Fija el contador de consecutivos. Úsese sólo con el servicio detenido,
por ejemplo al continuar la numeración de otro dispositivo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := parseCounter(args[0])
		if err != nil {
			return err
		}
		e, err := loadEnv()
		if err != nil {
			return err
		}
		pool, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		key := counterKey(e.cfg.Billing.CounterKey)
		if err := postgres.NewCounterRepository(pool).Set(cmd.Context(), key, value); err != nil {
			return err
		}
		next, _ := dbilling.FormatIdentifier(value)
		e.log.Warn().Str("key", key).Int64("value", value).Str("next", next).Msg("contador ajustado manualmente")
		return nil
	},
}

var paymentsCmd = &cobra.Command{
	Use:   "payments <consecutivo>",
	Short: "Lista el registro de envíos de pagos de una factura",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !dbilling.ValidIdentifier(args[0]) {
			return errors.Newf("consecutivo %q inválido", args[0])
		}
		e, err := loadEnv()
		if err != nil {
			return err
		}
		pool, err := e.openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		outcomes, err := postgres.NewPaymentOutcomeRepository(pool).ListByInvoice(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "FECHA\tPAGO\tMONTO\tMEDIO\tESTADO\tERROR")
		for _, o := range outcomes {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				o.CreatedAt.Format("2006-01-02 15:04"), o.PaymentID, money.Rupees(o.Amount), o.Method, o.Status, o.Error)
		}
		return w.Flush()
	},
}

func init() {
	counterCmd.AddCommand(counterShowCmd)
	counterCmd.AddCommand(counterSetCmd)
}

func counterKey(k string) string {
	if k == "" {
		return billing.DefaultCounterKey
	}
	return k
}

// parseCounter acepta el valor numérico o el próximo consecutivo a emitir.
func parseCounter(arg string) (int64, error) {
	if dbilling.ValidIdentifier(arg) {
		return dbilling.ParseIdentifier(arg)
	}
	v, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, errors.Newf("valor %q: se espera un número o un consecutivo como A00120", arg)
	}
	if v < 0 || v > dbilling.IdentifierCapacity {
		return 0, errors.Newf("valor %d fuera de rango [0, %d]", v, dbilling.IdentifierCapacity)
	}
	return v, nil
}
