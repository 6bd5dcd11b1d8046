// billingctl tareas de operación del servicio de facturación:
// emitir tokens, migrar el esquema, consultar o ajustar el consecutivo y
// revisar el registro de pagos de una factura.
//
// Uso: go run ./cmd/billingctl <comando>
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
