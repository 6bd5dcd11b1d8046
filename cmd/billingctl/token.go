package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jhoicas/textil-api/pkg/jwt"
)

var tokenFlags struct {
	role      string
	userID    string
	companyID string
	minutes   int
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Emite un Bearer token para un usuario y rol",
	Long: `Emite un JWT firmado con JWT_SECRET.

Roles: owner (todo), sales (cotizar y guardar), accountant (registrar pagos).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		roles := []string{jwt.RoleOwner, jwt.RoleSales, jwt.RoleAccountant}
		if !lo.Contains(roles, tokenFlags.role) {
			return errors.Newf("rol %q no válido (%v)", tokenFlags.role, roles)
		}
		e, err := loadEnv()
		if err != nil {
			return err
		}
		minutes := tokenFlags.minutes
		if minutes <= 0 {
			minutes = e.cfg.JWT.Expiration
		}
		tok, err := jwt.Generate(e.cfg.JWT.Secret, tokenFlags.userID, tokenFlags.companyID, tokenFlags.role, e.cfg.JWT.Issuer, minutes)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenFlags.role, "role", jwt.RoleSales, "rol del token")
	tokenCmd.Flags().StringVar(&tokenFlags.userID, "user", "", "id del usuario")
	tokenCmd.Flags().StringVar(&tokenFlags.companyID, "company", "", "id de la empresa")
	tokenCmd.Flags().IntVar(&tokenFlags.minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	_ = tokenCmd.MarkFlagRequired("user")
}
