package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
	"github.com/clinica-bage/app-rx/internal/utils"
)

func newPreviewCommand() *cobra.Command {
	var (
		form     models.IdentityForm
		token    string
		email    string
		password string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what saving a prescription would do to the patient record",
		Long: `Decides whether the contact fields would create, update or skip a
patient record, looking the CPF up on the backend. Nothing is written.

Authenticate with --token (or RX_TOKEN), or with --email and --password.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v := utils.ValidateIdentityForm(form); !v.IsValid {
				return v
			}

			services.InitBackendClient()
			services.InitIdentityUpsertService()
			backend := services.BackendClientInstance
			ctx := cmd.Context()

			if token == "" {
				token = os.Getenv("RX_TOKEN")
			}
			if token == "" {
				if email == "" || password == "" {
					return errors.New("a token or --email and --password are required")
				}
				t, _, err := backend.Login(ctx, email, password)
				if err != nil {
					return err
				}
				token = t
			}

			decision, err := services.IdentityUpsertServiceInstance.Decide(ctx, form, backend.IdentityLookup(token))
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), decision)
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.FullName, "name", "", "patient full name")
	f.StringVar(&form.TaxID, "cpf", "", "patient CPF")
	f.StringVar(&form.Phone, "phone", "", "patient phone")
	f.StringVar(&form.Email, "email-address", "", "patient e-mail")
	f.StringVar(&form.Address.PostalCode, "cep", "", "postal code")
	f.StringVar(&form.Address.Street, "street", "", "street")
	f.StringVar(&form.Address.Number, "number", "", "number")
	f.StringVar(&form.Address.Neighborhood, "neighborhood", "", "neighborhood")
	f.StringVar(&form.Address.City, "city", "", "city")
	f.StringVar(&form.Address.StateCode, "state", "", "two-letter state code")
	f.StringVar(&token, "token", "", "backend bearer token")
	f.StringVar(&email, "email", "", "operator login e-mail")
	f.StringVar(&password, "password", "", "operator password")
	return cmd
}
