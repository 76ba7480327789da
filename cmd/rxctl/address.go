package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/utils"
)

func newComposeCommand() *cobra.Command {
	var a models.Address
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build the display line of an address",
		Example: `  rxctl compose --street "Rua A" --neighborhood Centro --city Bagé --state RS
  Rua A, Centro, Bagé/RS`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), utils.ComposeAddress(a))
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&a.PostalCode, "cep", "", "postal code")
	f.StringVar(&a.Street, "street", "", "street")
	f.StringVar(&a.Number, "number", "", "number")
	f.StringVar(&a.Complement, "complement", "", "complement")
	f.StringVar(&a.Neighborhood, "neighborhood", "", "neighborhood")
	f.StringVar(&a.City, "city", "", "city")
	f.StringVar(&a.StateCode, "state", "", "two-letter state code")
	return cmd
}

func newDecomposeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decompose <text>",
		Short: "Split an address display line into fields (best effort)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display := strings.Join(args, " ")
			address := utils.DecomposeAddress(display)
			return printJSON(cmd.OutOrStdout(), models.AddressDecomposeResponse{
				Address: address,
				Lossy:   utils.ComposeAddress(address) != strings.TrimSpace(display),
			})
		},
	}
}
