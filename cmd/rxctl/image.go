package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
	"github.com/clinica-bage/app-rx/internal/utils"
)

// imageReport is the output of the image command
type imageReport struct {
	models.ImageResolution
	Available *models.ImageAvailabilityResponse `json:"available,omitempty"`
}

func newImageCommand() *cobra.Command {
	var (
		probe bool
		name  string
	)
	cmd := &cobra.Command{
		Use:   "image <ref>",
		Short: "Show the URLs tried for a profile image reference",
		Long: `Prints the primary URL and the fallback chain for ref. With --probe the
candidates are also checked, object storage first when MINIO_ENDPOINT is
set, and the first one that loads is reported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if probe {
				config.InitObjectStorage()
			}
			services.InitImageResolver()
			resolver := services.ImageResolverInstance

			ref := models.ImageReference(args[0])
			report := imageReport{ImageResolution: resolver.Resolve(ref)}

			if probe {
				availability := &models.ImageAvailabilityResponse{Ref: ref}
				url, err := resolver.ResolveAvailable(cmd.Context(), ref)
				switch {
				case err == nil:
					availability.URL = url
					availability.Available = true
				case errors.Is(err, models.ErrImageUnavailable):
					availability.Initials = utils.Initials(name)
				default:
					return err
				}
				report.Available = availability
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "check which candidate actually loads")
	cmd.Flags().StringVar(&name, "name", "", "full name, for the placeholder initials")
	return cmd
}
