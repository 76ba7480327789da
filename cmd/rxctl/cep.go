package main

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clinica-bage/app-rx/internal/config"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
)

func newCEPCommand() *cobra.Command {
	var (
		useCache bool
		follow   bool
	)
	cmd := &cobra.Command{
		Use:   "cep <codes...>",
		Short: "Look up postal codes on ViaCEP",
		Long: `Looks up every code concurrently and prints one result per code, in
argument order. Codes without exactly 8 digits are skipped.

With --follow, codes are read from stdin one per line as successive values
of a single form field. Every value triggers a lookup; responses for values
the field has already moved past are reported as stale.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if useCache {
				config.InitRedis()
			}
			services.InitPostalLookupService()
			lookup := services.PostalLookupServiceInstance

			if follow {
				return followField(cmd.Context(), lookup, cmd.InOrStdin(), cmd.OutOrStdout())
			}
			if len(args) == 0 {
				return cmd.Usage()
			}

			results := make([]models.PostalLookupResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, code := range args {
				g.Go(func() error {
					results[i] = lookup.Lookup(ctx, code)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().BoolVar(&useCache, "cache", false, "use the Redis postal code cache")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "treat stdin lines as edits of one field")
	return cmd
}

// followField issues a lookup for every line read from in, as a form
// field would while the user types, and prints each response as it lands.
func followField(ctx context.Context, lookup *services.PostalLookupService, in io.Reader, out io.Writer) error {
	var (
		tracker services.PostalLookupTracker
		mu      sync.Mutex
	)
	g, ctx := errgroup.WithContext(ctx)

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		code := strings.TrimSpace(scanner.Text())
		if code == "" {
			continue
		}
		// the field holds code from now on, before its lookup is issued
		ticket := tracker.Begin(code)
		g.Go(func() error {
			result := lookup.LookupTicket(ctx, &tracker, ticket)
			mu.Lock()
			defer mu.Unlock()
			return printJSON(out, result)
		})
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return g.Wait()
}
