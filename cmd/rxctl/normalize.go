package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/services"
)

func newNormalizeCommand() *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Normalize backend patient records into canonical identities",
		Long: `Reads a JSON object or an array of objects from file (stdin when
omitted or "-") and prints the canonical identities in the same order.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			raw, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("read records: %w", err)
			}
			records, single, err := decodeRecords(raw)
			if err != nil {
				return err
			}

			identities, err := normalizeAll(cmd.Context(), records, workers)
			if err != nil {
				return err
			}
			if single {
				return printJSON(cmd.OutOrStdout(), identities[0])
			}
			return printJSON(cmd.OutOrStdout(), identities)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", runtime.NumCPU(), "records normalized concurrently")
	return cmd
}

// decodeRecords accepts a single JSON object or an array of them
func decodeRecords(raw []byte) ([]json.RawMessage, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, false, fmt.Errorf("no records in input")
	}
	if trimmed[0] == '{' {
		return []json.RawMessage{trimmed}, true, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false, fmt.Errorf("input is neither a JSON object nor an array: %w", err)
	}
	return items, false, nil
}

// normalizeAll decodes and normalizes every record, keeping input order.
// The first record that is not a JSON object stops the batch.
func normalizeAll(ctx context.Context, records []json.RawMessage, workers int) ([]models.Identity, error) {
	out := make([]models.Identity, len(records))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, raw := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			var record services.Record
			if err := json.Unmarshal(raw, &record); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			out[i] = services.NormalizeIdentity(record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
