package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"storefront/internal/app"
	"storefront/internal/domain"
)

type Stats struct {
	State    string `json:"state"`
	Users    int    `json:"users"`
	Sellers  int    `json:"sellers"`
	Products int    `json:"products"`
	Orders   int    `json:"orders"`
	Cart     int    `json:"cartLines"`
	Reviews  int    `json:"reviews"`
}

func statsOf(state string, d *domain.Document) Stats {
	s := Stats{State: state}
	if d == nil {
		return s
	}
	for _, u := range d.Users {
		if u.IsSeller() {
			s.Sellers++
		}
	}
	s.Users = len(d.Users)
	s.Products = len(d.Products)
	s.Orders = len(d.Orders)
	s.Cart = len(d.Cart)
	s.Reviews = len(d.Reviews)
	return s
}

func printStats(w io.Writer, s Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func newInitCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Bootstrap the store from storage or the configured seed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				doc, err := a.Store.Initialize(ctx)
				if err != nil {
					return err
				}
				return printStats(cmd.OutOrStdout(), statsOf(a.Store.State().String(), doc))
			})
		},
	}
}

func newStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print record counts of the persisted document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				doc, err := a.Store.Document(ctx)
				if err != nil {
					return err
				}
				return printStats(cmd.OutOrStdout(), statsOf(a.Store.State().String(), doc))
			})
		},
	}
}

func newExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the persisted document as indented JSON (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				doc, err := a.Store.Document(ctx)
				if err != nil {
					return err
				}
				if doc == nil {
					return fmt.Errorf("nothing to export: %w", domain.ErrStoreUnavailable)
				}
				b, err := json.MarshalIndent(doc, "", "  ")
				if err != nil {
					return err
				}
				b = append(b, '\n')
				if len(args) == 0 || args[0] == "-" {
					_, err = cmd.OutOrStdout().Write(b)
					return err
				}
				return os.WriteFile(args[0], b, 0o644)
			})
		},
	}
}

func newImportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the persisted document with the contents of file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var doc domain.Document
			if err := json.Unmarshal(b, &doc); err != nil {
				return fmt.Errorf("decode %s: %w", args[0], err)
			}
			doc.Normalize()
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Persist(ctx, &doc); err != nil {
					return err
				}
				return printStats(cmd.OutOrStdout(), statsOf(a.Store.State().String(), &doc))
			})
		},
	}
}

func newResetCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the persisted document and session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return fmt.Errorf("refusing to reset without --yes")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				if err := a.Store.Reset(ctx); err != nil {
					return err
				}
				if err := a.Sessions.Delete(ctx); err != nil {
					return err
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "store reset")
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}
