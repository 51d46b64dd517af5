package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"orderledger/internal/app/config"
	"orderledger/internal/app/export"
	"orderledger/internal/app/ledger"
	"orderledger/internal/app/storage"

	"github.com/urfave/cli/v2"
)

const commandTimeout = 30 * time.Second

func newApp() *cli.App {
	return &cli.App{
		Name:  "ledgerctl",
		Usage: "inspect and maintain the saved order ledger",
		Commands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "print the saved line items and the total",
				Action: showAction,
			},
			{
				Name:  "export",
				Usage: "write the order summary PDF",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "out",
						Aliases: []string{"o"},
						Usage:   "output file, defaults to a timestamped name",
					},
				},
				Action: exportAction,
			},
			{
				Name:   "clear",
				Usage:  "remove all saved line items",
				Action: clearAction,
			},
		},
	}
}

type session struct {
	cfg    *config.Config
	ledger *ledger.Ledger
	close  func(ctx context.Context) error
}

// openLedger loads the ledger from the store named in the service config.
func openLedger(ctx context.Context) (*session, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	cfg.SetupLogger()

	store, closeStore, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	l, err := ledger.New(store, ledger.Config{
		Key:          cfg.Ledger.Key,
		NodeID:       cfg.Ledger.NodeID,
		WriteTimeout: cfg.Ledger.WriteTimeout,
	})
	if err != nil {
		_ = closeStore()
		return nil, err
	}
	l.Restore(ctx)

	return &session{
		cfg:    cfg,
		ledger: l,
		close: func(ctx context.Context) error {
			lerr := l.Close(ctx)
			serr := closeStore()
			if lerr != nil {
				return lerr
			}
			return serr
		},
	}, nil
}

func withLedger(c *cli.Context, fn func(ctx context.Context, s *session) error) error {
	ctx, cancel := context.WithTimeout(c.Context, commandTimeout)
	defer cancel()

	s, err := openLedger(ctx)
	if err != nil {
		return err
	}
	if err := fn(ctx, s); err != nil {
		_ = s.close(ctx)
		return err
	}
	return s.close(ctx)
}

func showAction(c *cli.Context) error {
	return withLedger(c, func(_ context.Context, s *session) error {
		return printItems(c.App.Writer, s.ledger, s.cfg.Export.CurrencyLabel)
	})
}

func printItems(w io.Writer, l *ledger.Ledger, currency string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCODE\tDESCRIPTION\tQTY\tMODE\tPRICE")
	items, total := l.Snapshot()
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			it.ID, it.Code, it.Description, it.Quantity, it.PricingMode,
			export.FormatMoney(currency, it.FinalPrice))
	}
	fmt.Fprintf(tw, "\t\t\t\tTOTAL\t%s\n", export.FormatMoney(currency, total))
	return tw.Flush()
}

func exportAction(c *cli.Context) error {
	return withLedger(c, func(_ context.Context, s *session) error {
		now := time.Now()
		out := c.String("out")
		if out == "" {
			out = export.Filename(now)
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create %s: %w", out, err)
		}
		items, total := s.ledger.Snapshot()
		err = export.RenderPDF(f, export.Summary{
			Items:       items,
			Total:       total,
			GeneratedAt: now,
		}, export.Options{
			Title:         s.cfg.Export.Title,
			CurrencyLabel: s.cfg.Export.CurrencyLabel,
			Footer:        s.cfg.Export.Footer,
		})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(out)
			return err
		}

		fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
		return nil
	})
}

func clearAction(c *cli.Context) error {
	return withLedger(c, func(ctx context.Context, s *session) error {
		n := s.ledger.Len()
		s.ledger.Clear()
		if err := s.ledger.Flush(ctx); err != nil {
			return err
		}
		if st := s.ledger.Stats(); st.LastError != "" {
			return fmt.Errorf("clear not saved: %s", st.LastError)
		}
		fmt.Fprintf(c.App.Writer, "removed %d items\n", n)
		return nil
	})
}
