package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ms-nametags/internal/config"
	"ms-nametags/internal/logger"
	"ms-nametags/internal/nametags/db"
	nametags "ms-nametags/internal/nametags/service"
	"ms-nametags/internal/prompt"
	"ms-nametags/internal/sheets"
)

type exportOptions struct {
	in           string
	out          string
	event        string
	selectedOnly bool
	dpi          int
	qr           bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:           "sheet-export",
		Short:         "Render nametag sheets to a PDF",
		Long:          `Renders a CSV roster, or a saved event, as letter pages with three nametags each.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.Context(), cfg, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "CSV roster to render")
	f.StringVar(&opts.event, "event", "", "saved event id to render instead of a roster")
	f.StringVarP(&opts.out, "out", "o", "nametags.pdf", "output PDF path")
	f.BoolVar(&opts.selectedOnly, "selected-only", false, "only print selected tags (saved events only)")
	f.IntVar(&opts.dpi, "dpi", cfg.Sheets.DPI, "raster resolution of each page")
	f.BoolVar(&opts.qr, "qr", cfg.Sheets.PrintQR, "print a QR code of the tag id on each badge")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log progress to stderr")
	cmd.MarkFlagsMutuallyExclusive("in", "event")
	cmd.MarkFlagsOneRequired("in", "event")

	cmd.AddCommand(newEventsCmd(cfg))
	return cmd
}

func newEventsCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List saved events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			kv, err := db.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			repo := db.NewEventRepository(kv, cfg.Store.Key, newLogger(cmd.ErrOrStderr(), false))
			events, err := repo.LoadEvents(ctx)
			if err != nil {
				return err
			}
			for _, e := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d tags\n", e.ID, e.Name, len(e.Tags))
			}
			return nil
		},
	}
}

func newLogger(w io.Writer, verbose bool) *logger.Logger {
	log := logger.NewLoggerWithWriter(w)
	if !verbose {
		log.SetLevel("warn")
	}
	return log
}

func runExport(ctx context.Context, cfg *config.Config, opts *exportOptions, stdout, stderr io.Writer) error {
	if opts.selectedOnly && opts.event == "" {
		return errors.New("--selected-only needs --event: imported rosters have no selection")
	}
	log := newLogger(stderr, opts.verbose)

	renderer, err := sheets.NewRenderer(opts.dpi, opts.qr)
	if err != nil {
		return err
	}

	var kv db.KV = db.NewMemoryKV()
	if opts.event != "" {
		if kv, err = db.Open(ctx, cfg); err != nil {
			return err
		}
	}
	defer kv.Close()

	svc := nametags.NewNametagService(
		db.NewEventRepository(kv, cfg.Store.Key, log),
		sheets.NewPDFExporter(renderer),
		nil, nil, log,
	)

	if opts.event != "" {
		if err := svc.Load(ctx); err != nil {
			return err
		}
		if err := svc.SwitchEvent(ctx, opts.event); err != nil {
			return err
		}
		if opts.selectedOnly {
			if err := svc.SetShowSelectedOnly(ctx, true); err != nil {
				return err
			}
		}
	} else {
		f, err := os.Open(opts.in)
		if err != nil {
			return err
		}
		defer f.Close()
		// The list starts empty, so the append question is never asked.
		if _, err := svc.ImportCSV(ctx, f, prompt.Answers{}); err != nil {
			return err
		}
	}

	out, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	pages, err := svc.ExportPDF(ctx, out)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(opts.out)
		return err
	}

	fmt.Fprintf(stdout, "wrote %d pages (%d tags) to %s\n", pages, len(svc.VisibleTags()), opts.out)
	return nil
}
