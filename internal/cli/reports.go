package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/aretw0/hostprep/internal/presentation/tui"
	"github.com/aretw0/hostprep/pkg/domain"
	"github.com/aretw0/hostprep/pkg/ports"
)

// ListReports prints stored reports, newest first.
func ListReports(ctx context.Context, opts Options) error {
	store, _, closeStore, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	ids, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	out := opts.stdout()
	if opts.JSON {
		if ids == nil {
			ids = []string{}
		}
		return writeJSON(out, ids)
	}
	if len(ids) == 0 {
		printSystemMessage(out, "No reports stored yet.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tHOST\tSTATUS\tEXIT")
	for _, id := range ids {
		r, err := store.Load(ctx, id)
		if err != nil {
			fmt.Fprintf(tw, "%s\t?\t?\tunreadable\t?\n", id)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Host, r.Status, r.ExitCode)
	}
	return tw.Flush()
}

// ShowReport prints one stored report. "latest" selects the newest.
func ShowReport(ctx context.Context, opts Options, id string) error {
	store, _, closeStore, err := openStore(opts)
	if err != nil {
		return err
	}
	defer closeStore()

	var report *domain.Report
	if id == "latest" {
		report, err = ports.Latest(ctx, store)
	} else {
		report, err = store.Load(ctx, id)
	}
	if err != nil {
		return fmt.Errorf("failed to load report %s: %w", id, err)
	}

	if opts.JSON {
		return writeJSON(opts.stdout(), report)
	}
	return tui.PrintSummary(opts.stdout(), report)
}
