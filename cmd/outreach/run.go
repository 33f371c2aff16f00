package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"outreach/internal/campaign"
	"outreach/internal/models"
)

var errRunFailed = errors.New("outreach run failed")

// runCampaign drives one campaign through the state machine, redrawing the
// elapsed counter on errw and printing the metrics on w.
func runCampaign(ctx context.Context, w, errw io.Writer, trigger campaign.Trigger, tick time.Duration) error {
	var failure *campaign.Notification
	lastElapsed := -1

	m := campaign.New(trigger,
		campaign.WithTickInterval(tick),
		campaign.WithObserver(func(s campaign.Snapshot) {
			if s.State != campaign.StateLoading || s.Elapsed == lastElapsed {
				return
			}
			lastElapsed = s.Elapsed
			fmt.Fprintf(errw, "\rResearching prospects and writing personalized emails... %ds", s.Elapsed)
		}),
		campaign.WithNotifier(func(n campaign.Notification) {
			failure = &n
		}),
	)
	defer m.Close()

	done, err := m.Start(ctx)
	if err != nil {
		return err
	}

	select {
	case <-done:
	case <-ctx.Done():
		_ = m.Close()
		fmt.Fprintln(errw)
		return ctx.Err()
	}
	fmt.Fprintln(errw)

	snap := m.Snapshot()
	if failure != nil {
		slog.Debug("run failed", "error", failure.Err)
		fmt.Fprintf(errw, "%s: %s\n", failure.Title, failure.Description)
		return fmt.Errorf("%w: %w", errRunFailed, failure.Err)
	}
	if snap.State != campaign.StateSuccess || snap.Result == nil {
		return errRunFailed
	}
	return printResult(w, *snap.Result, snap.Elapsed)
}

func printResult(w io.Writer, r models.OutreachResult, elapsed int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Campaign complete")
	fmt.Fprintf(tw, "Clients reached\t%d\n", r.ClientsReached)
	fmt.Fprintf(tw, "Emails sent\t%d\n", r.EmailsSent)
	fmt.Fprintf(tw, "Success rate\t%d%%\n", r.SuccessRate)
	fmt.Fprintf(tw, "Avg personalization\t%d%%\n", r.AvgPersonalization)
	fmt.Fprintf(tw, "Execution time\t%ds\n", r.ExecutionTime)
	fmt.Fprintf(tw, "Waited\t%ds\n", elapsed)
	return tw.Flush()
}
