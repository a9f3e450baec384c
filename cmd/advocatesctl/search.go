package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/advocates-api/pkg/client"
)

func newSearchCmd() *cobra.Command {
	var (
		filters client.Filters
		limit   int
		all     bool
		local   string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the directory API",
		Example: `  advocatesctl search --city austin --min-years 5
  advocatesctl search --q "anxiety" --all
  advocatesctl search --specialty trauma --local "san jose"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			ctrl := client.NewController(client.New(apiURL), client.WithPageSize(limit))
			defer ctrl.Close()

			snap, err := collect(ctx, ctrl, filters, all)
			if err != nil {
				return err
			}

			advocates := snap.Advocates
			if local != "" {
				advocates = ctrl.FilterLocal(local)
			}

			if jsonOutput {
				printJSON(map[string]interface{}{
					"data":        advocates,
					"hasNextPage": snap.HasNextPage,
					"nextCursor":  snap.NextCursor,
					"error":       snap.Err,
				})
			} else {
				fmt.Print(renderAdvocates(fmt.Sprintf("Advocates (%d)", len(advocates)), advocates, searchFooter(snap)))
			}
			if snap.State == client.StateError {
				fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(snap.Err))
				return errors.New(snap.Err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filters.Query, "q", "", "Free text over name, city, degree and specialties")
	cmd.Flags().StringVar(&filters.City, "city", "", "City contains")
	cmd.Flags().StringVar(&filters.Degree, "degree", "", "Degree contains")
	cmd.Flags().StringVar(&filters.Specialty, "specialty", "", "Specialty text")
	cmd.Flags().StringVar(&filters.MinYears, "min-years", "", "Minimum years of experience")
	cmd.Flags().StringVar(&filters.MaxYears, "max-years", "", "Maximum years of experience")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size (server default when 0)")
	cmd.Flags().BoolVar(&all, "all", false, "Follow cursors until the last page")
	cmd.Flags().StringVar(&local, "local", "", "Narrow loaded results with the tolerant local matcher")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall deadline")
	return cmd
}

// collect runs a first-page search and, with all set, keeps loading pages.
// It stops at the first error and returns the settled snapshot.
func collect(ctx context.Context, ctrl *client.Controller, filters client.Filters, all bool) (client.Snapshot, error) {
	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	ctrl.Apply(filters)
	for {
		snap, err := settled(ctx, updates)
		if err != nil {
			return snap, err
		}
		if !all || snap.State == client.StateError || !snap.HasNextPage {
			return snap, nil
		}
		ctrl.LoadMore()
	}
}

func settled(ctx context.Context, updates <-chan client.Snapshot) (client.Snapshot, error) {
	for {
		select {
		case <-ctx.Done():
			return client.Snapshot{}, ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return client.Snapshot{}, errors.New("search controller closed")
			}
			if snap.State == client.StateLoaded || snap.State == client.StateError {
				return snap, nil
			}
		}
	}
}

func searchFooter(snap client.Snapshot) string {
	footer := "end of results"
	if snap.HasNextPage {
		footer = "more results: --all to load every page"
	}
	if snap.CursorIgnored {
		footer += " (cursor ignored by server)"
	}
	return footer
}
