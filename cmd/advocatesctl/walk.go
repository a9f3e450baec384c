package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/noah-isme/advocates-api/pkg/client"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

// walkReport summarises a full cursor traversal.
type walkReport struct {
	Pages      int     `json:"pages"`
	Records    int     `json:"records"`
	Duplicates []int64 `json:"duplicates"`
	OutOfOrder []int64 `json:"outOfOrder"`
	Elapsed    string  `json:"elapsed"`
}

// OK reports whether the concatenated pages were duplicate-free and sorted.
func (r walkReport) OK() bool {
	return len(r.Duplicates) == 0 && len(r.OutOfOrder) == 0
}

func newWalkCmd() *cobra.Command {
	var (
		filters  client.Filters
		limit    int
		maxPages int
	)
	cmd := &cobra.Command{
		Use:   "walk",
		Short: "Follow cursors to the end and audit the concatenated pages",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := walkPages(cmd.Context(), client.New(apiURL), filters, limit, maxPages)
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(report)
			} else {
				fmt.Println(summaryStyle.Render(fmt.Sprintf("%d records over %d pages in %s", report.Records, report.Pages, report.Elapsed)))
				if !report.OK() {
					fmt.Println(errorStyle.Render(fmt.Sprintf("duplicates: %v out of order: %v", report.Duplicates, report.OutOfOrder)))
				}
			}
			if !report.OK() {
				return fmt.Errorf("pagination audit failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filters.Query, "q", "", "Free text filter")
	cmd.Flags().StringVar(&filters.City, "city", "", "City contains")
	cmd.Flags().StringVar(&filters.Degree, "degree", "", "Degree contains")
	cmd.Flags().StringVar(&filters.Specialty, "specialty", "", "Specialty text")
	cmd.Flags().StringVar(&filters.MinYears, "min-years", "", "Minimum years of experience")
	cmd.Flags().StringVar(&filters.MaxYears, "max-years", "", "Maximum years of experience")
	cmd.Flags().IntVar(&limit, "limit", pagination.MaxLimit, "Page size")
	cmd.Flags().IntVar(&maxPages, "max-pages", 0, "Stop after this many pages (0 = no limit)")
	return cmd
}

func walkPages(ctx context.Context, searcher client.Searcher, filters client.Filters, limit, maxPages int) (walkReport, error) {
	start := time.Now()
	report := walkReport{Duplicates: []int64{}, OutOfOrder: []int64{}}
	seen := make(map[int64]struct{})

	var (
		cursor string
		last   *pagination.Cursor
	)
	for {
		page, err := searcher.Search(ctx, filters, cursor, limit)
		if err != nil {
			return report, fmt.Errorf("page %d: %w", report.Pages+1, err)
		}
		report.Pages++

		for _, a := range page.Advocates {
			report.Records++
			if _, dup := seen[a.ID]; dup {
				report.Duplicates = append(report.Duplicates, a.ID)
			}
			seen[a.ID] = struct{}{}

			key := pagination.NewCursor(a.CreatedAt, a.ID)
			if last != nil && !key.After(*last) {
				report.OutOfOrder = append(report.OutOfOrder, a.ID)
			}
			last = &key
		}

		if !page.PageInfo.HasNextPage || page.PageInfo.NextCursor == nil {
			break
		}
		if maxPages > 0 && report.Pages >= maxPages {
			break
		}
		cursor = *page.PageInfo.NextCursor
	}

	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	return report, nil
}
