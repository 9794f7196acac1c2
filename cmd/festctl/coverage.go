package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/festival-api/internal/calendar"
)

// coverageGap is a calculator year that falls back to an approximate date.
type coverageGap struct {
	Calculator string `json:"calculator"`
	Year       int    `json:"year"`
	Date       string `json:"date"`
}

// newCoverageCmd reports which calculator years are outside the curated
// lookup tables. It exits non-zero when any gap is found so it can gate a
// release that needs exact dates for a range of years.
func newCoverageCmd(opts *options) *cobra.Command {
	var startYear, years int
	cmd := &cobra.Command{
		Use:   "coverage",
		Short: "Report calculator years that fall back to approximate dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if years < 1 {
				return fmt.Errorf("years must be at least 1, got %d", years)
			}
			endYear := startYear + years - 1
			gaps := findCoverageGaps(startYear, endYear)

			if opts.jsonOutput {
				if gaps == nil {
					gaps = []coverageGap{}
				}
				if err := opts.writeJSON(gaps); err != nil {
					return err
				}
			} else {
				fmt.Fprintln(opts.out, strings.Repeat("=", 60))
				fmt.Fprintf(opts.out, "Calculator coverage %d-%d\n", startYear, endYear)
				fmt.Fprintln(opts.out, strings.Repeat("=", 60))
				fmt.Fprintf(opts.out, "Calculators:  %d\n", len(calendar.Names()))
				fmt.Fprintf(opts.out, "Approximate:  %d\n", len(gaps))
				for _, g := range gaps {
					fmt.Fprintf(opts.out, "  %-18s %d  %s\n", g.Calculator, g.Year, g.Date)
				}
			}

			if len(gaps) > 0 {
				return fmt.Errorf("%d calculator years use approximate dates", len(gaps))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&startYear, "start", 2024, "First year to check")
	cmd.Flags().IntVar(&years, "years", 4, "Number of years to check")
	return cmd
}

func findCoverageGaps(startYear, endYear int) []coverageGap {
	var gaps []coverageGap
	for _, name := range calendar.Names() {
		calc, _ := calendar.Lookup(name)
		for year := startYear; year <= endYear; year++ {
			res := calc(year)
			if !res.IsExact() {
				gaps = append(gaps, coverageGap{
					Calculator: name,
					Year:       year,
					Date:       calendar.FormatDate(res.Date),
				})
			}
		}
	}
	return gaps
}
