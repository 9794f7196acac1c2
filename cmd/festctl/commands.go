package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/festival-api/internal/calendar"
	"github.com/zapponejosh/festival-api/internal/festival"
	"github.com/zapponejosh/festival-api/internal/logger"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	catalogPath     string
	preFestivalDays int
	jsonOutput      bool
	logLevel        string

	out io.Writer
	log *slog.Logger
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	opts := &options{out: out}

	root := &cobra.Command{
		Use:           "festctl",
		Short:         "Inspect festival dates and resolution",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = logger.New(errOut, opts.logLevel, "text")
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.catalogPath, "catalog", os.Getenv("CATALOG_PATH"), "YAML catalog file (default: $CATALOG_PATH, else built-in catalog)")
	flags.IntVar(&opts.preFestivalDays, "pre-days", festival.DefaultPreFestivalDays, "Pre-festival window in days (0 disables)")
	flags.BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of a table")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	root.AddCommand(
		newDatesCmd(opts),
		newCurrentCmd(opts),
		newUpcomingCmd(opts),
		newMonthCmd(opts),
		newValidateCmd(opts),
		newImportCmd(opts),
		newCoverageCmd(opts),
		newProbeCmd(opts),
	)
	return root
}

// =============================================================================
// Subcommands
// =============================================================================

func newDatesCmd(opts *options) *cobra.Command {
	var (
		year    int
		country string
	)
	cmd := &cobra.Command{
		Use:   "dates",
		Short: "List every festival with its dates for a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}

			occurrences := resolver.AllWithDates(year, country)
			if opts.jsonOutput {
				return opts.writeJSON(occurrences)
			}

			tw := tabwriter.NewWriter(opts.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSTART\tEND\tPRECISION\tPRIORITY")
			for _, o := range occurrences {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					o.Festival.ID, o.Festival.DisplayName,
					calendar.FormatDate(o.Start), calendar.FormatDate(o.End),
					o.Precision, o.Festival.Priority)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&year, "year", time.Now().Year(), "Year to compute")
	cmd.Flags().StringVar(&country, "country", "", "Only festivals for this country code")
	return cmd
}

func newCurrentCmd(opts *options) *cobra.Command {
	var country, date string
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Show the festival to display for a country and date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}

			state := resolver.CurrentWithMeta(country, day)
			if opts.jsonOutput {
				return opts.writeJSON(state)
			}

			if state == nil {
				fmt.Fprintf(opts.out, "No festival for %s on %s\n", country, calendar.FormatDate(day))
				return nil
			}
			if state.IsPreFestival {
				fmt.Fprintf(opts.out, "%s (%s): %s\n", state.Festival.DisplayName, state.Festival.ID, state.PreGreeting)
				return nil
			}
			fmt.Fprintf(opts.out, "%s (%s): %s\n", state.Festival.DisplayName, state.Festival.ID, state.Festival.Greeting)
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", festival.Global, "Country code")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today)")
	return cmd
}

func newUpcomingCmd(opts *options) *cobra.Command {
	var country, date string
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: fmt.Sprintf("List festivals starting within %d days", festival.UpcomingWindowDays),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			day, err := parseDay(date)
			if err != nil {
				return err
			}
			return opts.writeFestivals(resolver.Upcoming(country, day), day)
		},
	}
	cmd.Flags().StringVar(&country, "country", festival.Global, "Country code")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default: today)")
	return cmd
}

func newMonthCmd(opts *options) *cobra.Command {
	var (
		year, month int
		country     string
	)
	now := time.Now()
	cmd := &cobra.Command{
		Use:   "month",
		Short: "List festivals overlapping a calendar month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month < 1 || month > 12 {
				return fmt.Errorf("month must be between 1 and 12, got %d", month)
			}
			resolver, err := opts.resolver()
			if err != nil {
				return err
			}
			// January keeps every start date in the queried year.
			ref := calendar.Date(year, time.January, 1)
			return opts.writeFestivals(resolver.ForMonth(time.Month(month), year, country), ref)
		},
	}
	cmd.Flags().IntVar(&year, "year", now.Year(), "Year")
	cmd.Flags().IntVar(&month, "month", int(now.Month()), "Month (1-12)")
	cmd.Flags().StringVar(&country, "country", festival.Global, "Country code")
	return cmd
}

func newValidateCmd(opts *options) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := festival.LoadFile(file)
			if err != nil {
				return err
			}
			fmt.Fprintf(opts.out, "%s: %d festivals OK\n", file, catalog.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Catalog YAML file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

// catalog loads the catalog the server would load: the --catalog file when
// set, otherwise the built-in one.
func (o *options) catalog() (*festival.Catalog, error) {
	if o.catalogPath != "" {
		return festival.LoadFile(o.catalogPath)
	}
	return festival.Default()
}

func (o *options) resolver() (*festival.Resolver, error) {
	catalog, err := o.catalog()
	if err != nil {
		return nil, err
	}

	o.log.Debug("catalog loaded",
		slog.Int("festivals", catalog.Len()),
		slog.Int("pre_festival_days", o.preFestivalDays),
	)
	return festival.NewResolver(catalog, festival.WithPreFestivalDays(o.preFestivalDays)), nil
}

func (o *options) writeJSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeFestivals prints festivals with their start date in ref's year, or
// the following year when that start is already behind ref's month.
func (o *options) writeFestivals(fs []*festival.Festival, ref time.Time) error {
	if o.jsonOutput {
		if fs == nil {
			fs = []*festival.Festival{}
		}
		return o.writeJSON(fs)
	}
	if len(fs) == 0 {
		fmt.Fprintln(o.out, "No festivals")
		return nil
	}

	tw := tabwriter.NewWriter(o.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTART\tCOUNTRIES")
	for _, f := range fs {
		start := festival.StartDate(f, ref.Year())
		if start.Month() < ref.Month() {
			start = festival.StartDate(f, ref.Year()+1)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			f.ID, f.DisplayName, calendar.FormatDate(start), strings.Join(f.Countries, ","))
	}
	return tw.Flush()
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return calendar.Day(time.Now()), nil
	}
	return calendar.ParseDateString(s)
}
