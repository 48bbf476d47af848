package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/spf13/cobra"
)

func newMaintenanceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "maintenance",
		Aliases: []string{"m"},
		Short:   "Log and analyse maintenance",
	}

	criteria := models.NewMaintenanceFilter()
	var allVehicles bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List maintenance entries matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := a.maintenance.Filter(criteria, !allVehicles)
			return a.render(cmd, entries, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "DATE\tVEHICLE\tTITLE\tDURATION\tTAGS\t")
				for _, e := range entries {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", e.Date, e.Vehicle, e.Title, e.Duration, strings.Join(e.Tags, ", "))
				}
				return tw.Flush()
			})
		},
	}
	listCmd.Flags().StringVar(&criteria.SearchText, "search", "", "Case-insensitive text in title, description or vehicle")
	listCmd.Flags().StringVar(&criteria.Vehicle, "vehicle", models.FilterAll, "Vehicle name contains")
	listCmd.Flags().StringVar(&criteria.MaintenanceType, "type", models.FilterAll, "Tag")
	listCmd.Flags().StringVar(&criteria.StartDate, "from", "", "Earliest date, YYYY-MM-DD")
	listCmd.Flags().StringVar(&criteria.EndDate, "to", "", "Latest date, YYYY-MM-DD")
	listCmd.Flags().BoolVar(&allVehicles, "all-vehicles", false, "Ignore the active vehicle")

	var entry models.MaintenanceEntry
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Log a maintenance entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := entry.Clone()
			if e.Vehicle == "" {
				e.Vehicle, _ = a.maintenance.ActiveVehicle()
			}
			if e.Date == "" {
				e.Date = time.Now().Format("2006-01-02")
			}
			if ok, errs := a.maintenance.Validate(e); !ok {
				return errors.New(strings.Join(errs, "; "))
			}
			if _, err := a.maintenance.Add(e); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged %q for %s on %s\n", e.Title, e.Vehicle, e.Date)
			return nil
		},
	}
	addCmd.Flags().StringVar(&entry.Title, "title", "", "Title")
	addCmd.Flags().StringVar(&entry.Vehicle, "vehicle", "", "Vehicle (default the active vehicle)")
	addCmd.Flags().StringVar(&entry.Date, "date", "", "Date, YYYY-MM-DD (default today)")
	addCmd.Flags().StringVar(&entry.Duration, "duration", "", `Time spent, e.g. "1 hour 30 minutes"`)
	addCmd.Flags().StringVar(&entry.Description, "description", "", "Description")
	addCmd.Flags().StringVar(&entry.HandbookRef, "handbook-ref", "", "Handbook reference")
	addCmd.Flags().StringSliceVar(&entry.Tags, "tag", nil, "Tag, repeatable. Common tags: "+strings.Join(models.DefaultTags, ", "))

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate all entries per vehicle, month and tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := a.maintenance.Statistics()
			return a.render(cmd, stats, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "VEHICLE\tENTRIES\tHOURS\t")
				for _, v := range stats.VehicleOrder {
					vs := stats.Vehicles[v]
					fmt.Fprintf(tw, "%s\t%d\t%.1f\t\n", v, vs.Count, float64(vs.TotalMinutes)/60)
				}
				fmt.Fprintln(tw, "\t\t\t")
				fmt.Fprintln(tw, "TAG\tENTRIES\t\t")
				for _, tag := range stats.TagOrder {
					fmt.Fprintf(tw, "%s\t%d\t\t\n", tag, stats.Tags[tag])
				}
				return tw.Flush()
			})
		},
	}

	chartCmd := &cobra.Command{
		Use:       "chart KIND",
		Short:     "Print chart data: frequency, pie or vehicle_comparison",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(models.ChartFrequency), string(models.ChartPie), string(models.ChartVehicleComparison)},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.maintenance.ChartData(models.ChartKind(args[0]))
			if err != nil {
				return err
			}
			return a.render(cmd, data, func(w io.Writer) error {
				fmt.Fprintln(w, data.Title)
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				for i, label := range data.Labels {
					fmt.Fprintf(tw, "%s\t%d\t\n", label, data.Values[i])
				}
				for i, name := range data.VehicleNames {
					fmt.Fprintf(tw, "%s\t%d entries\t%.1f h\t\n", name, data.Counts[i], data.Times[i])
				}
				return tw.Flush()
			})
		},
	}

	cmd.AddCommand(listCmd, addCmd, statsCmd, chartCmd)
	return cmd
}
