package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/dherslof/racing-companion/internal/registry"
	"github.com/spf13/cobra"
)

func parseIndex(arg string) (int, error) {
	index, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid track day index %q", arg)
	}
	return index, nil
}

func newTrackDaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trackdays",
		Aliases: []string{"td"},
		Short:   "List, create and export track days",
		Long: `Track days are listed for the active vehicle when --active is given.
INDEX arguments refer to the positions printed by "rc trackdays list" with
the same --active value.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List track days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days := a.trackDays.Filtered()
			return a.render(cmd, days, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "INDEX\tDATE\tTRACK\tORGANIZER\tVEHICLE\tSESSIONS\t")
				for i, d := range days {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t\n", i, d.Date, d.Track, d.Organizer, d.Vehicle, len(d.Sessions))
				}
				return tw.Flush()
			})
		},
	}

	var track, date, organizer, vehicle string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a track day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if vehicle == "" {
				vehicle = defaultVehicle(a)
			}
			day, err := a.trackDays.Create(track, date, organizer, vehicle)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created track day at %s on %s for %s\n", day.Track, day.Date, day.Vehicle)
			return nil
		},
	}
	createCmd.Flags().StringVar(&track, "track", "", "Track name")
	createCmd.Flags().StringVar(&date, "date", "", "Date, YYYY-MM-DD")
	createCmd.Flags().StringVar(&organizer, "organizer", "", "Organizer")
	createCmd.Flags().StringVar(&vehicle, "vehicle", "", "Vehicle (default the active or first registered vehicle)")

	exportCmd := &cobra.Command{
		Use:   "export INDEX PATH",
		Short: "Export a track day and its sessions to CSV",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.trackDays.ExportCSV(index, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported track day %d to %s\n", index, args[1])
			return nil
		},
	}

	cmd.AddCommand(listCmd, createCmd, exportCmd)
	return cmd
}

// defaultVehicle mirrors the vehicle picker: the active vehicle, else the
// first registered one, else the placeholder.
func defaultVehicle(a *app) string {
	if active, ok := a.vehicles.Active(); ok {
		return active
	}
	if all := a.vehicles.All(); len(all) > 0 {
		return all[0]
	}
	return models.NoVehiclesAvailable
}

func newSessionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List and add sessions of a track day",
	}

	listCmd := &cobra.Command{
		Use:   "list INDEX",
		Short: "List the sessions of a track day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if _, ok := a.trackDays.Get(index); !ok {
				return registry.ErrTrackDayNotFound
			}
			sessions := a.trackDays.Sessions(index)
			return a.render(cmd, sessions, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "SESSION\tLAPS\tVEHICLE\tWEATHER\tTIRES\tBEST LAP\tCOMMENTS\t")
				for i, s := range sessions {
					tires := strings.TrimSpace(s.TireType + " " + s.TireStatus)
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n", s.Label(i+1), s.Laps, s.Vehicle, s.Weather, tires, s.BestLapTime, s.Comments)
				}
				return tw.Flush()
			})
		},
	}

	var s models.Session
	addCmd := &cobra.Command{
		Use:   "add INDEX",
		Short: "Add a session to a track day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if _, ok := a.trackDays.Get(index); !ok {
				return registry.ErrTrackDayNotFound
			}
			session := s
			if session.SessionNumber == "" {
				session.SessionNumber = a.trackDays.NextSessionNumber(index)
			}
			if session.Vehicle == "" {
				session.Vehicle = a.trackDays.TrackDayVehicle(index)
			}
			if ok, msg := a.trackDays.ValidateSession(session); !ok {
				return errors.New(msg)
			}
			if _, err := a.trackDays.AddSession(index, session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added session %s\n", session.SessionNumber)
			return nil
		},
	}
	addCmd.Flags().StringVar(&s.SessionNumber, "number", "", "Session number (default next number)")
	addCmd.Flags().StringVar(&s.Laps, "laps", "", "Laps driven")
	addCmd.Flags().StringVar(&s.Vehicle, "vehicle", "", "Vehicle (default the track day's vehicle)")
	addCmd.Flags().StringVar(&s.Weather, "weather", "", "Weather: "+strings.Join(models.WeatherOptions, ", "))
	addCmd.Flags().StringVar(&s.TireType, "tire-type", "", "Tire type")
	addCmd.Flags().StringVar(&s.TireStatus, "tire-status", "", "Tire status")
	addCmd.Flags().StringVar(&s.BestLapTime, "best-lap", "", "Best lap time")
	addCmd.Flags().StringVar(&s.Comments, "comments", "", "Comments")

	cmd.AddCommand(listCmd, addCmd)
	return cmd
}
