package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dherslof/racing-companion/internal/models"
	"github.com/spf13/cobra"
)

// vehicleRow is one line of `rc vehicles list`.
type vehicleRow struct {
	models.Vehicle `yaml:",inline"`
	Abbreviation   string `json:"abbreviation" yaml:"abbreviation"`
	Active         bool   `json:"active" yaml:"active"`
}

func newVehiclesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"v"},
		Short:   "List, add and delete vehicles",
	}

	var (
		vehicleType string
		year        int
		misc        string
	)
	addCmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			added, err := a.vehicles.Add(name, vehicleType, year, misc)
			if !added {
				return fmt.Errorf("vehicle %q is empty or already registered", name)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", name, a.vehicles.TypeAbbreviation(name))
			return nil
		},
	}
	addCmd.Flags().StringVar(&vehicleType, "type", models.VehicleTypeCar, "Vehicle type: "+strings.Join(models.VehicleTypes, ", "))
	addCmd.Flags().IntVar(&year, "year", 0, "Model year (default current year)")
	addCmd.Flags().StringVar(&misc, "misc", "", "Free-form notes")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered vehicles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]vehicleRow, 0)
			for _, v := range a.vehicles.Vehicles() {
				rows = append(rows, vehicleRow{
					Vehicle:      v,
					Abbreviation: models.TypeAbbreviation(v.Type),
					Active:       a.vehicles.IsActive(v.Name),
				})
			}
			return a.render(cmd, rows, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tTYPE\tYEAR\tMISC\t")
				for _, r := range rows {
					name := r.Name
					if r.Active {
						name = "* " + name
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t\n", name, r.Abbreviation, r.Year, r.Misc)
				}
				return tw.Flush()
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a vehicle. Track days and maintenance entries keep its name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := a.vehicles.Delete(args[0])
			if !deleted {
				return fmt.Errorf("vehicle %q not found", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.AddCommand(listCmd, addCmd, deleteCmd)
	return cmd
}
