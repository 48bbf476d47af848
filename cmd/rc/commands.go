package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dherslof/racing-companion/internal/config"
	"github.com/dherslof/racing-companion/internal/db"
	"github.com/dherslof/racing-companion/internal/registry"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

// app holds the registries one invocation works on.
type app struct {
	dataDir string
	active  string
	output  string

	logger      *log.Logger
	vehicles    *registry.VehicleRegistry
	trackDays   *registry.TrackDayRegistry
	maintenance *registry.MaintenanceRegistry
}

func newRootCmd() *cobra.Command {
	a := &app{logger: log.New()}

	rootCmd := &cobra.Command{
		Use:   "rc",
		Short: "Manage vehicles, track days and maintenance records",
		Long: `rc works directly on the Racing Companion record files: the vehicle
registry, track days with their sessions, and the maintenance log.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "Storage directory (default $RC_DATA_DIR or ~/.local/racing-companion/.rcstorage)")
	rootCmd.PersistentFlags().StringVar(&a.active, "active", "", "Active vehicle for this invocation")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputText, "Output format: text, json or yaml")

	rootCmd.AddCommand(
		newVehiclesCmd(a),
		newTrackDaysCmd(a),
		newSessionsCmd(a),
		newMaintenanceCmd(a),
	)
	return rootCmd
}

// load reads the configuration and the three collections.
func (a *app) load(cmd *cobra.Command) error {
	switch a.output {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q", a.output)
	}

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	a.logger.SetOutput(cmd.ErrOrStderr())
	if err := cfg.ConfigureLogger(a.logger); err != nil {
		return err
	}
	if a.dataDir == "" {
		a.dataDir = cfg.DataDir
	}

	coll := db.NewJSONCollection(db.NewFileStore(a.dataDir))
	if a.vehicles, err = registry.NewVehicleRegistry(coll, a.logger); err != nil {
		return err
	}
	if a.trackDays, err = registry.NewTrackDayRegistry(coll, a.vehicles, a.logger); err != nil {
		return err
	}
	if a.maintenance, err = registry.NewMaintenanceRegistry(coll, a.vehicles, a.logger); err != nil {
		return err
	}

	if a.active != "" && !a.vehicles.SetActive(a.active) {
		return fmt.Errorf("unknown vehicle %q", a.active)
	}
	return nil
}

// render writes v in the selected format. text prints the human form.
func (a *app) render(cmd *cobra.Command, v interface{}, text func(w io.Writer) error) error {
	w := cmd.OutOrStdout()
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return text(w)
	}
}
