package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/samirrijal/skysurvey/internal/core/coverage"
	"github.com/samirrijal/skysurvey/internal/core/domain"
	"github.com/samirrijal/skysurvey/internal/core/usecases"
	"github.com/samirrijal/skysurvey/internal/pkg/geojson"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

type generateOptions struct {
	pattern      string
	subdivisions int
	transit      string
	maxWaypoints int
	speed        float64
	format       string
	output       string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "planpath",
		Short: "Offline coverage flight path generator",
		Long: `planpath plans grid, crosshatch and perimeter survey paths over a polygon
read from a GeoJSON file, using the same planner as the SkySurvey API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	root.AddCommand(newGenerateCmd(), newPatternsCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate <area.geojson>",
		Short: "Generate a flight path for the first polygon in a GeoJSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], opts)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.pattern, "pattern", "p", "grid", "flight pattern: grid, crosshatch or perimeter")
	f.IntVarP(&opts.subdivisions, "subdivisions", "s", coverage.DefaultSubdivisions, "sweep subdivisions per axis")
	f.StringVar(&opts.transit, "transit", "jump", "crosshatch transit: jump or nearest_corner")
	f.IntVar(&opts.maxWaypoints, "max-waypoints", coverage.DefaultMaxWaypoints, "reject paths denser than this")
	f.Float64Var(&opts.speed, "speed", 0, "cruise speed in m/s for the duration estimate")
	f.StringVarP(&opts.format, "format", "f", "geojson", "output format: geojson, json or yaml")
	f.StringVarP(&opts.output, "output", "o", "-", "output file, - for stdout")
	return cmd
}

func newPatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List the supported flight patterns",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, p := range []struct {
				pattern coverage.Pattern
				desc    string
			}{
				{coverage.Grid, "parallel lines along x, alternating direction"},
				{coverage.Crosshatch, "grid followed by lines along y"},
				{coverage.Perimeter, "the area boundary vertices in input order"},
			} {
				fmt.Fprintf(out, "%-11s %s\n", p.pattern, p.desc)
			}
		},
	}
}

func runGenerate(cmd *cobra.Command, file string, opts *generateOptions) error {
	if opts.subdivisions < 1 {
		return coverage.ErrInvalidSubdivisions
	}
	pattern, err := coverage.ParsePattern(opts.pattern)
	if err != nil {
		return err
	}
	transit, err := coverage.ParseTransitPolicy(opts.transit)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read area: %w", err)
	}
	area, err := geojson.DecodePolygon(data)
	if err != nil {
		return fmt.Errorf("%s: %w", file, err)
	}

	planner := coverage.New(coverage.WithTransit(transit), coverage.WithMaxWaypoints(opts.maxWaypoints))
	paths := usecases.NewPathService(planner, nil, nil, usecases.PathDefaults{})
	fp, err := paths.Generate(context.Background(), usecases.PathRequest{
		Area:         area,
		Pattern:      pattern,
		Subdivisions: opts.subdivisions,
		Speed:        opts.speed,
	})
	if err != nil {
		return err
	}

	encoded, err := encodePath(opts.format, area, fp)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.output != "-" {
		f, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	if _, err := out.Write(encoded); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSummary(cmd.ErrOrStderr(), fp)
	return nil
}

// yamlPath is the YAML document layout.
type yamlPath struct {
	Pattern          string           `yaml:"pattern"`
	Subdivisions     int              `yaml:"subdivisions"`
	WaypointCount    int              `yaml:"waypoint_count"`
	DistanceMeters   float64          `yaml:"distance_meters"`
	EstimatedSeconds float64          `yaml:"estimated_seconds,omitempty"`
	Waypoints        []coverage.Point `yaml:"waypoints"`
}

func encodePath(format string, area coverage.Polygon, fp *domain.FlightPath) ([]byte, error) {
	switch strings.ToLower(format) {
	case "geojson":
		data, err := json.MarshalIndent(geojson.EncodePath(area, fp), "", "  ")
		return append(data, '\n'), err
	case "json":
		data, err := json.MarshalIndent(fp, "", "  ")
		return append(data, '\n'), err
	case "yaml", "yml":
		return yaml.Marshal(yamlPath{
			Pattern:          fp.Pattern.String(),
			Subdivisions:     fp.Subdivisions,
			WaypointCount:    fp.WaypointCount,
			DistanceMeters:   fp.DistanceMeters,
			EstimatedSeconds: fp.EstimatedDuration.Seconds(),
			Waypoints:        fp.Waypoints,
		})
	}
	return nil, fmt.Errorf("unknown format %q (want geojson, json or yaml)", format)
}

func printSummary(w io.Writer, fp *domain.FlightPath) {
	_, _ = successColor.Fprintf(w, "✓ %s path planned\n", fp.Pattern)
	row := func(label, value string) {
		_, _ = labelColor.Fprintf(w, "  %-10s", label)
		_, _ = dimColor.Fprintln(w, value)
	}
	row("waypoints", fmt.Sprint(fp.WaypointCount))
	row("distance", fmt.Sprintf("%.0f m", fp.DistanceMeters))
	if fp.EstimatedDuration > 0 {
		row("duration", fp.EstimatedDuration.Round(time.Second).String())
	}
}
