package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/carlmjohnson/versioninfo"
	"github.com/iancoleman/strcase"
	"github.com/urfave/cli/v2"

	tilepyramid "github.com/pdok/tilepyramid"
	"github.com/pdok/tilepyramid/diag"
	"github.com/pdok/tilepyramid/geojson"
	"github.com/pdok/tilepyramid/gpkg"
	"github.com/pdok/tilepyramid/mvt"
	"github.com/pdok/tilepyramid/processing"
)

const SOURCE string = `source`
const MAXZOOM string = `max-zoom`
const INDEXMAXZOOM string = `index-max-zoom`
const INDEXMAXPOINTS string = `index-max-points`
const TOLERANCE string = `tolerance`
const TARGET string = `target`
const DEBUG string = `debug`

//nolint:funlen
func main() {
	app := cli.NewApp()
	app.Name = "tilepyramid"
	app.Usage = "Builds a vector tile pyramid from a GeoJSON source"
	app.Version = versioninfo.Short()

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:     SOURCE,
			Aliases:  []string{"s"},
			Usage:    "Source GeoJSON file",
			Required: true,
			EnvVars:  []string{strcase.ToScreamingSnake(SOURCE)},
		},
		&cli.IntFlag{
			Name:    MAXZOOM,
			Aliases: []string{"z"},
			Usage:   "Deepest zoom level the pyramid can be drilled down to",
			Value:   14,
			EnvVars: []string{strcase.ToScreamingSnake(MAXZOOM)},
		},
		&cli.IntFlag{
			Name:    INDEXMAXZOOM,
			Usage:   "Deepest zoom level built eagerly and cached",
			Value:   5,
			EnvVars: []string{strcase.ToScreamingSnake(INDEXMAXZOOM)},
		},
		&cli.IntFlag{
			Name:    INDEXMAXPOINTS,
			Usage:   "Stop eager recursion into a branch once its tile holds this many points",
			Value:   100000,
			EnvVars: []string{strcase.ToScreamingSnake(INDEXMAXPOINTS)},
		},
		&cli.Float64Flag{
			Name:    TOLERANCE,
			Aliases: []string{"t"},
			Usage:   "Base simplification tolerance, in tile-extent pixels",
			Value:   3,
			EnvVars: []string{strcase.ToScreamingSnake(TOLERANCE)},
		},
		&cli.StringFlag{
			Name:     TARGET,
			Aliases:  []string{"o"},
			Usage:    "Target GeoPackage (prefix). One GeoPackage per zoom level will be created, filename suffixed. E.g. target_6.gpkg",
			Required: false,
			EnvVars:  []string{strcase.ToScreamingSnake(TARGET)},
		},
		&cli.BoolFlag{
			Name:    DEBUG,
			Usage:   "Attach a diagnostics sink that logs counters and timings",
			EnvVars: []string{strcase.ToScreamingSnake(DEBUG)},
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "tile",
			Usage:     "Dump a single tile's MVT bytes to stdout",
			ArgsUsage: "Z X Y",
			Action:    tileAction,
		},
	}

	app.Action = dumpAction

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func buildPyramid(c *cli.Context) (*tilepyramid.Pyramid, *config, error) {
	cfg, err := configFromContext(c)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("opening source: %w", err)
	}
	defer f.Close()

	features, err := geojson.ConvertFeatures(f, cfg.MaxZoom, cfg.Tolerance)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing source: %w", err)
	}

	opts := []tilepyramid.Option{
		tilepyramid.WithIndexMaxZoom(cfg.IndexMaxZoom),
		tilepyramid.WithIndexMaxPoints(cfg.IndexMaxPoints),
		tilepyramid.WithTolerance(cfg.Tolerance),
	}
	if cfg.Debug {
		opts = append(opts, tilepyramid.WithDebug(diag.NewLogSink(log.Default())))
	}

	return tilepyramid.New(features, cfg.MaxZoom, opts...), cfg, nil
}

func tileAction(c *cli.Context) error {
	if c.Args().Len() != 3 {
		return cli.Exit("expected Z X Y arguments", 1)
	}
	z, err := strconv.ParseUint(c.Args().Get(0), 10, 8)
	if err != nil {
		return fmt.Errorf("parsing Z: %w", err)
	}
	x, err := strconv.ParseUint(c.Args().Get(1), 10, 32)
	if err != nil {
		return fmt.Errorf("parsing X: %w", err)
	}
	y, err := strconv.ParseUint(c.Args().Get(2), 10, 32)
	if err != nil {
		return fmt.Errorf("parsing Y: %w", err)
	}

	pyramid, _, err := buildPyramid(c)
	if err != nil {
		return err
	}

	tile := pyramid.GetTile(uint8(z), uint32(x), uint32(y))
	data, err := mvt.Marshal(tile)
	if err != nil {
		return fmt.Errorf("encoding tile: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func dumpAction(c *cli.Context) error {
	pyramid, cfg, err := buildPyramid(c)
	if err != nil {
		return err
	}
	if cfg.Target == "" {
		return cli.Exit("--target is required when no subcommand is given", 1)
	}

	targets := make(map[uint8]processing.Target, int(cfg.IndexMaxZoom)+1)
	for z := uint8(0); z <= cfg.IndexMaxZoom; z++ {
		target, err := gpkg.Init(fmt.Sprintf("%s_%d.gpkg", cfg.Target, z))
		if err != nil {
			return fmt.Errorf("initializing target for zoom %d: %w", z, err)
		}
		defer target.Close()
		targets[z] = target
	}

	log.Println("=== start tile dump ===")
	if err := processing.DumpTiles(pyramid, targets); err != nil {
		return fmt.Errorf("dumping tiles: %w", err)
	}
	log.Println("=== done tile dump ===")
	return nil
}
