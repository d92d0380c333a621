// Command lutconv converts 3D LUTs between the vendor raw dump, CUBE text and
// the .MS-LUT binary format.
//
//	lutconv cube2bin assets/luts
//	lutconv raw2cube --size 64 dumps/ cubes/
//	lutconv raw2strip dumps/ previews/
//	lutconv info assets/luts/classic.bin
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v3"

	"github.com/gogpu/lutconv"
	"github.com/gogpu/lutconv/binlut"
	"github.com/gogpu/lutconv/lut"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "lutconv",
		Usage: "convert 3D color LUTs between raw, CUBE and binary formats",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"j"},
				Value:   1,
				Usage:   "number of files converted concurrently",
				Sources: cli.EnvVars("LUTCONV_WORKERS"),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log discovery and per-file details",
				Sources: cli.EnvVars("LUTCONV_VERBOSE"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level := slog.LevelInfo
			if cmd.Bool("verbose") {
				level = slog.LevelDebug
			}
			lutconv.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return ctx, nil
		},
		Commands: []*cli.Command{
			cube2binCmd(),
			rawCmd("raw2cube", "convert vendor .data dumps in <inDir> to CUBE files in <outDir>", (*lutconv.Converter).RawToCube),
			rawCmd("raw2strip", "render vendor .data dumps in <inDir> as TIFF strips in <outDir>", (*lutconv.Converter).RawToStrip),
			infoCmd(),
		},
	}
}

// maxWorkers bounds --workers; more goroutines than this only add contention.
const maxWorkers = 1024

// workers reads the global --workers flag.
func workers(cmd *cli.Command) (lutconv.Option, error) {
	n := cmd.Int("workers")
	if n < 1 || n > maxWorkers {
		return nil, fmt.Errorf("lutconv: --workers must be between 1 and %d, got %d", maxWorkers, n)
	}
	return lutconv.WithWorkers(int(n)), nil
}

// rawSize reads --size, rejecting values the converters cannot address.
func rawSize(cmd *cli.Command) (lutconv.Option, error) {
	n := cmd.Int("size")
	if n < 1 || n > lut.MaxSize {
		return nil, fmt.Errorf("lutconv: --size must be between 1 and %d, got %d", lut.MaxSize, n)
	}
	return lutconv.WithRawSize(int(n)), nil
}

func sizeFlag() cli.Flag {
	return &cli.IntFlag{
		Name:    "size",
		Value:   lut.DefaultSize,
		Usage:   "edge length of the raw dumps",
		Sources: cli.EnvVars("LUTCONV_SIZE"),
	}
}

func cube2binCmd() *cli.Command {
	return &cli.Command{
		Name:      "cube2bin",
		Usage:     "convert every .cube file under <root> to a sibling .bin",
		ArgsUsage: "<root>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cli.Exit("usage: lutconv cube2bin <root>", 2)
			}
			w, err := workers(cmd)
			if err != nil {
				return err
			}
			return finish(lutconv.NewConverter(w).CubeToBinary(ctx, cmd.Args().Get(0)))
		},
	}
}

type rawBatch func(c *lutconv.Converter, ctx context.Context, inDir, outDir string) (*lutconv.Report, error)

func rawCmd(name, usage string, batch rawBatch) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<inDir> <outDir>",
		Flags:     []cli.Flag{sizeFlag()},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 2 {
				return cli.Exit(fmt.Sprintf("usage: lutconv %s [--size N] <inDir> <outDir>", name), 2)
			}
			w, err := workers(cmd)
			if err != nil {
				return err
			}
			size, err := rawSize(cmd)
			if err != nil {
				return err
			}
			c := lutconv.NewConverter(w, size)
			return finish(batch(c, ctx, cmd.Args().Get(0), cmd.Args().Get(1)))
		},
	}
}

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the header of a .bin LUT",
		ArgsUsage: "<file.bin>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return cli.Exit("usage: lutconv info <file.bin>", 2)
			}
			data, err := os.ReadFile(cmd.Args().Get(0))
			if err != nil {
				return err
			}
			h, t, err := binlut.Decode(data)
			if err != nil {
				return err
			}
			fmt.Println(h)
			fmt.Println(t)
			return nil
		},
	}
}

// finish turns a batch result into the process outcome: any failed file
// makes the command fail.
func finish(r *lutconv.Report, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(r)
	if r.Failed() > 0 {
		return fmt.Errorf("lutconv: %d of %d files failed", r.Failed(), r.Attempted)
	}
	return nil
}
