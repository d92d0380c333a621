package lutconv

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gogpu/lutconv/binlut"
	"github.com/gogpu/lutconv/cube"
	"github.com/gogpu/lutconv/internal/atomicfile"
	"github.com/gogpu/lutconv/internal/parallel"
	"github.com/gogpu/lutconv/lut"
	"github.com/gogpu/lutconv/raw"
	"github.com/gogpu/lutconv/strip"
)

// File extensions recognized by the batch pipelines.
const (
	ExtCube    = ".cube"
	ExtBinary  = ".bin"
	ExtRaw     = ".data"
	ExtRawZstd = ".data.zst"
	ExtStrip   = ".tiff"
)

const outputPerms = 0o644

// Converter runs batch conversions. A Converter holds no per-batch state and
// may be reused and shared between goroutines.
type Converter struct {
	opts options
}

// NewConverter returns a Converter configured by opts.
func NewConverter(opts ...Option) *Converter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Converter{opts: o}
}

// CubeToBinary converts every .cube file under root, recursively, into a
// sibling .bin file with the same stem. The extension match ignores case.
//
// The returned error is non-nil only if root cannot be walked or ctx is
// canceled; per-file failures are reported in the Report.
func (c *Converter) CubeToBinary(ctx context.Context, root string) (*Report, error) {
	inputs, err := findCubeFiles(root)
	if err != nil {
		return nil, err
	}
	Logger().Debug("lutconv: discovered CUBE files", slog.String("root", root), slog.Int("count", len(inputs)))

	outcomes := make([]Outcome, len(inputs))
	for i, in := range inputs {
		outcomes[i] = Outcome{
			Input:  in,
			Output: strings.TrimSuffix(in, filepath.Ext(in)) + ExtBinary,
		}
	}
	return c.run(ctx, outcomes, c.cubeToBinary)
}

// RawToCube converts every vendor dump (*.data, *.data.zst) directly inside
// inDir into outDir/<stem>.cube, creating outDir if needed. The CUBE title is
// the stem with underscores replaced by spaces.
func (c *Converter) RawToCube(ctx context.Context, inDir, outDir string) (*Report, error) {
	return c.rawBatch(ctx, inDir, outDir, ExtCube, c.rawToCube)
}

// RawToStrip renders every vendor dump directly inside inDir as a TIFF strip
// in outDir/<stem>.tiff.
func (c *Converter) RawToStrip(ctx context.Context, inDir, outDir string) (*Report, error) {
	return c.rawBatch(ctx, inDir, outDir, ExtStrip, c.rawToStrip)
}

func (c *Converter) rawBatch(ctx context.Context, inDir, outDir, ext string, convert func(*Outcome) error) (*Report, error) {
	if err := lut.CheckSize(c.opts.rawSize); err != nil {
		return nil, fmt.Errorf("lutconv: raw size: %w", err)
	}
	names, err := findRawFiles(inDir)
	if err != nil {
		return nil, err
	}
	Logger().Debug("lutconv: discovered raw dumps", slog.String("dir", inDir), slog.Int("count", len(names)))

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("lutconv: output directory: %w", err)
	}

	outcomes := make([]Outcome, len(names))
	for i, name := range names {
		outcomes[i] = Outcome{
			Input:  filepath.Join(inDir, name),
			Output: filepath.Join(outDir, rawStem(name)+ext),
		}
	}
	return c.run(ctx, outcomes, convert)
}

// run converts each outcome's input, sequentially or on the worker pool.
// Files not started before ctx is canceled are left out of the report.
func (c *Converter) run(ctx context.Context, outcomes []Outcome, convert func(*Outcome) error) (*Report, error) {
	started := make([]bool, len(outcomes))
	var mu sync.Mutex

	jobs := make([]func(), len(outcomes))
	for i := range outcomes {
		jobs[i] = func() {
			if ctx.Err() != nil {
				return
			}
			started[i] = true

			o := &outcomes[i]
			begin := time.Now()
			o.Err = convert(o)
			o.Elapsed = time.Since(begin)

			mu.Lock()
			defer mu.Unlock()
			c.observe(*o)
		}
	}

	if c.opts.workers > 1 && len(jobs) > 1 {
		pool := parallel.NewPool(min(c.opts.workers, len(jobs)))
		pool.Run(jobs)
		pool.Close()
	} else {
		for _, job := range jobs {
			job()
		}
	}

	r := &Report{Outcomes: make([]Outcome, 0, len(outcomes))}
	for i, o := range outcomes {
		if !started[i] {
			continue
		}
		r.Attempted++
		if o.OK() {
			r.Succeeded++
		}
		r.Outcomes = append(r.Outcomes, o)
	}
	Logger().Info("lutconv: batch done", slog.Int("attempted", r.Attempted), slog.Int("succeeded", r.Succeeded))
	return r, ctx.Err()
}

func (c *Converter) observe(o Outcome) {
	if o.OK() {
		Logger().Info("lutconv: converted",
			slog.String("input", o.Input),
			slog.String("output", o.Output),
			slog.Int("size", o.Size),
			slog.Duration("elapsed", o.Elapsed))
	} else {
		Logger().Warn("lutconv: conversion failed",
			slog.String("input", o.Input),
			slog.String("kind", lut.KindOf(o.Err).String()),
			slog.Any("err", o.Err))
	}
	if c.opts.observer != nil {
		c.opts.observer(o)
	}
}

func (c *Converter) cubeToBinary(o *Outcome) error {
	f, err := os.Open(o.Input)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := cube.Decode(f)
	if err != nil {
		return err
	}
	o.Size = doc.Table.Size
	o.Skipped = doc.Skipped
	o.Inferred = !doc.Declared
	if o.Inferred {
		Logger().Debug("lutconv: inferred size", slog.String("input", o.Input), slog.Int("size", o.Size))
	}

	return atomicfile.Write(o.Output, outputPerms, func(w io.Writer) error {
		return binlut.Encode(w, doc.Table.Size, doc.Table.Samples)
	})
}

func (c *Converter) rawToCube(o *Outcome) error {
	t, err := c.readRaw(o)
	if err != nil {
		return err
	}
	title := strings.ReplaceAll(rawStem(filepath.Base(o.Input)), "_", " ")
	return atomicfile.Write(o.Output, outputPerms, func(w io.Writer) error {
		return cube.Encode(w, title, t, cube.WithComment(c.opts.comment))
	})
}

func (c *Converter) rawToStrip(o *Outcome) error {
	t, err := c.readRaw(o)
	if err != nil {
		return err
	}
	return atomicfile.Write(o.Output, outputPerms, func(w io.Writer) error {
		return strip.Encode(w, t)
	})
}

// readRaw loads a vendor dump. A short dump fails the file with
// lut.ErrIncompleteRead rather than producing a truncated table.
func (c *Converter) readRaw(o *Outcome) (*lut.Table, error) {
	data, err := os.ReadFile(o.Input)
	if err != nil {
		return nil, err
	}
	if data, err = raw.Decompress(data, c.opts.rawSize); err != nil {
		return nil, err
	}
	res, err := raw.Read(data, c.opts.rawSize)
	if err != nil {
		return nil, err
	}
	t, err := res.Table()
	if err != nil {
		return nil, err
	}
	o.Size = t.Size
	return t, nil
}

// findCubeFiles walks root in lexical order. Unreadable subdirectories are
// skipped; an unreadable root is an error.
func findCubeFiles(root string) ([]string, error) {
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("lutconv: %w", err)
	}
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			Logger().Debug("lutconv: skipping unreadable path", slog.String("path", path), slog.Any("err", err))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ExtCube) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lutconv: %w", err)
	}
	return files, nil
}

// findRawFiles lists dump file names directly inside dir, sorted.
func findRawFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("lutconv: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if name := e.Name(); strings.HasSuffix(name, ExtRaw) || strings.HasSuffix(name, ExtRawZstd) {
			names = append(names, name)
		}
	}
	return names, nil
}

func rawStem(name string) string {
	if s, ok := strings.CutSuffix(name, ExtRawZstd); ok {
		return s
	}
	return strings.TrimSuffix(name, ExtRaw)
}
