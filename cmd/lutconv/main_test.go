package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCube2Bin(t *testing.T) {
	root := t.TempDir()
	src := "LUT_3D_SIZE 1\n0.5 0.5 0.5\n"
	if err := os.WriteFile(filepath.Join(root, "one.cube"), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := newApp().Run(context.Background(), []string{"lutconv", "cube2bin", root}); err != nil {
		t.Fatalf("cube2bin error = %v", err)
	}
	info, err := os.Stat(filepath.Join(root, "one.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() != 64+12 {
		t.Errorf("one.bin size = %d, want 76", info.Size())
	}

	if err := newApp().Run(context.Background(), []string{"lutconv", "info", filepath.Join(root, "one.bin")}); err != nil {
		t.Errorf("info error = %v", err)
	}
}

func TestCube2BinFailureIsError(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "bad.cube"), []byte("1 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := newApp().Run(context.Background(), []string{"lutconv", "--workers", "2", "cube2bin", root})
	if err == nil || !strings.Contains(err.Error(), "1 of 1 files failed") {
		t.Errorf("cube2bin error = %v, want batch failure", err)
	}
}

func TestRaw2CubeSize(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	// One pixel: 1.0, 0.5, 0.0, 1.0 as little-endian halves.
	pixel := []byte{0x00, 0x3C, 0x00, 0x38, 0x00, 0x00, 0x00, 0x3C}
	if err := os.WriteFile(filepath.Join(in, "tiny.data"), pixel, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := newApp().Run(context.Background(), []string{"lutconv", "raw2cube", "--size", "1", in, out}); err != nil {
		t.Fatalf("raw2cube error = %v", err)
	}
	got, err := os.ReadFile(filepath.Join(out, "tiny.cube"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(got), "LUT_3D_SIZE 1\n1.000000 0.500000 0.000000\n") {
		t.Errorf("tiny.cube = %q", got)
	}
}

func TestRejectsOutOfRangeFlags(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"size zero", []string{"lutconv", "raw2cube", "--size", "0", in, out}, "--size"},
		{"size huge", []string{"lutconv", "raw2cube", "--size", "4194304", in, out}, "--size"},
		{"workers zero", []string{"lutconv", "--workers", "0", "cube2bin", in}, "--workers"},
		{"workers huge", []string{"lutconv", "-j", "5000000000", "raw2strip", in, out}, "--workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(context.Background(), tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Run(%v) error = %v, want %s range error", tt.args, err, tt.want)
			}
		})
	}
	if entries, _ := os.ReadDir(out); len(entries) != 0 {
		t.Errorf("out-of-range flags wrote %d files, want 0", len(entries))
	}
}
