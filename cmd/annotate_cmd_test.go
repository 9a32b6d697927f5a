package cmd

import (
	"encoding/json"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/textwarden/anchor/internal/geometry"
	"github.com/textwarden/anchor/internal/resolve"
)

func TestAnnotateCommand_Flags(t *testing.T) {
	for _, name := range []string{"in", "result", "out", "display-height", "scale", "thickness"} {
		if annotateCmd.Flags().Lookup(name) == nil {
			t.Errorf("expected flag %q not found", name)
		}
	}
}

func TestAnnotateCommand_WritesAnnotatedImage(t *testing.T) {
	dir := t.TempDir()

	inPath := filepath.Join(dir, "shot.png")
	f, err := os.Create(inPath)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 300, 200))); err != nil {
		t.Fatalf("encode input: %v", err)
	}
	f.Close()

	line := geometry.Rect{X: 40, Y: 84, Width: 60, Height: 16}
	res := resolve.GeometryResult{
		BoundsPrimary: line,
		AllLineBounds: []geometry.Rect{line},
		HitTest:       line.Expand(4),
		Confidence:    0.9,
		Strategy:      "range-bounds",
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	resultPath := filepath.Join(dir, "result.json")
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		t.Fatalf("write result: %v", err)
	}

	outPath := filepath.Join(dir, "annotated.png")
	_, err = executeCommand(t, "annotate",
		"--in", inPath, "--result", resultPath, "--out", outPath,
		"--display-height", "200", "--cache-dir", dir, "--format", "json")
	if err != nil {
		t.Fatalf("annotate: %v", err)
	}

	out, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer out.Close()
	img, err := png.Decode(out)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 200 {
		t.Errorf("unexpected output size %v", img.Bounds())
	}
}

func TestAnnotateCommand_RejectsUnavailableResult(t *testing.T) {
	dir := t.TempDir()

	inPath := filepath.Join(dir, "shot.png")
	f, err := os.Create(inPath)
	if err != nil {
		t.Fatalf("create input: %v", err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatalf("encode input: %v", err)
	}
	f.Close()

	data, err := json.Marshal(resolve.Unavailable("exhausted"))
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	resultPath := filepath.Join(dir, "result.json")
	if err := os.WriteFile(resultPath, data, 0o644); err != nil {
		t.Fatalf("write result: %v", err)
	}

	_, err = executeCommand(t, "annotate",
		"--in", inPath, "--result", resultPath, "--out", filepath.Join(dir, "out.png"),
		"--display-height", "10", "--cache-dir", dir, "--format", "json")
	if err == nil {
		t.Error("expected error for unavailable result")
	}
}
