package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/textwarden/anchor/internal/overlay"
	"github.com/textwarden/anchor/internal/resolve"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Draw a resolution result onto a screenshot",
	Long: `Draw the underline segments, primary anchor box, and hit-test region of
a saved resolution result onto a screenshot, for visually verifying what
the engine resolved.

The result file is the JSON printed by "anchor resolve --format json".

Examples:
  anchor annotate --in shot.png --result result.json --out annotated.png --display-height 1080
  anchor annotate --in retina.png --result result.json --out annotated.png --display-height 1117 --scale 2`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	annotateCmd.Flags().String("in", "", "Input screenshot (png or jpg)")
	annotateCmd.Flags().String("result", "", "Resolution result JSON file")
	annotateCmd.Flags().String("out", "", "Output image path")
	annotateCmd.Flags().Float64("display-height", 0, "Height in points of the display the result was resolved on")
	annotateCmd.Flags().Float64("scale", 1.0, "Points-to-pixels scale of the screenshot (2.0 for Retina)")
	annotateCmd.Flags().Float64("thickness", 0, "Underline thickness in points (0 = default)")
	annotateCmd.MarkFlagRequired("in")
	annotateCmd.MarkFlagRequired("result")
	annotateCmd.MarkFlagRequired("out")
	annotateCmd.MarkFlagRequired("display-height")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	inPath, _ := cmd.Flags().GetString("in")
	resultPath, _ := cmd.Flags().GetString("result")
	outPath, _ := cmd.Flags().GetString("out")
	displayHeight, _ := cmd.Flags().GetFloat64("display-height")
	scale, _ := cmd.Flags().GetFloat64("scale")
	thickness, _ := cmd.Flags().GetFloat64("thickness")

	data, err := os.ReadFile(resultPath)
	if err != nil {
		return fmt.Errorf("read result: %w", err)
	}
	var res resolve.GeometryResult
	if err := json.Unmarshal(data, &res); err != nil {
		return fmt.Errorf("parse result %s: %w", resultPath, err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("open screenshot: %w", err)
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("decode screenshot %s: %w", inPath, err)
	}

	annotated, err := overlay.AnnotateResult(img, res, overlay.AnnotateOptions{
		DisplayHeight:      displayHeight,
		Scale:              scale,
		UnderlineThickness: thickness,
	})
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer out.Close()

	if strings.HasSuffix(strings.ToLower(outPath), ".jpg") || strings.HasSuffix(strings.ToLower(outPath), ".jpeg") {
		err = jpeg.Encode(out, annotated, &jpeg.Options{Quality: 90})
	} else {
		err = png.Encode(out, annotated)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
