// crop_file runs images through the editor without a UI: zoom, pan or auto-frame,
// then export at the viewport size.
//
//	crop_file -zoom 1.5 -dx -40 -out ./cropped photo.jpg other.png
package main

import (
	"context"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dixieflatline76/Recrop/config"
	"github.com/dixieflatline76/Recrop/pkg/blob"
	"github.com/dixieflatline76/Recrop/pkg/editor"
	"github.com/dixieflatline76/Recrop/util/log"
	"golang.org/x/sync/errgroup"
)

// edit describes what to do to every input file.
type edit struct {
	zoom      float64
	dx, dy    float64
	autoFrame bool
	outDir    string
	opts      editor.Options
}

func main() {
	var e edit
	e.opts = editor.DefaultOptions()

	flag.Float64Var(&e.zoom, "zoom", config.DefaultZoom, "zoom factor, clamped to [min-zoom, max-zoom]")
	flag.Float64Var(&e.dx, "dx", 0, "horizontal pan in viewport pixels")
	flag.Float64Var(&e.dy, "dy", 0, "vertical pan in viewport pixels")
	flag.BoolVar(&e.autoFrame, "auto", false, "auto-frame the most interesting region instead of -zoom")
	flag.StringVar(&e.outDir, "out", ".", "output directory")
	flag.IntVar(&e.opts.Width, "width", config.DefaultViewportWidth, "viewport width")
	flag.IntVar(&e.opts.Height, "height", config.DefaultViewportHeight, "viewport height")
	flag.Float64Var(&e.opts.MinZoom, "min-zoom", config.DefaultZoomMin, "lower zoom bound")
	flag.Float64Var(&e.opts.MaxZoom, "max-zoom", config.DefaultZoomMax, "upper zoom bound")
	flag.StringVar(&e.opts.ExportType, "type", config.DefaultExportType, "export MIME type (image/png or image/jpeg)")
	interp := flag.String("interp", config.DefaultInterpolation, "interpolation: "+strings.Join(editor.InterpolatorNames(), ", "))
	jobs := flag.Int("j", runtime.NumCPU(), "files processed in parallel")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: crop_file [flags] image...")
		flag.PrintDefaults()
		os.Exit(2)
	}
	e.opts.Interpolator = editor.LookupInterpolator(*interp)

	if err := os.MkdirAll(e.outDir, 0o755); err != nil {
		log.Fatalf("Failed to create output directory: %v", err)
	}

	names := outputNames(flag.Args(), e.opts.ExportType)
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*jobs)
	for i, path := range flag.Args() {
		g.Go(func() error {
			out, err := e.apply(ctx, path, names[i])
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			fmt.Printf("%s -> %s\n", path, out)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// apply edits one file and writes the export to outDir as outName.
func (e edit) apply(ctx context.Context, path, outName string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	f := blob.File{
		Name: filepath.Base(path),
		Type: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Data: data,
	}

	src, err := editor.DecodeFile(ctx, f)
	if err != nil {
		return "", err
	}

	opts := e.opts
	opts.ExportName = outName
	sess := editor.NewSession(src, opts)
	defer sess.Close()

	if e.autoFrame {
		if err := sess.AutoFrame(); err != nil {
			return "", fmt.Errorf("auto-framing: %w", err)
		}
	} else {
		sess.SetZoom(e.zoom)
	}
	if e.dx != 0 || e.dy != 0 {
		sess.PointerDown(editor.Point{})
		sess.PointerMove(editor.Point{X: e.dx, Y: e.dy})
		sess.PointerUp()
	}

	exp, err := sess.Export()
	if err != nil {
		return "", err
	}
	out := filepath.Join(e.outDir, exp.File.Name)
	if err := os.WriteFile(out, exp.File.Data, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

// outputName swaps name's extension for one matching contentType.
func outputName(name, contentType string) string {
	ext := ".png"
	if contentType == "image/jpeg" {
		ext = ".jpg"
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "-edited" + ext
}

// outputNames picks an output name for every path. Inputs that share a base name get
// a numeric suffix in argument order so no export overwrites another.
func outputNames(paths []string, contentType string) []string {
	names := make([]string, len(paths))
	used := make(map[string]bool, len(paths))
	for i, path := range paths {
		name := outputName(filepath.Base(path), contentType)
		ext := filepath.Ext(name)
		stem := strings.TrimSuffix(name, ext)
		for n := 2; used[strings.ToLower(name)]; n++ {
			name = fmt.Sprintf("%s-%d%s", stem, n, ext)
		}
		used[strings.ToLower(name)] = true
		names[i] = name
	}
	return names
}
