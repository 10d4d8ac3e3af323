// Command splitcli renders a split preview for an image and two points and
// optionally submits the question to the analysis service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fogleman/gg"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/app"
	"split-analyzer/internal/config"
	"split-analyzer/internal/image"
	"split-analyzer/internal/logger"
	"split-analyzer/internal/render"
	"split-analyzer/internal/report"
	"split-analyzer/internal/tracer"
	"split-analyzer/pkg/geometry"
)

type options struct {
	configPath string
	imagePath  string
	p1, p2     string
	pixel      bool
	question   string
	preview    string
	outDir     string
	reportName string
	submit     bool
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "split-analyzer.yaml", "Path to YAML config file")
	flag.StringVar(&opts.imagePath, "i", "", "Path to input image")
	flag.StringVar(&opts.p1, "p1", "", "First point as x,y")
	flag.StringVar(&opts.p2, "p2", "", "Second point as x,y")
	flag.BoolVar(&opts.pixel, "pixel", false, "Points are natural-image pixels instead of 0..1 fractions")
	flag.StringVar(&opts.question, "q", "", "Question about the two parts")
	flag.StringVar(&opts.preview, "o", "", "Write the rendered preview PNG here")
	flag.StringVar(&opts.outDir, "out", ".", "Directory for the returned part images")
	flag.StringVar(&opts.reportName, "report", "report.json", "Report file name inside -out, empty to skip")
	flag.BoolVar(&opts.submit, "submit", false, "Send the request to the analysis service")
	flag.Parse()

	if opts.imagePath == "" || opts.p1 == "" || opts.p2 == "" {
		fmt.Println("Usage: splitcli -i <image> -p1 x,y -p2 x,y [-pixel] [-o preview.png] [-submit -q <question> -out <dir>]")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracer, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return err
	}
	defer shutdownTracer(context.Background())

	style, err := render.FromConfig(cfg.Render)
	if err != nil {
		return err
	}

	img, err := image.Load(opts.imagePath)
	if err != nil {
		return err
	}

	var client analysis.Client
	if opts.submit {
		client = analysis.NewClient(cfg.Analyzer, log)
	}
	session := app.NewSession(client, render.New(style),
		geometry.SizeInt{Width: cfg.Display.MaxWidth, Height: cfg.Display.MaxHeight}, log)
	if err := session.LoadImage(img); err != nil {
		return err
	}

	for _, raw := range []string{opts.p1, opts.p2} {
		p, err := parsePoint(raw)
		if err != nil {
			return err
		}
		if opts.pixel {
			p = p.ToNormalized(img.Size().ToFloat())
		}
		if err := session.AddPoint(p); err != nil {
			return err
		}
	}

	if opts.preview != "" {
		if err := writePreview(session, opts.preview, out); err != nil {
			return err
		}
	}

	if !opts.submit {
		return nil
	}

	res, err := session.Submit(ctx, opts.question)
	if err != nil {
		return err
	}

	parts := make([]string, 2)
	for i, region := range [][]byte{res.Region1, res.Region2} {
		if len(region) == 0 {
			continue
		}
		path := filepath.Join(opts.outDir, fmt.Sprintf("part%d.png", i+1))
		if err := os.WriteFile(path, region, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		parts[i] = path
		fmt.Fprintf(out, "Wrote %s\n", path)
	}

	if opts.reportName != "" {
		path := filepath.Join(opts.outDir, opts.reportName)
		rep := report.New(res.RequestID, img.Size(), session.Snapshot().Points, opts.question)
		rep.Answer = res.Answer
		rep.ModelReady = res.ModelReady
		rep.ElapsedMS = res.Elapsed.Milliseconds()
		rep.SetImage(path, img.Path)
		rep.SetParts(path, parts[0], parts[1])
		if err := rep.Save(path); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
	}
	if !res.ModelReady {
		fmt.Fprintln(out, "Note: model not ready, the service may have returned a mock answer")
	}
	fmt.Fprintln(out, res.Answer)
	return nil
}

func writePreview(session *app.Session, path string, out io.Writer) error {
	dst := session.NewBackingStore()
	frame := session.Render(dst)
	if err := gg.SavePNG(path, dst); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	fmt.Fprintf(out, "Wrote %s (%.0fx%.0f)\n", path, frame.Size.Width, frame.Size.Height)

	if frame.HasChord {
		if b, ok := render.Boundary(frame.Chord.A, frame.Chord.B, frame.Size); ok {
			fmt.Fprintf(out, "Split boundary: (%.1f, %.1f) -> (%.1f, %.1f)\n", b.A.X, b.A.Y, b.B.X, b.B.Y)
		} else {
			fmt.Fprintln(out, "Split boundary: undefined, points coincide")
		}
	}
	return nil
}

// parsePoint parses "x,y".
func parsePoint(s string) (geometry.Point2D, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geometry.Point2D{}, fmt.Errorf("invalid point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Point2D{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return geometry.NewPoint2D(x, y), nil
}
