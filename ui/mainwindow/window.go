// Package mainwindow provides the main application window.
package mainwindow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/app"
	"split-analyzer/internal/image"
	"split-analyzer/internal/selection"
	"split-analyzer/internal/version"
	"split-analyzer/pkg/geometry"
	"split-analyzer/ui/canvas"
	"split-analyzer/ui/prefs"
)

const appTitle = "Image Split Analyzer"

// previewSize bounds each split region preview.
var previewSize = fyne.NewSize(280, 200)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app     fyne.App
	session *app.Session
	prefs   *prefs.Prefs
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	canvas     *canvas.SplitCanvas
	counter    *widget.Label
	question   *widget.Entry
	analyzeBtn *widget.Button
	progress   *widget.ProgressBarInfinite
	answer     *widget.Label
	region1    *fynecanvas.Image
	region2    *fynecanvas.Image
	statusBar  *widget.Label
	modelState *widget.Label
}

// New creates the main window for session.
func New(fyneApp fyne.App, session *app.Session, p *prefs.Prefs, logger *slog.Logger) *MainWindow {
	ctx, cancel := context.WithCancel(context.Background())

	mw := &MainWindow{
		Window:  fyneApp.NewWindow(appTitle),
		app:     fyneApp,
		session: session,
		prefs:   p,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	mw.Resize(fyne.NewSize(
		float32(p.FloatWithFallback(prefs.KeyWindowWidth, 1000)),
		float32(p.FloatWithFallback(prefs.KeyWindowHeight, 760)),
	))
	mw.SetOnClosed(mw.onClosed)

	return mw
}

// Context is cancelled when the window closes.
func (mw *MainWindow) Context() context.Context {
	return mw.ctx
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.New(mw.session, mw.logger)

	mw.counter = widget.NewLabel(counterText(0))

	mw.question = widget.NewMultiLineEntry()
	mw.question.SetPlaceHolder("e.g. Is the object on one side the same color as the object on the other side?")
	mw.question.SetMinRowsVisible(3)
	mw.question.SetText(mw.prefs.String(prefs.KeyLastQuestion))

	mw.analyzeBtn = widget.NewButton("Analyze", mw.onAnalyze)
	mw.analyzeBtn.Importance = widget.HighImportance

	mw.progress = widget.NewProgressBarInfinite()
	mw.progress.Stop()
	mw.progress.Hide()

	mw.answer = widget.NewLabel("")
	mw.answer.Wrapping = fyne.TextWrapWord

	mw.region1 = newPreview()
	mw.region2 = newPreview()

	mw.statusBar = widget.NewLabel("Open an image, click two points to draw the split line, then ask a question.")
	mw.modelState = widget.NewLabel("Model: unknown")

	toolbar := container.NewHBox(
		widget.NewButton("Open Image...", mw.onOpenImage),
		widget.NewButton("Clear Points", mw.session.Reset),
		mw.counter,
	)

	canvasArea := container.NewBorder(
		toolbar,
		nil,
		nil,
		nil,
		container.NewScroll(container.NewCenter(mw.canvas)),
	)

	questionArea := container.NewVBox(
		widget.NewLabelWithStyle("Ask a question about the relationship between the two parts:",
			fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mw.question,
		container.NewHBox(mw.analyzeBtn),
		mw.progress,
	)

	resultArea := container.NewVBox(
		widget.NewLabelWithStyle("Analysis", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		mw.answer,
		container.NewGridWithColumns(2,
			container.NewBorder(widget.NewLabel("Part 1"), nil, nil, nil, mw.region1),
			container.NewBorder(widget.NewLabel("Part 2"), nil, nil, nil, mw.region2),
		),
	)

	side := container.NewVScroll(container.NewVBox(questionArea, widget.NewSeparator(), resultArea))

	split := container.NewHSplit(canvasArea, side)
	split.SetOffset(0.6)

	content := container.NewBorder(
		nil,
		container.NewPadded(container.NewBorder(nil, nil, nil, mw.modelState, mw.statusBar)),
		nil,
		nil,
		split,
	)

	mw.SetContent(content)
}

func newPreview() *fynecanvas.Image {
	img := fynecanvas.NewImageFromImage(nil)
	img.FillMode = fynecanvas.ImageFillContain
	img.SetMinSize(previewSize)
	return img
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Clear Points", mw.session.Reset),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(app.EventImageLoaded, func(data interface{}) {
		if img, ok := data.(*image.Image); ok {
			mw.SetTitle(appTitle + " - " + img.Name)
			mw.updateStatus(fmt.Sprintf("Loaded %s (%dx%d)", img.Name, img.Width(), img.Height()))
		}
	})

	mw.session.On(app.EventSelectionChanged, func(data interface{}) {
		points, _ := data.([]geometry.Point2D)
		mw.counter.SetText(counterText(len(points)))
		mw.clearResult()
	})

	mw.session.On(app.EventSubmitting, func(interface{}) {
		mw.analyzeBtn.Disable()
		mw.analyzeBtn.SetText("Analyzing...")
		mw.progress.Show()
		mw.progress.Start()
		mw.clearResult()
		mw.updateStatus("Sending request...")
	})

	mw.session.On(app.EventResult, func(data interface{}) {
		mw.finishSubmit()
		res, ok := data.(*analysis.Result)
		if !ok {
			return
		}
		mw.answer.SetText(res.Answer)
		mw.showRegion(mw.region1, "part1.png", res.Region1)
		mw.showRegion(mw.region2, "part2.png", res.Region2)
		mw.setModelReady(res.ModelReady)
		mw.updateStatus(fmt.Sprintf("Analysis complete in %s", res.Elapsed.Round(time.Millisecond)))
	})

	mw.session.On(app.EventSuperseded, func(interface{}) {
		mw.finishSubmit()
		mw.updateStatus("Analysis discarded, the selection changed")
	})

	mw.session.On(app.EventError, func(data interface{}) {
		mw.finishSubmit()
		if err, ok := data.(error); ok {
			mw.answer.SetText("Error: " + err.Error())
			mw.updateStatus("Analysis failed")
		}
	})
}

// SetModelStatus shows the outcome of a readiness probe.
func (mw *MainWindow) SetModelStatus(h analysis.Health, err error) {
	if err != nil {
		mw.modelState.SetText("Model: unreachable")
		return
	}
	mw.setModelReady(h.ModelReady)
}

func (mw *MainWindow) setModelReady(ready bool) {
	if ready {
		mw.modelState.SetText("Model: ready")
	} else {
		mw.modelState.SetText("Model: loading (mock responses)")
	}
}

func (mw *MainWindow) finishSubmit() {
	mw.progress.Stop()
	mw.progress.Hide()
	mw.analyzeBtn.SetText("Analyze")
	mw.analyzeBtn.Enable()
}

func (mw *MainWindow) clearResult() {
	mw.answer.SetText("")
	mw.region1.Image = nil
	mw.region1.Refresh()
	mw.region2.Image = nil
	mw.region2.Refresh()
}

func (mw *MainWindow) showRegion(dst *fynecanvas.Image, name string, data []byte) {
	if len(data) == 0 {
		return
	}
	region, err := image.Decode(name, data)
	if err != nil {
		mw.logger.Warn("decode region image", "name", name, "error", err)
		return
	}
	dst.Image = region.Decoded
	dst.Refresh()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a listable URI.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// LoadImageFile loads the image at path into the session.
func (mw *MainWindow) LoadImageFile(path string) error {
	img, err := image.Load(path)
	if err != nil {
		return err
	}
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(path))
	return mw.session.LoadImage(img)
}

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("read image: %w", err), mw.Window)
			return
		}
		img, err := image.Decode(reader.URI().Name(), data)
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if reader.URI().Scheme() == "file" {
			img.Path = reader.URI().Path()
			mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(reader.URI().Path()))
		}
		if err := mw.session.LoadImage(img); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter([]string{
		".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp",
	}))
	if dir := mw.getLastDir(); dir != nil {
		fd.SetLocation(dir)
	}
	fd.Show()
}

func (mw *MainWindow) onAnalyze() {
	question := mw.question.Text
	mw.prefs.SetString(prefs.KeyLastQuestion, question)

	go func() {
		_, err := mw.session.Submit(mw.ctx, question)
		switch {
		case err == nil:
		case errors.Is(err, analysis.ErrNoImage),
			errors.Is(err, analysis.ErrIncompleteSelection),
			errors.Is(err, analysis.ErrEmptyQuestion):
			dialog.ShowInformation("Cannot analyze",
				"Please upload an image, select two points, and enter a question.\n\n"+err.Error(),
				mw.Window)
		case errors.Is(err, app.ErrNoClient):
			dialog.ShowError(err, mw.Window)
		case errors.Is(err, app.ErrBusy), errors.Is(err, app.ErrSuperseded):
			mw.logger.Debug("analyze ignored", "reason", err)
		default:
			// Shown through EventError
		}
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		version.String()+"\n\nSplit an image along a line through two points\nand ask a vision model about the two parts.",
		mw.Window)
}

func (mw *MainWindow) onClosed() {
	mw.cancel()
	size := mw.Canvas().Size()
	mw.prefs.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
	mw.prefs.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
	mw.prefs.SetString(prefs.KeyLastQuestion, mw.question.Text)
	if err := mw.prefs.Save(); err != nil {
		mw.logger.Warn("save preferences", "error", err)
	}
}

func counterText(n int) string {
	return fmt.Sprintf("Points selected: %d/%d", n, selection.Capacity)
}
