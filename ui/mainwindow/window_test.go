package mainwindow

import (
	"context"
	"errors"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"split-analyzer/internal/analysis"
	"split-analyzer/internal/app"
	"split-analyzer/internal/logger"
	"split-analyzer/pkg/geometry"
	"split-analyzer/ui/prefs"
)

type stubClient struct {
	result *analysis.Result
	err    error
}

func (s *stubClient) Analyze(context.Context, *analysis.SplitRequest) (*analysis.Result, error) {
	return s.result, s.err
}

func (s *stubClient) Health(context.Context) (analysis.Health, error) {
	return analysis.Health{Status: "healthy", ModelReady: true}, nil
}

type heldClient struct {
	started chan struct{}
	release chan struct{}
}

func newHeldClient() *heldClient {
	return &heldClient{started: make(chan struct{}), release: make(chan struct{})}
}

func (h *heldClient) Analyze(context.Context, *analysis.SplitRequest) (*analysis.Result, error) {
	close(h.started)
	<-h.release
	return &analysis.Result{Answer: "late"}, nil
}

func (h *heldClient) Health(context.Context) (analysis.Health, error) {
	return analysis.Health{Status: "healthy"}, nil
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, goimage.NewRGBA(goimage.Rect(0, 0, w, h))))
	return path
}

func newWindow(t *testing.T, client analysis.Client) (*MainWindow, *app.Session) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	s := app.NewSession(client, nil, geometry.SizeInt{}, logger.Discard())
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "prefs.json"))
	return New(a, s, p, logger.Discard()), s
}

func TestCounterFollowsSelection(t *testing.T) {
	mw, s := newWindow(t, nil)
	require.NoError(t, mw.LoadImageFile(writePNG(t, 1200, 800)))

	assert.Equal(t, "Points selected: 0/2", mw.counter.Text)
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.1, Y: 0.1}))
	assert.Equal(t, "Points selected: 1/2", mw.counter.Text)
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.9, Y: 0.9}))
	assert.Equal(t, "Points selected: 2/2", mw.counter.Text)

	s.Reset()
	assert.Equal(t, "Points selected: 0/2", mw.counter.Text)
	assert.Contains(t, mw.Title(), "photo.png")
}

func TestLoadImageFileRemembersDirectory(t *testing.T) {
	mw, _ := newWindow(t, nil)
	path := writePNG(t, 10, 10)
	require.NoError(t, mw.LoadImageFile(path))
	assert.Equal(t, filepath.Dir(path), mw.prefs.String(prefs.KeyLastDir))

	assert.Error(t, mw.LoadImageFile(filepath.Join(t.TempDir(), "missing.png")))
}

func TestResultShown(t *testing.T) {
	mw, s := newWindow(t, &stubClient{result: &analysis.Result{Answer: "Both halves are red.", ModelReady: true}})
	require.NoError(t, mw.LoadImageFile(writePNG(t, 100, 100)))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.5, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.5, Y: 1}))

	_, err := s.Submit(context.Background(), "Same color?")
	require.NoError(t, err)

	assert.Equal(t, "Both halves are red.", mw.answer.Text)
	assert.Equal(t, "Model: ready", mw.modelState.Text)
	assert.False(t, mw.analyzeBtn.Disabled())
}

func TestErrorShown(t *testing.T) {
	mw, s := newWindow(t, &stubClient{err: errors.New("connection refused")})
	require.NoError(t, mw.LoadImageFile(writePNG(t, 100, 100)))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.5, Y: 0}))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.5, Y: 1}))

	_, err := s.Submit(context.Background(), "Same color?")
	require.Error(t, err)

	assert.Equal(t, "Error: connection refused", mw.answer.Text)
	assert.Equal(t, "Points selected: 2/2", mw.counter.Text)
}

func TestAnalyzeButtonSubmits(t *testing.T) {
	mw, s := newWindow(t, &stubClient{result: &analysis.Result{Answer: "yes"}})
	require.NoError(t, mw.LoadImageFile(writePNG(t, 100, 100)))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.2, Y: 0.2}))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.8, Y: 0.8}))
	mw.question.SetText("Anything?")

	test.Tap(mw.analyzeBtn)

	assert.Eventually(t, func() bool { return s.Phase() == app.PhaseResult }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Anything?", mw.prefs.String(prefs.KeyLastQuestion))
}

func TestAnalyzeButtonRecoversWhenSuperseded(t *testing.T) {
	client := newHeldClient()
	mw, s := newWindow(t, client)
	require.NoError(t, mw.LoadImageFile(writePNG(t, 100, 100)))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.2, Y: 0.2}))
	require.NoError(t, s.AddPoint(geometry.Point2D{X: 0.8, Y: 0.8}))
	mw.question.SetText("Anything?")

	test.Tap(mw.analyzeBtn)
	<-client.started
	assert.Eventually(t, mw.analyzeBtn.Disabled, time.Second, 5*time.Millisecond)

	s.Reset()
	close(client.release)

	assert.Eventually(t, func() bool { return !mw.analyzeBtn.Disabled() }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "Analyze", mw.analyzeBtn.Text)
	assert.Empty(t, mw.answer.Text)
	assert.Equal(t, app.PhaseImageLoaded, s.Phase())
}

func TestModelStatus(t *testing.T) {
	mw, _ := newWindow(t, nil)
	mw.SetModelStatus(analysis.Health{}, errors.New("down"))
	assert.Equal(t, "Model: unreachable", mw.modelState.Text)
	mw.SetModelStatus(analysis.Health{ModelReady: false}, nil)
	assert.Equal(t, "Model: loading (mock responses)", mw.modelState.Text)
}
