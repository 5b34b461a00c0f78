package build

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/errors"
	"github.com/mailtempl/mailtempl/internal/registry"
	"github.com/mailtempl/mailtempl/internal/renderer"
	"github.com/mailtempl/mailtempl/internal/types"
)

// stubRenderer counts calls and returns canned results.
type stubRenderer struct {
	mutex sync.Mutex
	calls []string
	fn    func(path string) (renderer.Result, error)
}

func (s *stubRenderer) RenderFile(ctx context.Context, path string) (renderer.Result, error) {
	s.mutex.Lock()
	s.calls = append(s.calls, path)
	s.mutex.Unlock()
	if s.fn != nil {
		return s.fn(path)
	}
	return renderer.Result{HTML: "<html>" + filepath.Base(path) + "</html>"}, nil
}

func (s *stubRenderer) callCount() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.calls)
}

// registerDoc creates a source file and registers it under name.
func registerDoc(t *testing.T, reg *registry.DocumentRegistry, srcDir, name string) *types.DocumentInfo {
	t.Helper()
	path := filepath.Join(srcDir, filepath.FromSlash(name)+".mjml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("<mjml>"+name+"</mjml>"), 0o644))
	info := &types.DocumentInfo{
		Name: name,
		Path: path,
		Hash: "hash-" + name,
	}
	reg.Register(info)
	return info
}

func newTestPipeline(t *testing.T, reg *registry.DocumentRegistry, rend Renderer) (*Pipeline, string) {
	t.Helper()
	outDir := t.TempDir()
	p := NewPipeline(reg, rend, Options{OutputDir: outDir, ExportType: ".html"}, nil)
	return p, outDir
}

func TestPipeline_BuildAll(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")
	registerDoc(t, reg, srcDir, "digest")
	registerDoc(t, reg, srcDir, "drip/day-one")

	rend := &stubRenderer{}
	p, outDir := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rendered)
	assert.Equal(t, 0, summary.Cached)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 3, summary.Total())

	// Results sorted by name
	require.Len(t, summary.Results, 3)
	assert.Equal(t, "digest", summary.Results[0].Name)
	assert.Equal(t, "drip/day-one", summary.Results[1].Name)
	assert.Equal(t, "welcome", summary.Results[2].Name)

	// Output tree mirrors document names
	content, err := os.ReadFile(filepath.Join(outDir, "welcome.html"))
	require.NoError(t, err)
	assert.Equal(t, "<html>welcome.mjml</html>", string(content))

	nested := filepath.Join(outDir, "drip", "day-one.html")
	assert.Equal(t, nested, summary.Results[1].OutputPath)
	_, err = os.Stat(nested)
	assert.NoError(t, err)
}

func TestPipeline_CacheHit(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rend.callCount())

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, rend.callCount(), "second build should be served from cache")
	assert.Equal(t, 0, summary.Rendered)
	assert.Equal(t, 1, summary.Cached)
	assert.True(t, summary.Results[0].CacheHit)
	assert.FileExists(t, summary.Results[0].OutputPath)
}

func TestPipeline_ContentChangeBustsCache(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	info := registerDoc(t, reg, srcDir, "welcome")

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	// A rescan after an edit registers a new content hash
	reg.Register(&types.DocumentInfo{Name: info.Name, Path: info.Path, Hash: "hash-v2"})

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rend.callCount())
	assert.Equal(t, 1, summary.Rendered)
}

func TestPipeline_PropsChangeBustsCache(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rend.callCount())

	// Theme data feeds the render, so its bytes are part of the cache key
	themePath := filepath.Join(srcDir, "email-theme.json")
	require.NoError(t, os.WriteFile(themePath, []byte(`{"brandColor":"#ff6600"}`), 0o644))

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rend.callCount())
	assert.Equal(t, 1, summary.Rendered)
}

func TestPipeline_CompileFailure(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "broken")

	rend := &stubRenderer{fn: func(path string) (renderer.Result, error) {
		return renderer.Result{Errors: []errors.CompileError{{Line: 3, Message: "unclosed tag"}}}, nil
	}}
	p, outDir := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 0, summary.Rendered)

	result := summary.Results[0]
	assert.True(t, result.Failed())
	assert.Empty(t, result.OutputPath)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "unclosed tag", result.Errors[0].Message)

	_, statErr := os.Stat(filepath.Join(outDir, "broken.html"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPipeline_FailureNotCached(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "flaky")

	failing := true
	rend := &stubRenderer{fn: func(path string) (renderer.Result, error) {
		if failing {
			return renderer.Result{Errors: []errors.CompileError{{Message: "boom"}}}, nil
		}
		return renderer.Result{HTML: "<html>ok</html>"}, nil
	}}
	p, _ := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)

	failing = false
	summary, err = p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Rendered)
	assert.Equal(t, 2, rend.callCount())
}

func TestPipeline_RenderError(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")

	rend := &stubRenderer{fn: func(path string) (renderer.Result, error) {
		return renderer.Result{}, os.ErrNotExist
	}}
	p, _ := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.ErrorIs(t, summary.Results[0].Err, os.ErrNotExist)
}

func TestPipeline_UnregisteredName(t *testing.T) {
	reg := registry.NewDocumentRegistry()
	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	summary, err := p.BuildDocuments(context.Background(), []string{"ghost"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.ErrorContains(t, summary.Results[0].Err, "not registered")
	assert.Equal(t, 0, rend.callCount())
}

func TestPipeline_EmptyRegistry(t *testing.T) {
	reg := registry.NewDocumentRegistry()
	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Total())
}

func TestPipeline_Cancelled(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPipeline_ClearCache(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	p.ClearCache()

	_, err = p.BuildAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rend.callCount())
}

func TestPipeline_Metrics(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	registerDoc(t, reg, srcDir, "welcome")
	registerDoc(t, reg, srcDir, "digest")

	rend := &stubRenderer{}
	p, _ := newTestPipeline(t, reg, rend)

	_, err := p.BuildAll(context.Background())
	require.NoError(t, err)
	_, err = p.BuildAll(context.Background())
	require.NoError(t, err)

	m := p.Metrics()
	assert.Equal(t, int64(4), m.TotalBuilds)
	assert.Equal(t, int64(4), m.SuccessfulBuilds)
	assert.Equal(t, int64(0), m.FailedBuilds)
	assert.Equal(t, int64(2), m.CacheHits)

	stats := p.CacheStats()
	assert.Equal(t, int64(2), stats.Hits)
}

func TestPipeline_Defaults(t *testing.T) {
	reg := registry.NewDocumentRegistry()
	p := NewPipeline(reg, &stubRenderer{}, Options{}, nil)

	assert.Equal(t, DefaultWorkers, p.options.Workers)
	assert.Equal(t, "dist", p.options.OutputDir)
	assert.Equal(t, ".html", p.options.ExportType)
	assert.Equal(t, int64(DefaultCacheSize), p.options.CacheSize)
	assert.Equal(t, DefaultCacheTTL, p.options.CacheTTL)
}

func TestOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Documents.OutputDir = "out"
	cfg.ExportType = ".htm"

	opts := OptionsFromConfig(cfg)
	assert.Equal(t, "out", opts.OutputDir)
	assert.Equal(t, ".htm", opts.ExportType)
}

func TestPipeline_ManyDocumentsConcurrent(t *testing.T) {
	srcDir := t.TempDir()
	reg := registry.NewDocumentRegistry()
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		registerDoc(t, reg, srcDir, name)
	}

	rend := &stubRenderer{}
	p, outDir := newTestPipeline(t, reg, rend)

	summary, err := p.BuildAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10, summary.Rendered)
	assert.Equal(t, 10, rend.callCount())
	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
