package build

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mailtempl/mailtempl/internal/config"
	"github.com/mailtempl/mailtempl/internal/errors"
	"github.com/mailtempl/mailtempl/internal/logging"
	"github.com/mailtempl/mailtempl/internal/props"
	"github.com/mailtempl/mailtempl/internal/registry"
	"github.com/mailtempl/mailtempl/internal/renderer"
	"github.com/mailtempl/mailtempl/internal/types"
)

const (
	// DefaultWorkers bounds render concurrency when Options.Workers is zero.
	DefaultWorkers = 4
	// DefaultCacheSize is the render cache budget in bytes.
	DefaultCacheSize = 50 * 1024 * 1024
	// DefaultCacheTTL is how long cached HTML stays valid.
	DefaultCacheTTL = time.Hour
)

// Renderer renders a single document file to HTML. *renderer.Renderer
// satisfies it.
type Renderer interface {
	RenderFile(ctx context.Context, path string) (renderer.Result, error)
}

// Options configures a Pipeline.
type Options struct {
	// Workers is the maximum render concurrency. Zero means DefaultWorkers.
	Workers int
	// OutputDir is the directory rendered HTML is written into.
	OutputDir string
	// ExportType is the output file extension, including the dot.
	ExportType string
	// CacheSize is the render cache budget in bytes. Zero means
	// DefaultCacheSize.
	CacheSize int64
	// CacheTTL is the render cache entry lifetime. Zero means
	// DefaultCacheTTL.
	CacheTTL time.Duration
}

// OptionsFromConfig derives pipeline options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		OutputDir:  cfg.Documents.OutputDir,
		ExportType: cfg.ExportType,
	}
}

// DocumentResult is the outcome of rendering one document.
type DocumentResult struct {
	// Name is the registry name of the document.
	Name string
	// Path is the source .mjml path.
	Path string
	// OutputPath is the file the HTML was written to, empty on failure.
	OutputPath string
	// Errors holds compile diagnostics. They may accompany a successful
	// render under soft validation.
	Errors []errors.CompileError
	// Err is set when the document could not be rendered or written at all.
	Err error
	// CacheHit marks results served from the render cache.
	CacheHit bool
	// Duration is the wall time spent on this document.
	Duration time.Duration
}

// Failed reports whether the document produced no output file.
func (r DocumentResult) Failed() bool {
	return r.Err != nil || r.OutputPath == ""
}

// Summary aggregates one pipeline run.
type Summary struct {
	// Rendered counts documents rendered fresh.
	Rendered int
	// Cached counts documents served from the render cache.
	Cached int
	// Failed counts documents that produced no output.
	Failed int
	// Duration is the wall time of the whole run.
	Duration time.Duration
	// Results holds per-document outcomes sorted by name.
	Results []DocumentResult
}

// Total returns the number of documents processed.
func (s *Summary) Total() int {
	return s.Rendered + s.Cached + s.Failed
}

// Pipeline renders registered documents through a bounded worker pool and
// writes the HTML output tree.
type Pipeline struct {
	registry *registry.DocumentRegistry
	renderer Renderer
	cache    *Cache
	metrics  *Metrics
	options  Options
	logger   logging.Logger
}

// NewPipeline creates a pipeline over reg that renders with rend. A nil
// logger disables logging.
func NewPipeline(reg *registry.DocumentRegistry, rend Renderer, options Options, logger logging.Logger) *Pipeline {
	if options.Workers <= 0 {
		options.Workers = DefaultWorkers
	}
	if options.OutputDir == "" {
		options.OutputDir = "dist"
	}
	if options.ExportType == "" {
		options.ExportType = ".html"
	}
	if options.CacheSize <= 0 {
		options.CacheSize = DefaultCacheSize
	}
	if options.CacheTTL <= 0 {
		options.CacheTTL = DefaultCacheTTL
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		registry: reg,
		renderer: rend,
		cache:    NewCache(options.CacheSize, options.CacheTTL),
		metrics:  NewMetrics(),
		options:  options,
		logger:   logger.WithComponent("build"),
	}
}

// BuildAll renders every registered document.
func (p *Pipeline) BuildAll(ctx context.Context) (*Summary, error) {
	return p.BuildDocuments(ctx, p.registry.Names())
}

// BuildDocuments renders the named documents concurrently and writes their
// HTML under the output directory. Per-document failures are reported in the
// summary; the returned error covers setup failures and cancellation only.
func (p *Pipeline) BuildDocuments(ctx context.Context, names []string) (*Summary, error) {
	start := time.Now()
	summary := &Summary{}

	if len(names) == 0 {
		return summary, nil
	}

	if err := os.MkdirAll(p.options.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", p.options.OutputDir, err)
	}

	workers := p.options.Workers
	if workers > len(names) {
		workers = len(names)
	}

	jobs := make(chan string)
	results := make(chan DocumentResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range jobs {
				results <- p.buildDocument(ctx, name)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, name := range names {
			select {
			case jobs <- name:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for result := range results {
		summary.Results = append(summary.Results, result)
		if result.Failed() {
			summary.Failed++
		} else if result.CacheHit {
			summary.Cached++
		} else {
			summary.Rendered++
		}
	}

	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Name < summary.Results[j].Name
	})

	summary.Duration = time.Since(start)
	p.logger.Info(ctx, "Build complete",
		"rendered", summary.Rendered,
		"cached", summary.Cached,
		"failed", summary.Failed,
		"duration_ms", summary.Duration.Milliseconds())

	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

// buildDocument renders one document, serving unchanged content from the
// cache.
func (p *Pipeline) buildDocument(ctx context.Context, name string) DocumentResult {
	start := time.Now()
	result := DocumentResult{Name: name}
	defer func() {
		p.metrics.Record(result)
	}()

	if err := ctx.Err(); err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	info, ok := p.registry.Get(name)
	if !ok {
		result.Err = fmt.Errorf("document %q is not registered", name)
		result.Duration = time.Since(start)
		return result
	}
	result.Path = info.Path

	key := p.cacheKey(info)
	if html, hit := p.cache.Get(key); hit {
		result.CacheHit = true
		result.OutputPath, result.Err = p.writeOutput(name, html)
		result.Duration = time.Since(start)
		return result
	}

	rendered, err := p.renderer.RenderFile(ctx, info.Path)
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		p.logger.Warn(ctx, err, "Render failed", "document", name)
		return result
	}
	result.Errors = rendered.Errors
	if rendered.Failed() {
		result.Duration = time.Since(start)
		return result
	}

	p.cache.Set(key, rendered.HTML)
	result.OutputPath, result.Err = p.writeOutput(name, rendered.HTML)
	result.Duration = time.Since(start)
	return result
}

// cacheKey fingerprints everything a render depends on besides the pipeline
// options, which are fixed for the pipeline lifetime: the document content
// hash plus the raw bytes of its theme and sample data files. Partial edits
// are not covered; the watch command clears the cache on .mjml events for
// that reason.
func (p *Pipeline) cacheKey(info *types.DocumentInfo) string {
	h := sha256.New()
	h.Write([]byte(info.Hash))
	h.Write([]byte{0})
	theme, _ := os.ReadFile(props.ThemePath(info.Path))
	h.Write(theme)
	h.Write([]byte{0})
	sample, _ := os.ReadFile(props.SamplePath(info.Path))
	h.Write(sample)
	return hex.EncodeToString(h.Sum(nil))
}

// writeOutput writes HTML for a document name, creating nested directories
// as needed.
func (p *Pipeline) writeOutput(name, html string) (string, error) {
	out := filepath.Join(p.options.OutputDir, filepath.FromSlash(name)+p.options.ExportType)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory for %s: %w", name, err)
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

// ClearCache drops all cached renders. The watch command calls it when
// template files change, since includes can make one document depend on
// another file's content.
func (p *Pipeline) ClearCache() {
	p.cache.Clear()
}

// CacheStats returns a snapshot of the render cache counters.
func (p *Pipeline) CacheStats() CacheStats {
	return p.cache.Stats()
}

// Metrics returns a snapshot of the accumulated pipeline counters.
func (p *Pipeline) Metrics() MetricsSnapshot {
	return p.metrics.Snapshot()
}
