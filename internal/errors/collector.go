package errors

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Collector aggregates per-document errors during a build run so that one
// failing document does not abort the rest of the batch.
type Collector struct {
	mutex   sync.RWMutex
	compile map[string][]CompileError
	fatal   map[string]error
	order   []string
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		compile: make(map[string][]CompileError),
		fatal:   make(map[string]error),
	}
}

// AddCompile records transpiler diagnostics for a document.
func (c *Collector) AddCompile(document string, errs ...CompileError) {
	if len(errs) == 0 {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.track(document)
	c.compile[document] = append(c.compile[document], errs...)
}

// AddFatal records a render-level failure (template, properties, I/O) for a
// document.
func (c *Collector) AddFatal(document string, err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.track(document)
	c.fatal[document] = err
}

func (c *Collector) track(document string) {
	if _, seen := c.compile[document]; seen {
		return
	}
	if _, seen := c.fatal[document]; seen {
		return
	}
	c.order = append(c.order, document)
}

// HasErrors reports whether any document recorded an error.
func (c *Collector) HasErrors() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.compile) > 0 || len(c.fatal) > 0
}

// Documents returns the documents with recorded errors, sorted by name.
func (c *Collector) Documents() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	docs := make([]string, len(c.order))
	copy(docs, c.order)
	sort.Strings(docs)
	return docs
}

// CompileErrors returns a copy of the diagnostics recorded for a document.
func (c *Collector) CompileErrors(document string) []CompileError {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	errs := c.compile[document]
	if len(errs) == 0 {
		return nil
	}
	out := make([]CompileError, len(errs))
	copy(out, errs)
	return out
}

// Fatal returns the render-level failure recorded for a document, if any.
func (c *Collector) Fatal(document string) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.fatal[document]
}

// Clear discards all recorded errors.
func (c *Collector) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.compile = make(map[string][]CompileError)
	c.fatal = make(map[string]error)
	c.order = nil
}

// Report renders a human-readable summary of every recorded error, one
// document per block, suitable for terminal output.
func (c *Collector) Report() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	if len(c.compile) == 0 && len(c.fatal) == 0 {
		return ""
	}

	docs := make([]string, len(c.order))
	copy(docs, c.order)
	sort.Strings(docs)

	var b strings.Builder
	for _, doc := range docs {
		fmt.Fprintf(&b, "%s:\n", doc)
		if err, ok := c.fatal[doc]; ok {
			fmt.Fprintf(&b, "  %v\n", err)
		}
		for _, ce := range c.compile[doc] {
			fmt.Fprintf(&b, "  %s\n", ce.Error())
		}
	}
	return b.String()
}
