// Package registry provides document registration and change notification.
// The scanner feeds discovered .mjml documents into a DocumentRegistry; the
// build pipeline reads them back out, and the watch command subscribes to
// change events.
package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/mailtempl/mailtempl/internal/types"
)

// DocumentRegistry manages discovered MJML documents and notifies subscribers
// of changes. All methods are safe for concurrent use.
type DocumentRegistry struct {
	documents map[string]*types.DocumentInfo
	mutex     sync.RWMutex
	watchers  []chan types.DocumentEvent
}

// NewDocumentRegistry creates a new document registry.
func NewDocumentRegistry() *DocumentRegistry {
	return &DocumentRegistry{
		documents: make(map[string]*types.DocumentInfo),
		watchers:  make([]chan types.DocumentEvent, 0),
	}
}

// Register adds or updates a document in the registry and notifies watchers.
func (r *DocumentRegistry) Register(doc *types.DocumentInfo) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	eventType := types.EventTypeAdded
	if _, exists := r.documents[doc.Name]; exists {
		eventType = types.EventTypeUpdated
	}

	r.documents[doc.Name] = doc

	r.notify(types.DocumentEvent{
		Type:      eventType,
		Document:  doc,
		Timestamp: time.Now(),
	})
}

// Get retrieves a document by name.
func (r *DocumentRegistry) Get(name string) (*types.DocumentInfo, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.documents[name]
	return doc, exists
}

// GetAll returns a copy of all registered documents keyed by name.
func (r *DocumentRegistry) GetAll() map[string]*types.DocumentInfo {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make(map[string]*types.DocumentInfo, len(r.documents))
	for name, doc := range r.documents {
		result[name] = doc
	}
	return result
}

// Names returns the registered document names in sorted order, giving the
// build pipeline a deterministic processing order.
func (r *DocumentRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, 0, len(r.documents))
	for name := range r.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Remove deletes a document from the registry and notifies watchers. The
// emitted event carries the last known document info.
func (r *DocumentRegistry) Remove(name string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	doc, exists := r.documents[name]
	if !exists {
		return
	}

	delete(r.documents, name)

	r.notify(types.DocumentEvent{
		Type:      types.EventTypeRemoved,
		Document:  doc,
		Timestamp: time.Now(),
	})
}

// Prune removes every document whose name is not in keep and returns the
// number removed. The watch command uses it to reconcile the registry after a
// rescan, dropping documents whose files were deleted from disk.
func (r *DocumentRegistry) Prune(keep map[string]struct{}) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	removed := 0
	for name, doc := range r.documents {
		if _, ok := keep[name]; ok {
			continue
		}
		delete(r.documents, name)
		removed++

		r.notify(types.DocumentEvent{
			Type:      types.EventTypeRemoved,
			Document:  doc,
			Timestamp: time.Now(),
		})
	}
	return removed
}

// Watch returns a channel that receives document change events. The channel
// is buffered; events are dropped for subscribers that fall behind.
func (r *DocumentRegistry) Watch() <-chan types.DocumentEvent {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	ch := make(chan types.DocumentEvent, 100)
	r.watchers = append(r.watchers, ch)
	return ch
}

// UnWatch removes a watcher channel and closes it.
func (r *DocumentRegistry) UnWatch(ch <-chan types.DocumentEvent) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for i, watcher := range r.watchers {
		if watcher == ch {
			close(watcher)
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			break
		}
	}
}

// Count returns the number of registered documents.
func (r *DocumentRegistry) Count() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.documents)
}

// notify delivers an event to all watchers without blocking. Callers must
// hold the mutex.
func (r *DocumentRegistry) notify(event types.DocumentEvent) {
	for _, watcher := range r.watchers {
		select {
		case watcher <- event:
		default:
			// Skip slow watchers
		}
	}
}
