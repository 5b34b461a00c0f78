// Package types provides common type definitions used throughout the mailtempl
// CLI. This package contains shared types to avoid circular dependencies
// between the scanner, registry, build pipeline, and renderer.
package types

import "time"

// Document is a single MJML template document: its raw text plus the path it
// was read from. A Document is read once per render request and is immutable
// afterwards; the path anchors sibling lookups (theme, sample data, partials)
// and relative resource resolution in post-processing.
type Document struct {
	// Path is the filesystem path the document was read from.
	Path string
	// Content is the raw UTF-8 template text.
	Content string
}

// DocumentInfo contains metadata about a discovered MJML document, used by the
// scanner, registry, and build pipeline.
type DocumentInfo struct {
	// Name is the document identifier: the scan-root-relative path without the
	// .mjml extension (e.g. "welcome", "drip/day-one").
	Name string
	// Path is the absolute path to the .mjml file.
	Path string
	// Size is the file size in bytes at scan time.
	Size int64
	// ModTime tracks the last modification time for change detection.
	ModTime time.Time
	// Hash is the hex-encoded SHA-256 of the document content, used for
	// change detection and build caching.
	Hash string
}

// EventType represents the type of document change event.
type EventType string

const (
	EventTypeAdded   EventType = "added"
	EventTypeUpdated EventType = "updated"
	EventTypeRemoved EventType = "removed"
)

// DocumentEvent represents a change in the document registry, delivered to
// subscribers such as the watch command.
type DocumentEvent struct {
	// Type indicates the kind of change (added, updated, removed).
	Type EventType
	// Document contains the document information. Removed events carry the
	// last known info.
	Document *DocumentInfo
	// Timestamp records when the event occurred.
	Timestamp time.Time
}
