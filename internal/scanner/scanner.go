// Package scanner provides document discovery for MJML template trees. It
// walks configured scan paths, hashes each .mjml file, and feeds the results
// into the document registry.
package scanner

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mailtempl/mailtempl/internal/logging"
	"github.com/mailtempl/mailtempl/internal/registry"
	"github.com/mailtempl/mailtempl/internal/types"
)

// DocumentExtension is the file extension that marks a file as an MJML
// document.
const DocumentExtension = ".mjml"

// DocumentScanner discovers MJML documents on disk and registers them.
type DocumentScanner struct {
	registry *registry.DocumentRegistry
	excludes []string
	logger   logging.Logger
}

// NewDocumentScanner creates a scanner that registers discovered documents
// with reg. A nil logger disables logging.
func NewDocumentScanner(reg *registry.DocumentRegistry, logger logging.Logger) *DocumentScanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &DocumentScanner{
		registry: reg,
		logger:   logger.WithComponent("scanner"),
	}
}

// SetExcludes configures the exclude patterns applied during scans. Each
// pattern is matched with path.Match against the root-relative slash path and
// against every individual path segment, so "node_modules" excludes the
// directory at any depth and "drafts/*" excludes direct children of drafts.
func (s *DocumentScanner) SetExcludes(patterns []string) {
	s.excludes = patterns
}

// ScanDirectory walks root and registers every .mjml document found. Hidden
// files and directories are skipped, as are paths matching the exclude
// patterns. Unreadable entries are logged and skipped. Returns the names of
// the documents registered, sorted.
func (s *DocumentScanner) ScanDirectory(ctx context.Context, root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan path %s is not a directory", root)
	}

	var names []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn(ctx, err, "Skipping unreadable path", "path", p)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel == "." {
				return nil
			}
			if s.skipName(d.Name()) || s.excluded(rel) {
				return fs.SkipDir
			}
			return nil
		}

		if s.skipName(d.Name()) || !strings.HasSuffix(d.Name(), DocumentExtension) {
			return nil
		}
		if s.excluded(rel) {
			return nil
		}

		doc, scanErr := s.scanPath(root, p, rel)
		if scanErr != nil {
			s.logger.Warn(ctx, scanErr, "Skipping document", "path", p)
			return nil
		}
		s.registry.Register(doc)
		s.logger.Debug(ctx, "Registered document", "name", doc.Name, "path", doc.Path)
		names = append(names, doc.Name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	sort.Strings(names)
	s.logger.Info(ctx, "Scan complete", "root", root, "documents", len(names))
	return names, nil
}

// ScanAll scans every root in order and returns the set of all document
// names seen. Later roots win on name collisions.
func (s *DocumentScanner) ScanAll(ctx context.Context, roots []string) (map[string]struct{}, error) {
	seen := make(map[string]struct{})
	for _, root := range roots {
		names, err := s.ScanDirectory(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			seen[name] = struct{}{}
		}
	}
	return seen, nil
}

// ScanFile registers a single document. The document name is derived from
// the path relative to root. Returns the registered name.
func (s *DocumentScanner) ScanFile(ctx context.Context, root, p string) (string, error) {
	if !strings.HasSuffix(p, DocumentExtension) {
		return "", fmt.Errorf("%s is not a %s document", p, DocumentExtension)
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return "", fmt.Errorf("resolving %s against %s: %w", p, root, err)
	}
	rel = filepath.ToSlash(rel)

	doc, err := s.scanPath(root, p, rel)
	if err != nil {
		return "", err
	}
	s.registry.Register(doc)
	s.logger.Debug(ctx, "Registered document", "name", doc.Name, "path", doc.Path)
	return doc.Name, nil
}

// scanPath reads and hashes a single document file.
func (s *DocumentScanner) scanPath(root, p, rel string) (*types.DocumentInfo, error) {
	content, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", p, err)
	}
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("stating %s: %w", p, err)
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		abs = p
	}

	sum := sha256.Sum256(content)
	return &types.DocumentInfo{
		Name:    strings.TrimSuffix(rel, DocumentExtension),
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Hash:    hex.EncodeToString(sum[:]),
	}, nil
}

// skipName reports whether a file or directory name is hidden.
func (s *DocumentScanner) skipName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// excluded reports whether the root-relative slash path matches any exclude
// pattern. Invalid patterns never match.
func (s *DocumentScanner) excluded(rel string) bool {
	for _, pattern := range s.excludes {
		if ok, err := path.Match(pattern, rel); err == nil && ok {
			return true
		}
		for _, segment := range strings.Split(rel, "/") {
			if ok, err := path.Match(pattern, segment); err == nil && ok {
				return true
			}
		}
	}
	return false
}
