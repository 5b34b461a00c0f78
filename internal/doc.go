// Package internal contains the core implementation packages for mailtempl.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the mailtempl CLI tool.
//
// # Package Organization
//
// The internal packages are organized by functional domain:
//
//   - beautify: HTML reformatting tuned for MJML style blocks
//   - build: Build pipeline with worker pools, caching, and metrics
//   - compiler: MJML-to-HTML transpiler adapter with structured errors
//   - config: Configuration management with validation
//   - errors: Error types and per-document error collection
//   - inline: Image embedding and CSS inlining post-processors
//   - logging: Structured logging with component and operation context
//   - props: Theme and sample data resolution for documents
//   - registry: Document registry and event broadcasting
//   - renderer: Single-document render pipeline from source to HTML
//   - scaffolding: Starter project generation for the init command
//   - scanner: File system scanning and document metadata extraction
//   - template: Handlebars evaluation with helpers and partials
//   - types: Shared document types and events
//   - version: Build metadata stamped at link time
//   - watcher: File system monitoring with debouncing
//
// # Inter-Package Communication
//
// Packages communicate through well-defined interfaces:
//
//   - Scanner processes files and populates the registry
//   - Registry acts as the central record of known documents
//   - Renderer turns one document into HTML via props, template, compiler,
//     and the post-processing packages
//   - Build pipeline walks the registry and produces cached build results
//   - Watcher monitors the file system and triggers rescans and rebuilds
//
// For detailed documentation, see the individual package documentation.
package internal
