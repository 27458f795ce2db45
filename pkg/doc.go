// Package pkg provides the core libraries for discdraw parametric disc drawings.
//
// # Overview
//
// discdraw lays out the technical drawing of a circular disc (a plan-view
// circle with crossing centerlines, a side-profile bar, diameter and thickness
// dimensions, tolerance callouts and an inspection note) on a CAD-like
// drawing surface and saves it. The pkg directory is organized into four
// areas:
//
//  1. [layout] - Domain logic (layer planning, primitives, dimensions, annotations)
//  2. [surface] and [document] - The drawing surface abstraction and its in-memory host
//  3. [sink] - Output formats (DXF, SVG, PDF, PNG, JSON)
//  4. [pipeline] - Orchestration (open → layout → save) with caching
//
// # Architecture
//
// The typical data flow:
//
//	Parameter Set (TOML, flags, HTTP query)
//	         ↓
//	    [host] opens a document, optionally from a template
//	         ↓
//	    [layout] ensures layers, draws primitives and dimensions,
//	    reads back resolved text positions, places annotations
//	         ↓
//	    [document] saves through a [sink] encoder
//	         ↓
//	    DXF/SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/discdraw/pkg/host"
//	    "github.com/matzehuels/discdraw/pkg/layout"
//	    "github.com/matzehuels/discdraw/pkg/params"
//	)
//
//	doc, _, _ := host.NewLocal().Open(ctx, "")
//	res, _ := layout.Run(layout.NewSession(doc, logger), params.Default())
//	_ = doc.SaveAndClose("disc_76.dxf")
//
// # Main Packages
//
// [params] - The Parameter Set: defaults, TOML and JSON decoding, validation
// and the scalar field table behind CLI flags and HTTP query overrides.
//
// [geom] - Planar points, segments, circles and bounds.
//
// [surface] - The abstract drawing surface: layers, line patterns, entity
// creation, best-effort property assignment and resolved text positions.
//
// [mtext] - Multi-line text content with inline formatting codes.
//
// [layout] - The layer planner and the primitive, dimension and annotation
// layout. Style failures become warnings, never errors.
//
// [document] - An in-memory CAD document implementing [surface.Surface],
// including .lin pattern libraries.
//
// [host] - Opens documents, applying TOML templates when available.
//
// [sink] - Encoders for every output format.
//
// [pipeline] - Runs a drawing end to end with artifact caching and history.
//
// [cache] - File, redis and null artifact caches with content-addressed keys.
//
// [register] - SQLite history of drawn discs.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Structured error codes shared by the CLI and HTTP server.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/layout/...             # Specific package
//
// Tests that need redis are skipped unless DISCDRAW_TEST_REDIS_URL is set.
package pkg
