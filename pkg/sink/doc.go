// Package sink encodes document snapshots into output files.
//
// # Formats
//
//   - DXF: ASCII drawing exchange format, readable by CAD programs
//   - SVG: vector image, one group per layer
//   - JSON: the snapshot plus extent and dimension labels
//   - PDF: 1:1 print on a page fitted to the drawing (via tdewolff/canvas)
//   - PNG: raster image (via tdewolff/canvas)
//
// Every sink first reduces the snapshot to a scene of strokes, filled arrow
// heads and single-line text: dimensions are expanded into extension lines,
// a dimension line, arrows and their label, and multi-line text is split
// into lines positioned by its attachment point. Line patterns come from the
// layer's linetype.
//
// [DocumentOptions] registers all formats with a [document.Document] so that
// SaveAndClose picks the encoder from the file extension:
//
//	doc := document.New(sink.DocumentOptions()...)
//	...
//	err := doc.SaveAndClose("disc_76.dxf")
//
// Renderers are pure: they never modify the snapshot and are safe to call
// concurrently.
package sink
