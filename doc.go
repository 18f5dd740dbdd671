// Package bdoc persists and reconstructs annotated documents across multiple
// physical encodings.
//
// A document is immutable text plus named annotation sets, where each
// annotation is a typed, offset-addressed range over the text carrying an
// arbitrary feature map. The package provides the codec layer only: it saves
// an already-constructed document and loads a fresh one; it does not define
// query or analysis facilities over annotations.
//
// # Formats
//
// Formats are identified by string tokens and resolved through a static
// registry. Recognized tokens include:
//
//   - json, text/bdocjs - JSON dictionary representation
//   - yaml, text/bdocym - YAML dictionary representation
//   - msgpack, application/msgpack - versioned binary stream ("sm1")
//   - jsonormsgpack - auto-detect by sniffing the first byte (load only)
//   - html, text/html - reconstruct annotations from markup (load only)
//   - gatexml - legacy GATE XML stand-off exchange format (load only)
//   - html-ann-viewer - self-contained HTML viewer page (save only)
//
// Gzip-wrapped variants exist for the text formats (jsongz, yamlgz,
// text/bdocjs+gzip, text/bdocym+gzip).
//
// When no format is given explicitly, the file extension selects one:
//
//	.bdocjs  .bdocjson      json
//	.bdocym                 yaml
//	.bdocmp                 msgpack
//	.bdoc                   auto-detect (json or msgpack)
//	.bdocjs.gz  .bdoc.gz    json + gzip
//	.bdocym.gz              yaml + gzip
//
// # Basic Usage
//
//	doc := bdoc.NewDocument("Barack Obama visited Microsoft.")
//	anns := doc.AnnSet("")
//	anns.Add(0, 12, "Person", map[string]any{"gender": "male"})
//
//	// Save by extension
//	err := bdoc.Save(ctx, doc, "obama.bdocjs")
//
//	// Save to memory with an explicit format
//	data, err := bdoc.SaveMem(ctx, doc, bdoc.WithFormat(bdoc.FormatMsgPack))
//
//	// Load back, format sniffed from content
//	doc2, err := bdoc.Load(ctx, "obama.bdoc")
//
// Load accepts http:// and https:// URLs as well as filesystem paths.
//
// # Offsets
//
// Annotation offsets are interpreted according to the document's offset type:
// "p" counts Unicode code points, "j" counts UTF-16 code units (the JavaScript
// and Java convention). WithOffsetType converts offsets on save; the viewer
// always emits "j" so offsets line up in the browser.
//
// # Errors
//
// All failures are fatal to the single save or load call that raised them.
// Sentinel errors (ErrUnknownFormat, ErrCorruptStream, ...) are wrapped in
// FormatError or StreamError and can be tested with errors.Is.
package bdoc
