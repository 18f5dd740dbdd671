package bdoc

import (
	"context"
	"path/filepath"
	"strings"
	"time"
)

// Format tokens recognized by the registry. MIME-like tokens and short
// aliases address the same handlers.
const (
	FormatJSON        = "json"
	FormatJSONGzip    = "jsongz"
	FormatYAML        = "yaml"
	FormatYAMLGzip    = "yamlgz"
	FormatBdocJS      = "text/bdocjs"
	FormatBdocJSGzip  = "text/bdocjs+gzip"
	FormatBdocYM      = "text/bdocym"
	FormatBdocYMGzip  = "text/bdocym+gzip"
	FormatMsgPack     = "msgpack"
	FormatMsgPackMIME = "application/msgpack"
	FormatAuto        = "jsonormsgpack"
	FormatHTML        = "html"
	FormatHTMLMIME    = "text/html"
	FormatGateXML     = "gatexml"
	FormatHTMLViewer  = "html-ann-viewer"
)

// Handler function pairs. Savers and loaders are looked up independently;
// a token may have only one of the two.
type (
	documentSaver   func(ctx context.Context, doc *Document, dst *destination, o *options) error
	documentLoader  func(ctx context.Context, src *source, o *options) (*Document, error)
	changelogSaver  func(ctx context.Context, cl *ChangeLog, dst *destination, o *options) error
	changelogLoader func(ctx context.Context, src *source, o *options) (*ChangeLog, error)
)

// Static handler tables. Read-only after package initialization; safe to
// share across goroutines without locking.
var documentSavers = map[string]documentSaver{
	FormatJSON:        saveJSON,
	FormatJSONGzip:    saveJSONGzip,
	FormatYAML:        saveYAML,
	FormatYAMLGzip:    saveYAMLGzip,
	FormatBdocYM:      saveYAML,
	FormatBdocYMGzip:  saveYAMLGzip,
	FormatBdocJS:      saveJSON,
	FormatBdocJSGzip:  saveJSONGzip,
	FormatMsgPack:     saveMsgPack,
	FormatMsgPackMIME: saveMsgPack,
	FormatHTMLViewer:  saveHTMLViewer,
}

var documentLoaders = map[string]documentLoader{
	FormatJSON:        loadJSON,
	FormatJSONGzip:    loadJSONGzip,
	FormatYAML:        loadYAML,
	FormatYAMLGzip:    loadYAMLGzip,
	FormatBdocYM:      loadYAML,
	FormatBdocYMGzip:  loadYAMLGzip,
	FormatBdocJS:      loadJSON,
	FormatBdocJSGzip:  loadJSONGzip,
	FormatAuto:        loadAuto,
	FormatMsgPack:     loadMsgPack,
	FormatMsgPackMIME: loadMsgPack,
	FormatHTML:        loadHTML,
	FormatHTMLMIME:    loadHTML,
	FormatGateXML:     loadGateXML,
}

var changelogSavers = map[string]changelogSaver{
	FormatJSON:       saveChangeLogJSON,
	FormatBdocJS:     saveChangeLogJSON,
	FormatBdocJSGzip: saveChangeLogJSONGzip,
}

var changelogLoaders = map[string]changelogLoader{
	FormatJSON:       loadChangeLogJSON,
	FormatBdocJS:     loadChangeLogJSON,
	FormatBdocJSGzip: loadChangeLogJSONGzip,
}

// extensions maps a filename suffix to a format token. Compound suffixes
// ending in the ".gz" compression marker are looked up as a single key.
var extensions = map[string]string{
	"bdocjs":    FormatJSON,
	"bdocym":    FormatYAML,
	"bdocym.gz": FormatBdocYMGzip,
	"bdoc.gz":   FormatBdocJSGzip, // assume compressed json
	"bdoc":      FormatAuto,
	"bdocjs.gz": FormatBdocJSGzip,
	"bdocjson":  FormatJSON,
	"bdocmp":    FormatMsgPack,
}

// resolveExtension normalizes a path's extension to an extensions table key.
// A trailing ".gz" combines with the preceding extension into a compound key.
func resolveExtension(path string) string {
	ext := filepath.Ext(path)
	if ext == ".gz" {
		ext2 := filepath.Ext(strings.TrimSuffix(path, ext))
		return strings.TrimPrefix(ext2, ".") + ext
	}
	return strings.TrimPrefix(ext, ".")
}

// resolveFormat implements the handler resolution contract shared by all
// four tables: explicit token first, then path extension, else ambiguous.
// known reports whether a token is present in the relevant handler table.
func resolveFormat(op, format, path string, known func(string) bool) (string, error) {
	if format != "" {
		if !known(format) {
			return "", newFormatError(ErrUnknownFormat, op, format, path)
		}
		return format, nil
	}
	if path == "" {
		return "", newFormatError(ErrAmbiguousFormat, op, "", "")
	}
	ext := resolveExtension(path)
	token, ok := extensions[ext]
	if !ok {
		return "", newFormatError(ErrUnresolvableExtension, op, "", path)
	}
	if !known(token) {
		return "", newFormatError(ErrUnknownFormat, op, token, path)
	}
	return token, nil
}

// getDocumentSaver resolves a saver for the given path and optional format.
func getDocumentSaver(path, format string) (documentSaver, string, error) {
	token, err := resolveFormat("save", format, path, func(t string) bool {
		_, ok := documentSavers[t]
		return ok
	})
	if err != nil {
		return nil, "", err
	}
	return documentSavers[token], token, nil
}

// getDocumentLoader resolves a loader for the given path and optional format.
func getDocumentLoader(path, format string) (documentLoader, string, error) {
	token, err := resolveFormat("load", format, path, func(t string) bool {
		_, ok := documentLoaders[t]
		return ok
	})
	if err != nil {
		return nil, "", err
	}
	return documentLoaders[token], token, nil
}

// loadAuto defers the format decision to content sniffing: a source whose
// first byte opens a JSON object dispatches to the JSON loader, anything
// else to the binary codec. The chosen loader re-reads the source from
// scratch; the sniffed byte is not part of the decoded content.
func loadAuto(ctx context.Context, src *source, o *options) (*Document, error) {
	first, err := src.sniff()
	if err != nil {
		return nil, newStreamError(ErrCorruptStream, "sniffing leading byte", err)
	}
	if first == '{' {
		return loadJSON(ctx, src, o)
	}
	return loadMsgPack(ctx, src, o)
}

// Save serializes a document to a file. The format is taken from opts or
// resolved from the path's extension.
func Save(ctx context.Context, doc *Document, path string, opts ...Option) error {
	o := buildOptions(opts)
	handler, token, err := getDocumentSaver(path, o.format)
	if err != nil {
		return err
	}
	emitSaveStart(ctx, token, path)
	start := time.Now()
	dst := &destination{path: path}
	err = handler(ctx, doc, dst, o)
	emitSaveComplete(ctx, token, path, dst.size, time.Since(start), err)
	return err
}

// SaveMem serializes a document to memory. A format must be given
// explicitly; with no path to inspect there is nothing to resolve against.
func SaveMem(ctx context.Context, doc *Document, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	handler, token, err := getDocumentSaver("", o.format)
	if err != nil {
		return nil, err
	}
	emitSaveStart(ctx, token, "<mem>")
	start := time.Now()
	dst := &destination{}
	err = handler(ctx, doc, dst, o)
	emitSaveComplete(ctx, token, "<mem>", dst.size, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return dst.buf.Bytes(), nil
}

// Load deserializes a document from a file or an HTTP(S) URL.
func Load(ctx context.Context, path string, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	handler, token, err := getDocumentLoader(path, o.format)
	if err != nil {
		return nil, err
	}
	emitLoadStart(ctx, token, path)
	start := time.Now()
	doc, err := handler(ctx, newSource(path), o)
	sets := 0
	if doc != nil {
		sets = len(doc.setOrder)
	}
	emitLoadComplete(ctx, token, path, sets, time.Since(start), err)
	return doc, err
}

// LoadMem deserializes a document from an in-memory buffer. A format must
// be given explicitly; FormatAuto sniffs between JSON and the binary codec.
func LoadMem(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	handler, token, err := getDocumentLoader("", o.format)
	if err != nil {
		return nil, err
	}
	emitLoadStart(ctx, token, "<mem>")
	start := time.Now()
	doc, err := handler(ctx, memSource(data), o)
	sets := 0
	if doc != nil {
		sets = len(doc.setOrder)
	}
	emitLoadComplete(ctx, token, "<mem>", sets, time.Since(start), err)
	return doc, err
}

// SaveChangeLog serializes a change log to a file.
func SaveChangeLog(ctx context.Context, cl *ChangeLog, path string, opts ...Option) error {
	o := buildOptions(opts)
	token, err := resolveFormat("save", o.format, path, func(t string) bool {
		_, ok := changelogSavers[t]
		return ok
	})
	if err != nil {
		return err
	}
	return changelogSavers[token](ctx, cl, &destination{path: path}, o)
}

// SaveChangeLogMem serializes a change log to memory.
func SaveChangeLogMem(ctx context.Context, cl *ChangeLog, opts ...Option) ([]byte, error) {
	o := buildOptions(opts)
	token, err := resolveFormat("save", o.format, "", func(t string) bool {
		_, ok := changelogSavers[t]
		return ok
	})
	if err != nil {
		return nil, err
	}
	dst := &destination{}
	if err := changelogSavers[token](ctx, cl, dst, o); err != nil {
		return nil, err
	}
	return dst.buf.Bytes(), nil
}

// LoadChangeLog deserializes a change log from a file or URL.
func LoadChangeLog(ctx context.Context, path string, opts ...Option) (*ChangeLog, error) {
	o := buildOptions(opts)
	token, err := resolveFormat("load", o.format, path, func(t string) bool {
		_, ok := changelogLoaders[t]
		return ok
	})
	if err != nil {
		return nil, err
	}
	return changelogLoaders[token](ctx, newSource(path), o)
}

// LoadChangeLogMem deserializes a change log from an in-memory buffer.
func LoadChangeLogMem(ctx context.Context, data []byte, opts ...Option) (*ChangeLog, error) {
	o := buildOptions(opts)
	token, err := resolveFormat("load", o.format, "", func(t string) bool {
		_, ok := changelogLoaders[t]
		return ok
	})
	if err != nil {
		return nil, err
	}
	return changelogLoaders[token](ctx, memSource(data), o)
}
