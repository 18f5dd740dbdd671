package bdoc

import (
	"context"
	"encoding/json"
)

// saveJSON serializes the document's dictionary representation as JSON.
func saveJSON(ctx context.Context, doc *Document, dst *destination, o *options) error {
	dd, err := toDict(doc, o.offsetType)
	if err != nil {
		return newStreamError(ErrUnsupportedType, "converting offsets", err)
	}
	data, err := json.Marshal(dd)
	if err != nil {
		return newStreamError(ErrUnsupportedType, "encoding json", err)
	}
	return dst.writeAll(data, o.gzip)
}

// saveJSONGzip is saveJSON with the compression filter forced on.
func saveJSONGzip(ctx context.Context, doc *Document, dst *destination, o *options) error {
	oo := *o
	oo.gzip = true
	return saveJSON(ctx, doc, dst, &oo)
}

// loadJSON reconstructs a document from its JSON dictionary representation.
func loadJSON(ctx context.Context, src *source, o *options) (*Document, error) {
	data, err := src.readAll(o.gzip)
	if err != nil {
		return nil, err
	}
	var dd docDict
	if err := json.Unmarshal(data, &dd); err != nil {
		return nil, newStreamError(ErrCorruptStream, "decoding json", err)
	}
	return fromDict(&dd), nil
}

// loadJSONGzip is loadJSON with the compression filter forced on.
func loadJSONGzip(ctx context.Context, src *source, o *options) (*Document, error) {
	oo := *o
	oo.gzip = true
	return loadJSON(ctx, src, &oo)
}
