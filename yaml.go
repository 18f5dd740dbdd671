package bdoc

import (
	"context"

	"gopkg.in/yaml.v3"
)

// saveYAML serializes the document's dictionary representation as YAML.
func saveYAML(ctx context.Context, doc *Document, dst *destination, o *options) error {
	dd, err := toDict(doc, o.offsetType)
	if err != nil {
		return newStreamError(ErrUnsupportedType, "converting offsets", err)
	}
	data, err := yaml.Marshal(dd)
	if err != nil {
		return newStreamError(ErrUnsupportedType, "encoding yaml", err)
	}
	return dst.writeAll(data, o.gzip)
}

// saveYAMLGzip is saveYAML with the compression filter forced on.
func saveYAMLGzip(ctx context.Context, doc *Document, dst *destination, o *options) error {
	oo := *o
	oo.gzip = true
	return saveYAML(ctx, doc, dst, &oo)
}

// loadYAML reconstructs a document from its YAML dictionary representation.
func loadYAML(ctx context.Context, src *source, o *options) (*Document, error) {
	data, err := src.readAll(o.gzip)
	if err != nil {
		return nil, err
	}
	var dd docDict
	if err := yaml.Unmarshal(data, &dd); err != nil {
		return nil, newStreamError(ErrCorruptStream, "decoding yaml", err)
	}
	return fromDict(&dd), nil
}

// loadYAMLGzip is loadYAML with the compression filter forced on.
func loadYAMLGzip(ctx context.Context, src *source, o *options) (*Document, error) {
	oo := *o
	oo.gzip = true
	return loadYAML(ctx, src, &oo)
}
