package bdoc

import (
	"context"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// streamVersion tags the binary wire format. There is no forward
// compatibility negotiation: a reader seeing any other tag must give up.
const streamVersion = "sm1"

// Kind identifies which serializable value a binary stream carries.
type Kind int

const (
	KindDocument Kind = iota
	KindChangeLog
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindChangeLog:
		return "changelog"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// corrupt wraps a low-level decode failure as a corrupt-stream error.
func corrupt(detail string, cause error) error {
	return newStreamError(ErrCorruptStream, detail, cause)
}

// encodeValue writes a value of the given kind as a binary stream. Only
// documents have a binary encoding; every other kind is rejected.
func encodeValue(w io.Writer, kind Kind, v any) error {
	switch kind {
	case KindDocument:
		doc, ok := v.(*Document)
		if !ok {
			return newStreamError(ErrUnsupportedType, fmt.Sprintf("%T is not a document", v), nil)
		}
		return documentToStream(w, doc)
	case KindChangeLog:
		return newStreamError(ErrUnsupportedType, "change log has no binary encoding", nil)
	default:
		return newStreamError(ErrUnsupportedType, kind.String(), nil)
	}
}

// documentToStream writes the document as an ordered sequence of
// self-delimiting msgpack values. The write order is the wire format:
// version tag, offset type, text, document features, set count, then per
// set its name, next id, annotation count and per annotation the type,
// start, end, id and features, in that exact order. No envelope wraps the
// stream and no validation of offsets is performed.
func documentToStream(w io.Writer, doc *Document) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeString(streamVersion); err != nil {
		return err
	}
	if err := enc.EncodeString(string(doc.offsetType)); err != nil {
		return err
	}
	if err := enc.EncodeString(doc.text); err != nil {
		return err
	}
	if err := enc.Encode(doc.features); err != nil {
		return err
	}
	if err := enc.EncodeInt(int64(len(doc.setOrder))); err != nil {
		return err
	}
	for _, name := range doc.setOrder {
		set := doc.sets[name]
		if err := enc.EncodeString(name); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(set.nextID)); err != nil {
			return err
		}
		if err := enc.EncodeInt(int64(set.Len())); err != nil {
			return err
		}
		for _, ann := range set.Annotations() {
			if err := enc.EncodeString(ann.Type); err != nil {
				return err
			}
			if err := enc.EncodeInt(int64(ann.Start)); err != nil {
				return err
			}
			if err := enc.EncodeInt(int64(ann.End)); err != nil {
				return err
			}
			if err := enc.EncodeInt(int64(ann.ID)); err != nil {
				return err
			}
			if err := enc.Encode(ann.Features); err != nil {
				return err
			}
		}
	}
	return nil
}

// documentFromStream reads values in exactly the order documentToStream
// produced them. The version tag is checked first; any mismatch is fatal.
// Offsets are assigned as read, without validating start <= end or bounds
// against the text, matching the writer's behavior of never validating
// either.
func documentFromStream(r io.Reader) (*Document, error) {
	dec := msgpack.NewDecoder(r)
	version, err := dec.DecodeString()
	if err != nil {
		return nil, corrupt("reading version tag", err)
	}
	if version != streamVersion {
		return nil, corrupt(fmt.Sprintf("wrong version %q, want %q", version, streamVersion), nil)
	}
	offsetType, err := dec.DecodeString()
	if err != nil {
		return nil, corrupt("reading offset type", err)
	}
	text, err := dec.DecodeString()
	if err != nil {
		return nil, corrupt("reading text", err)
	}
	doc := NewDocument(text)
	doc.offsetType = OffsetType(offsetType)
	features, err := dec.DecodeMap()
	if err != nil {
		return nil, corrupt("reading document features", err)
	}
	if features != nil {
		doc.features = features
	}
	nsets, err := dec.DecodeInt()
	if err != nil {
		return nil, corrupt("reading set count", err)
	}
	for i := 0; i < nsets; i++ {
		// Tolerate nil-name encodings of the default set.
		rawName, err := dec.DecodeInterface()
		if err != nil {
			return nil, corrupt("reading set name", err)
		}
		name, _ := rawName.(string)
		set := doc.AnnSet(name)
		nextID, err := dec.DecodeInt()
		if err != nil {
			return nil, corrupt("reading next annotation id", err)
		}
		nanns, err := dec.DecodeInt()
		if err != nil {
			return nil, corrupt("reading annotation count", err)
		}
		for j := 0; j < nanns; j++ {
			anntype, err := dec.DecodeString()
			if err != nil {
				return nil, corrupt("reading annotation type", err)
			}
			start, err := dec.DecodeInt()
			if err != nil {
				return nil, corrupt("reading annotation start", err)
			}
			end, err := dec.DecodeInt()
			if err != nil {
				return nil, corrupt("reading annotation end", err)
			}
			id, err := dec.DecodeInt()
			if err != nil {
				return nil, corrupt("reading annotation id", err)
			}
			annFeatures, err := dec.DecodeMap()
			if err != nil {
				return nil, corrupt("reading annotation features", err)
			}
			set.put(&Annotation{
				ID:       id,
				Type:     anntype,
				Start:    start,
				End:      end,
				Features: annFeatures,
			})
		}
		set.setNextID(nextID)
	}
	return doc, nil
}

// saveMsgPack writes the document through the binary stream codec. The
// offset type override is not applied here; the stored convention is
// written as-is.
func saveMsgPack(ctx context.Context, doc *Document, dst *destination, o *options) error {
	w, err := dst.writer(o.gzip)
	if err != nil {
		return err
	}
	if err := encodeValue(w, KindDocument, doc); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// loadMsgPack reads a document from the binary stream codec.
func loadMsgPack(ctx context.Context, src *source, o *options) (*Document, error) {
	r, err := src.reader(o.gzip)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return documentFromStream(r)
}
