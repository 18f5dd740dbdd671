package bdoc

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func sampleDocument() *Document {
	doc := NewDocument("Barack Obama visited Microsoft.")
	doc.Features()["purpose"] = "testing"
	doc.Features()["reviewed"] = true

	defset := doc.AnnSet("")
	defset.Add(0, 12, "Person", map[string]any{"gender": "male"})
	defset.Add(21, 30, "Organization", nil)

	tokens := doc.AnnSet("Tokens")
	tokens.Add(0, 6, "Token", map[string]any{"kind": "word"})
	return doc
}

func TestMsgPackRoundTrip(t *testing.T) {
	doc := sampleDocument()

	var buf bytes.Buffer
	if err := documentToStream(&buf, doc); err != nil {
		t.Fatalf("documentToStream() error: %v", err)
	}

	got, err := documentFromStream(&buf)
	if err != nil {
		t.Fatalf("documentFromStream() error: %v", err)
	}

	if got.Text() != doc.Text() {
		t.Errorf("text = %q, want %q", got.Text(), doc.Text())
	}
	if got.OffsetType() != doc.OffsetType() {
		t.Errorf("offset type = %q, want %q", got.OffsetType(), doc.OffsetType())
	}
	if got.Features()["purpose"] != "testing" || got.Features()["reviewed"] != true {
		t.Errorf("document features = %v", got.Features())
	}
	if len(got.SetNames()) != 2 {
		t.Fatalf("set count = %d, want 2", len(got.SetNames()))
	}

	defset := got.AnnSet("")
	if defset.Len() != 2 {
		t.Fatalf("default set has %d annotations, want 2", defset.Len())
	}
	person := defset.Get(0)
	if person == nil || person.Type != "Person" || person.Start != 0 || person.End != 12 {
		t.Errorf("annotation 0 = %+v", person)
	}
	if person.Features["gender"] != "male" {
		t.Errorf("annotation features = %v", person.Features)
	}
	if defset.NextID() != 2 {
		t.Errorf("next id = %d, want 2", defset.NextID())
	}

	tokens := got.AnnSet("Tokens")
	if tokens.Len() != 1 || tokens.Get(0).Type != "Token" {
		t.Errorf("Tokens set = %+v", tokens.Annotations())
	}
}

func TestMsgPackVersionGuard(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeString("sm2"); err != nil {
		t.Fatal(err)
	}
	if err := enc.EncodeString("p"); err != nil {
		t.Fatal(err)
	}

	_, err := documentFromStream(&buf)
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("wrong version tag: err = %v, want ErrCorruptStream", err)
	}
}

func TestMsgPackVersionGuardNonString(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeInt(42); err != nil {
		t.Fatal(err)
	}

	_, err := documentFromStream(&buf)
	if !errors.Is(err, ErrCorruptStream) {
		t.Errorf("non-string version: err = %v, want ErrCorruptStream", err)
	}
}

func TestMsgPackTruncatedStream(t *testing.T) {
	var buf bytes.Buffer
	if err := documentToStream(&buf, sampleDocument()); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	// Cut at several points; every truncation must surface as a corrupt
	// stream, never as a partial document.
	for _, n := range []int{1, 5, len(data) / 2, len(data) - 1} {
		_, err := documentFromStream(bytes.NewReader(data[:n]))
		if !errors.Is(err, ErrCorruptStream) {
			t.Errorf("truncated at %d: err = %v, want ErrCorruptStream", n, err)
		}
	}
}

func TestMsgPackNilSetNameNormalized(t *testing.T) {
	// Hand-build a stream whose set name is a nil marker; readers must
	// treat it as the default set.
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	for _, step := range []func() error{
		func() error { return enc.EncodeString(streamVersion) },
		func() error { return enc.EncodeString("p") },
		func() error { return enc.EncodeString("some text") },
		func() error { return enc.Encode(map[string]any{}) },
		func() error { return enc.EncodeInt(1) }, // one set
		func() error { return enc.EncodeNil() },  // nil name
		func() error { return enc.EncodeInt(0) }, // next id
		func() error { return enc.EncodeInt(0) }, // no annotations
	} {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	doc, err := documentFromStream(&buf)
	if err != nil {
		t.Fatalf("documentFromStream() error: %v", err)
	}
	names := doc.SetNames()
	if len(names) != 1 || names[0] != "" {
		t.Errorf("set names = %q, want one empty name", names)
	}
}

func TestMsgPackNoOffsetValidation(t *testing.T) {
	// start > end passes through both directions untouched.
	doc := NewDocument("abc")
	doc.AnnSet("").put(&Annotation{ID: 0, Type: "X", Start: 2, End: 1})

	var buf bytes.Buffer
	if err := documentToStream(&buf, doc); err != nil {
		t.Fatalf("documentToStream() error: %v", err)
	}
	got, err := documentFromStream(&buf)
	if err != nil {
		t.Fatalf("documentFromStream() error: %v", err)
	}
	ann := got.AnnSet("").Get(0)
	if ann.Start != 2 || ann.End != 1 {
		t.Errorf("annotation = [%d,%d), want the invalid [2,1) preserved", ann.Start, ann.End)
	}
}

func TestEncodeValueChangeLog(t *testing.T) {
	var buf bytes.Buffer
	err := encodeValue(&buf, KindChangeLog, NewChangeLog())
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("encodeValue(changelog): err = %v, want ErrUnsupportedType", err)
	}
}

func TestEncodeValueUnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := encodeValue(&buf, Kind(99), nil)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("encodeValue(unknown kind): err = %v, want ErrUnsupportedType", err)
	}
}

func TestMsgPackSaveLoadMem(t *testing.T) {
	ctx := context.Background()
	doc := sampleDocument()

	data, err := SaveMem(ctx, doc, WithFormat(FormatMsgPack))
	if err != nil {
		t.Fatalf("SaveMem() error: %v", err)
	}
	got, err := LoadMem(ctx, data, WithFormat(FormatMsgPack))
	if err != nil {
		t.Fatalf("LoadMem() error: %v", err)
	}
	if got.Text() != doc.Text() {
		t.Errorf("text = %q, want %q", got.Text(), doc.Text())
	}
}
