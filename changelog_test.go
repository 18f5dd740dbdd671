package bdoc

import (
	"context"
	"testing"
)

func TestChangeLogJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	cl := NewChangeLog()
	cl.Append(map[string]any{"command": "ann:add", "set": "", "start": 0, "end": 4, "type": "Token"})
	cl.Append(map[string]any{"command": "doc-feature:set", "feature": "lang", "value": "en"})

	data, err := SaveChangeLogMem(ctx, cl, WithFormat(FormatJSON))
	if err != nil {
		t.Fatalf("SaveChangeLogMem() error: %v", err)
	}

	got, err := LoadChangeLogMem(ctx, data, WithFormat(FormatJSON))
	if err != nil {
		t.Fatalf("LoadChangeLogMem() error: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("changes = %d, want 2", got.Len())
	}
	if got.Changes()[0]["command"] != "ann:add" {
		t.Errorf("first change = %v", got.Changes()[0])
	}
	if got.OffsetType() != OffsetCodepoint {
		t.Errorf("offset type = %q, want %q", got.OffsetType(), OffsetCodepoint)
	}
}

func TestChangeLogMsgPackNotRegistered(t *testing.T) {
	_, err := SaveChangeLogMem(context.Background(), NewChangeLog(), WithFormat(FormatMsgPack))
	if err == nil {
		t.Error("msgpack changelog save should fail; no binary encoding exists")
	}
}
