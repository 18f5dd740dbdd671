package bdoc

import (
	"context"
	"encoding/json"
)

// ChangeLog records document mutations as an ordered list of change
// dictionaries, so edits made against a detached copy can be replayed
// elsewhere. Only the JSON representation is defined; the binary codec has
// no encoding for change logs.
type ChangeLog struct {
	changes    []map[string]any
	offsetType OffsetType
}

// NewChangeLog creates an empty change log with codepoint offsets.
func NewChangeLog() *ChangeLog {
	return &ChangeLog{offsetType: OffsetCodepoint}
}

// Append adds a change record to the log.
func (cl *ChangeLog) Append(change map[string]any) {
	cl.changes = append(cl.changes, change)
}

// Len returns the number of recorded changes.
func (cl *ChangeLog) Len() int { return len(cl.changes) }

// Changes returns the recorded changes in order.
func (cl *ChangeLog) Changes() []map[string]any { return cl.changes }

// OffsetType returns the unit convention the log's offsets use.
func (cl *ChangeLog) OffsetType() OffsetType { return cl.offsetType }

type changelogDict struct {
	Changes    []map[string]any `json:"changes"`
	OffsetType OffsetType       `json:"offset_type"`
}

// saveChangeLogJSON serializes a change log as JSON.
func saveChangeLogJSON(ctx context.Context, cl *ChangeLog, dst *destination, o *options) error {
	data, err := json.Marshal(&changelogDict{Changes: cl.changes, OffsetType: cl.offsetType})
	if err != nil {
		return newStreamError(ErrUnsupportedType, "encoding json", err)
	}
	return dst.writeAll(data, o.gzip)
}

// saveChangeLogJSONGzip is saveChangeLogJSON with compression forced on.
func saveChangeLogJSONGzip(ctx context.Context, cl *ChangeLog, dst *destination, o *options) error {
	oo := *o
	oo.gzip = true
	return saveChangeLogJSON(ctx, cl, dst, &oo)
}

// loadChangeLogJSON reconstructs a change log from JSON.
func loadChangeLogJSON(ctx context.Context, src *source, o *options) (*ChangeLog, error) {
	data, err := src.readAll(o.gzip)
	if err != nil {
		return nil, err
	}
	var dd changelogDict
	if err := json.Unmarshal(data, &dd); err != nil {
		return nil, newStreamError(ErrCorruptStream, "decoding json", err)
	}
	cl := &ChangeLog{changes: dd.Changes, offsetType: dd.OffsetType}
	if cl.offsetType == "" {
		cl.offsetType = OffsetCodepoint
	}
	return cl, nil
}

// loadChangeLogJSONGzip is loadChangeLogJSON with compression forced on.
func loadChangeLogJSONGzip(ctx context.Context, src *source, o *options) (*ChangeLog, error) {
	oo := *o
	oo.gzip = true
	return loadChangeLogJSON(ctx, src, &oo)
}
