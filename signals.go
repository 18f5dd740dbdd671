package bdoc

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalSaveStart      = capitan.NewSignal("bdoc.save.start", "Save operation beginning")
	SignalSaveComplete   = capitan.NewSignal("bdoc.save.complete", "Save operation finished")
	SignalLoadStart      = capitan.NewSignal("bdoc.load.start", "Load operation beginning")
	SignalLoadComplete   = capitan.NewSignal("bdoc.load.complete", "Load operation finished")
	SignalNodeSkipped    = capitan.NewSignal("bdoc.markup.node_skipped", "Markup node of unhandled kind skipped")
	SignalFeatureDropped = capitan.NewSignal("bdoc.gatexml.feature_dropped", "Feature with unknown declared type dropped")
)

// Keys for typed event data.
var (
	KeyFormat      = capitan.NewStringKey("format")
	KeyTarget      = capitan.NewStringKey("target")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
	KeySetCount    = capitan.NewIntKey("set_count")
	KeyNodeKind    = capitan.NewStringKey("node_kind")
	KeyFeatureName = capitan.NewStringKey("feature_name")
	KeyClassName   = capitan.NewStringKey("class_name")
)

// emitSaveStart emits an event when a save begins.
func emitSaveStart(ctx context.Context, format, target string) {
	capitan.Emit(ctx, SignalSaveStart,
		KeyFormat.Field(format),
		KeyTarget.Field(target),
	)
}

// emitSaveComplete emits an event when a save finishes.
func emitSaveComplete(ctx context.Context, format, target string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(format),
		KeyTarget.Field(target),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSaveComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSaveComplete, fields...)
	}
}

// emitLoadStart emits an event when a load begins.
func emitLoadStart(ctx context.Context, format, target string) {
	capitan.Emit(ctx, SignalLoadStart,
		KeyFormat.Field(format),
		KeyTarget.Field(target),
	)
}

// emitLoadComplete emits an event when a load finishes.
func emitLoadComplete(ctx context.Context, format, target string, sets int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyFormat.Field(format),
		KeyTarget.Field(target),
		KeySetCount.Field(sets),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalLoadComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalLoadComplete, fields...)
	}
}

// emitNodeSkipped emits a diagnostic when markup traversal skips a node of a
// kind it does not handle. The call is not aborted.
func emitNodeSkipped(ctx context.Context, kind string) {
	capitan.Emit(ctx, SignalNodeSkipped, KeyNodeKind.Field(kind))
}

// emitFeatureDropped emits a diagnostic when the lenient GATE XML loader
// drops a feature with an unknown declared type. The call is not aborted.
func emitFeatureDropped(ctx context.Context, name, className string) {
	capitan.Emit(ctx, SignalFeatureDropped,
		KeyFeatureName.Field(name),
		KeyClassName.Field(className),
	)
}
