package bdoc

// options collects the recognized save/load configuration. Zero value means
// resolve the format from the target and keep the document's own conventions.
type options struct {
	format       string
	gzip         bool
	offsetType   OffsetType // override stored offset type on save ("" = keep)
	notebook     bool       // viewer: emit a fragment instead of a full page
	offline      bool       // viewer: inline the script instead of CDN tags
	lenientTypes bool       // gatexml: drop unknown feature types with a warning
}

// Option configures a single save or load call.
type Option func(*options)

// WithFormat selects a handler by explicit format token, bypassing extension
// resolution. An unregistered token fails with ErrUnknownFormat.
func WithFormat(format string) Option {
	return func(o *options) { o.format = format }
}

// WithGZip wraps the underlying bytes in a gzip compression filter.
func WithGZip() Option {
	return func(o *options) { o.gzip = true }
}

// WithOffsetType converts annotation offsets to the given convention while
// saving through the JSON or YAML codec. The in-memory document is unchanged.
func WithOffsetType(t OffsetType) Option {
	return func(o *options) { o.offsetType = t }
}

// WithNotebook makes the HTML viewer saver emit an embeddable fragment
// instead of a complete page.
func WithNotebook() Option {
	return func(o *options) { o.notebook = true }
}

// WithOffline makes the HTML viewer saver inline the viewer script instead
// of referencing it from a remote URL.
func WithOffline() Option {
	return func(o *options) { o.offline = true }
}

// WithLenientTypes makes the GATE XML loader drop features with unknown
// declared types instead of failing.
func WithLenientTypes() Option {
	return func(o *options) { o.lenientTypes = true }
}

// buildOptions applies the given options to a zero options value.
func buildOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
