package bdoc

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// isURL reports whether spec names a remote HTTP(S) resource rather than a
// filesystem path.
func isURL(spec string) bool {
	return strings.HasPrefix(spec, "http://") || strings.HasPrefix(spec, "https://")
}

// source is a read target: exactly one of an in-memory buffer, a filesystem
// path or a remote URL. Every open reads the resource from scratch, so a
// sniffing pass never consumes content from the loader that follows it.
type source struct {
	mem  []byte
	path string
	url  string
}

// newSource classifies a path-or-URL spec.
func newSource(spec string) *source {
	if isURL(spec) {
		return &source{url: spec}
	}
	return &source{path: spec}
}

// memSource wraps an in-memory buffer.
func memSource(data []byte) *source {
	return &source{mem: data}
}

// open returns a fresh reader over the full resource.
func (s *source) open() (io.ReadCloser, error) {
	switch {
	case s.path != "":
		return os.Open(s.path)
	case s.url != "":
		resp, err := http.Get(s.url)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: unexpected status %s", s.url, resp.Status)
		}
		return resp.Body, nil
	default:
		return io.NopCloser(bytes.NewReader(s.mem)), nil
	}
}

// reader returns a fresh reader, optionally routed through a gzip filter.
func (s *source) reader(gz bool) (io.ReadCloser, error) {
	rc, err := s.open()
	if err != nil {
		return nil, err
	}
	if !gz {
		return rc, nil
	}
	zr, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &stackedReadCloser{Reader: zr, closers: []io.Closer{zr, rc}}, nil
}

// sniff reads the first byte of the resource and discards the rest.
func (s *source) sniff() (byte, error) {
	rc, err := s.open()
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	var b [1]byte
	if _, err := io.ReadFull(rc, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

// readAll reads the full resource, optionally through gzip.
func (s *source) readAll(gz bool) ([]byte, error) {
	rc, err := s.reader(gz)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// destination is a write target: a filesystem path, or an in-memory buffer
// when path is empty.
type destination struct {
	path string
	buf  bytes.Buffer
	size int
}

// writer opens the target, optionally routed through a gzip filter. Closing
// the returned writer flushes the compression layer before the underlying
// target.
func (d *destination) writer(gz bool) (io.WriteCloser, error) {
	var (
		w       io.Writer
		closers []io.Closer
	)
	if d.path != "" {
		f, err := os.Create(d.path)
		if err != nil {
			return nil, err
		}
		w = f
		closers = []io.Closer{f}
	} else {
		w = &d.buf
	}
	cw := &countingWriter{w: w, n: &d.size}
	if gz {
		zw := gzip.NewWriter(cw)
		return &stackedWriteCloser{Writer: zw, closers: append([]io.Closer{zw}, closers...)}, nil
	}
	return &stackedWriteCloser{Writer: cw, closers: closers}, nil
}

// writeAll writes data to the target, optionally through gzip.
func (d *destination) writeAll(data []byte, gz bool) error {
	w, err := d.writer(gz)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// countingWriter tracks bytes written to the underlying target.
type countingWriter struct {
	w io.Writer
	n *int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	*c.n += n
	return n, err
}

// stackedWriteCloser closes a stack of layered writers in order.
type stackedWriteCloser struct {
	io.Writer
	closers []io.Closer
}

func (s *stackedWriteCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// stackedReadCloser closes a stack of layered readers in order.
type stackedReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (s *stackedReadCloser) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
