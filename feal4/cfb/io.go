package cfb

import "io"

type reader struct {
	r io.Reader
	s *Stream
}

// NewReader returns a reader that passes everything read from r through s.
func NewReader(r io.Reader, s *Stream) io.Reader {
	return &reader{r: r, s: s}
}

func (r *reader) Read(p []byte) (int, error) {
	n, err := r.r.Read(p)
	r.s.XORKeyStream(p[:n], p[:n])
	return n, err
}

type writer struct {
	w   io.Writer
	s   *Stream
	buf []byte
}

// NewWriter returns a writer that passes everything written through s before writing it to w.
// Close closes w when it is an io.Closer.
func NewWriter(w io.Writer, s *Stream) io.WriteCloser {
	return &writer{w: w, s: s}
}

func (w *writer) Write(p []byte) (int, error) {
	if cap(w.buf) < len(p) {
		w.buf = make([]byte, len(p))
	}
	out := w.buf[:len(p)]
	w.s.XORKeyStream(out, p)
	n, err := w.w.Write(out)
	if err == nil && n != len(p) {
		err = io.ErrShortWrite
	}
	return n, err
}

func (w *writer) Close() error {
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
