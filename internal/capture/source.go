package capture

import (
	"errors"
	"io"
	"os"
)

const windowSize = 1 << 20

// window caches one contiguous region of the capture file. Slices returned by
// view alias the cache and stay valid only until the next call.
type window struct {
	f    *os.File
	size int64
	buf  []byte
	at   int64
}

func newWindow(f *os.File, size int64) *window {
	return &window{f: f, size: size}
}

// view returns exactly n bytes starting at offset, reading a fresh window
// from the file when the cached one does not cover them.
func (w *window) view(offset int64, n int) ([]byte, error) {
	if w.f == nil {
		return nil, os.ErrClosed
	}
	if n < 0 || offset < 0 || offset+int64(n) > w.size {
		return nil, io.ErrUnexpectedEOF
	}
	if offset >= w.at && offset+int64(n) <= w.at+int64(len(w.buf)) {
		start := offset - w.at
		return w.buf[start : start+int64(n)], nil
	}
	want := max(n, windowSize)
	if rest := w.size - offset; int64(want) > rest {
		want = int(rest)
	}
	if cap(w.buf) < want {
		w.buf = make([]byte, want)
	}
	w.buf = w.buf[:want]
	got, err := w.f.ReadAt(w.buf, offset)
	if got < want {
		w.buf = w.buf[:0]
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	w.at = offset
	return w.buf[:n], nil
}

func (w *window) Close() error {
	if w.f == nil {
		return nil
	}
	err := w.f.Close()
	w.f = nil
	w.buf = nil
	return err
}
