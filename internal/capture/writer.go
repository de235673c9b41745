package capture

import (
	"io"

	"example.com/disgate/internal/common"
	"example.com/disgate/internal/dis"
)

// Writer appends encoded PDUs to w and keeps a running SHA-256 digest of
// everything written.
type Writer struct {
	w     io.Writer
	hash  *common.Hasher
	count int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, hash: common.NewHasher()}
}

// WritePDU encodes p and appends it.
func (w *Writer) WritePDU(p dis.PDU) (int, error) {
	buf, err := dis.Marshal(p)
	if err != nil {
		return 0, err
	}
	return w.write(buf)
}

// WriteRaw appends bytes that are not a PDU, such as framing noise.
func (w *Writer) WriteRaw(b []byte) (int, error) {
	return w.write(b)
}

func (w *Writer) write(b []byte) (int, error) {
	n, err := w.w.Write(b)
	w.hash.Write(b[:n])
	if err == nil {
		w.count++
	}
	return n, err
}

// Count is the number of successful writes.
func (w *Writer) Count() int { return w.count }

// Digest is the hex SHA-256 of the bytes written so far.
func (w *Writer) Digest() string { return w.hash.Sum() }

// Bytes is the number of bytes written so far.
func (w *Writer) Bytes() int64 { return w.hash.Len() }
