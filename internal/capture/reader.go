package capture

import (
	"errors"
	"fmt"
	"io"
	"os"

	"example.com/disgate/internal/common"
	"example.com/disgate/internal/dis"
)

const defaultResyncWindow = 64 * 1024

var ErrNoHeader = errors.New("no plausible DIS header found")

// Reader walks a capture of back-to-back DIS PDUs framed by their header
// length fields, building an index as it goes.
type Reader struct {
	source       *window
	size         int64
	offset       int64
	resyncWindow int64

	metrics *common.Metrics
	index   FileIndex
}

// NewReader opens the capture at path.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{
		source:       newWindow(f, info.Size()),
		size:         info.Size(),
		resyncWindow: defaultResyncWindow,
	}, nil
}

func (r *Reader) Close() error {
	if r.source == nil {
		return nil
	}
	err := r.source.Close()
	r.source = nil
	return err
}

// SetMetrics attaches a metrics recorder to the reader.
func (r *Reader) SetMetrics(m *common.Metrics) {
	r.metrics = m
	if r.metrics != nil {
		r.metrics.SetTotalBytes(r.size)
	}
}

// Index returns a copy of the accumulated index.
func (r *Reader) Index() FileIndex {
	out := FileIndex{
		PDUs:    make([]PDUIndex, len(r.index.PDUs)),
		Resyncs: r.index.Resyncs,
	}
	copy(out.PDUs, r.index.PDUs)
	return out
}

// Next frames the next PDU and returns it decoded when its type has a binding.
// The PDU is nil for unsupported types and for bodies that fail to decode; the
// index entry says which. Next returns io.EOF at the end of the file.
func (r *Reader) Next() (dis.PDU, PDUIndex, error) {
	if r.source == nil {
		return nil, PDUIndex{}, io.EOF
	}
	for {
		if r.offset >= r.size {
			return nil, PDUIndex{}, io.EOF
		}
		if r.offset+dis.HeaderSize > r.size {
			// A tail too short for a header is unframed like any other gap.
			r.resync(fmt.Sprintf("%d trailing bytes shorter than a header", r.size-r.offset))
			return nil, PDUIndex{}, io.EOF
		}
		view, err := r.source.view(r.offset, dis.HeaderSize)
		if err != nil {
			return nil, PDUIndex{}, err
		}
		fr, err := dis.PeekHeader(view)
		if err != nil {
			return nil, PDUIndex{}, err
		}
		if reason := r.implausible(r.offset, fr); reason != "" {
			// A window without a header is skipped; keep scanning.
			if err := r.resync(reason); err != nil && !errors.Is(err, ErrNoHeader) {
				return nil, PDUIndex{}, err
			}
			continue
		}

		idx := PDUIndex{
			Offset:     r.offset,
			Length:     fr.Length,
			Version:    fr.Header.ProtocolVersion,
			ExerciseID: fr.Header.ExerciseID,
			Type:       fr.Header.PDUType,
			Family:     fr.Header.ProtocolFamily,
			Timestamp:  fr.Header.Timestamp,
			Supported:  dis.IsSupported(fr.Header.PDUType),
		}
		var pdu dis.PDU
		if idx.Supported {
			body, err := r.source.view(r.offset, fr.Length)
			if err != nil {
				return nil, PDUIndex{}, err
			}
			pdu, _, err = dis.DecodePDU(body)
			if err != nil {
				idx.DecodeError = err.Error()
				common.Logf("PDU at offset %d (%v) failed to decode: %v", r.offset, idx.Type, err)
				if r.metrics != nil {
					r.metrics.IncUndecoded()
				}
			}
		}

		r.index.PDUs = append(r.index.PDUs, idx)
		if r.metrics != nil {
			r.metrics.AddPDU(int64(fr.Length))
		}
		r.offset += int64(fr.Length)
		return pdu, idx, nil
	}
}

// implausible explains why the header at offset cannot start a PDU.
func (r *Reader) implausible(offset int64, fr dis.Frame) string {
	switch {
	case !fr.Header.ProtocolVersion.Known():
		return fmt.Sprintf("protocol version %d", uint8(fr.Header.ProtocolVersion))
	case !fr.Header.PDUType.Known():
		return fmt.Sprintf("PDU type %d", uint8(fr.Header.PDUType))
	case fr.Length < dis.HeaderSize:
		return fmt.Sprintf("length %d shorter than header", fr.Length)
	case offset+int64(fr.Length) > r.size:
		return "PDU length beyond file"
	}
	return ""
}

func (r *Reader) resync(reason string) error {
	common.Logf("resync at offset %d: %s", r.offset, reason)
	r.index.Resyncs++
	if r.metrics != nil {
		r.metrics.IncResync()
	}
	origOffset := r.offset
	advance := func(to int64) {
		r.offset = to
		if r.metrics != nil && r.offset > origOffset {
			r.metrics.AddSkipped(r.offset - origOffset)
		}
	}
	start := r.offset + 1
	if start+dis.HeaderSize > r.size {
		advance(r.size)
		return io.EOF
	}
	limit := start + r.resyncWindow + dis.HeaderSize - 1
	if limit > r.size {
		limit = r.size
	}
	buf, err := r.source.view(start, int(limit-start))
	if err != nil {
		return err
	}
	n := len(buf)
	for i := 0; i+dis.HeaderSize <= n; i++ {
		fr, err := dis.PeekHeader(buf[i : i+dis.HeaderSize])
		if err != nil {
			continue
		}
		if r.implausible(start+int64(i), fr) == "" {
			advance(start + int64(i))
			common.Logf("resync successful, new offset %d", r.offset)
			return nil
		}
	}
	next := start + int64(n) - dis.HeaderSize + 1
	if next <= origOffset {
		next = origOffset + 1
	}
	advance(next)
	if limit >= r.size {
		advance(r.size)
		return io.EOF
	}
	return ErrNoHeader
}

// PDU decodes the PDU described by idx.
func (r *Reader) PDU(idx PDUIndex) (dis.PDU, error) {
	body, err := r.Bytes(idx)
	if err != nil {
		return nil, err
	}
	p, _, err := dis.DecodePDU(body)
	return p, err
}

// Bytes returns a copy of the raw PDU described by idx.
func (r *Reader) Bytes(idx PDUIndex) ([]byte, error) {
	if r.source == nil {
		return nil, os.ErrClosed
	}
	view, err := r.source.view(idx.Offset, idx.Length)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), view...), nil
}

// ScanFile indexes every PDU in the capture at path.
func ScanFile(path string) (FileIndex, error) {
	reader, err := NewReader(path)
	if err != nil {
		return FileIndex{}, err
	}
	defer reader.Close()
	for {
		_, _, err := reader.Next()
		if err == nil {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		return reader.Index(), err
	}
	idx := reader.Index()
	if len(idx.PDUs) == 0 {
		return idx, ErrNoHeader
	}
	return idx, nil
}
