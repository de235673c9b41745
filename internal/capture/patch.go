package capture

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// PatchEdit overwrites len(Data) bytes at Offset.
type PatchEdit struct {
	Offset int64
	Data   []byte
}

// ApplyPatch applies edits to the file at path in place. Edits must lie
// within the file; the file length never changes.
func ApplyPatch(path string, edits []PatchEdit) error {
	ordered := make([]PatchEdit, 0, len(edits))
	for _, e := range edits {
		if len(e.Data) == 0 {
			continue
		}
		ordered = append(ordered, PatchEdit{Offset: e.Offset, Data: append([]byte(nil), e.Data...)})
	}
	if len(ordered) == 0 {
		return nil
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Offset < ordered[j].Offset
	})

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	for _, edit := range ordered {
		if edit.Offset < 0 {
			return fmt.Errorf("negative patch offset %d", edit.Offset)
		}
		if end := edit.Offset + int64(len(edit.Data)); end > size {
			return fmt.Errorf("patch at %d with length %d exceeds file size %d", edit.Offset, len(edit.Data), size)
		}
		if _, err := f.Seek(edit.Offset, io.SeekStart); err != nil {
			return err
		}
		if _, err := f.Write(edit.Data); err != nil {
			return err
		}
	}
	return f.Sync()
}
