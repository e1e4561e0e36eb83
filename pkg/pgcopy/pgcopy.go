// Package pgcopy implements the binary row envelope shared by every
// persisted artifact in this module: the Lookup, Metric, and MCCFR
// blueprint tables. It mirrors PostgreSQL's `COPY ... (FORMAT binary)`
// framing (magic, flags, header extension, rows, 0xFFFF trailer) because
// that framing is what the on-disk contract specifies, not because a
// real Postgres connection is involved anywhere.
package pgcopy

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

var magic = [11]byte{'P', 'G', 'C', 'O', 'P', 'Y', '\n', 0xFF, '\r', '\n', 0x00}

// Writer appends rows to a PGCOPY-framed file. It is not safe for
// concurrent use.
type Writer struct {
	f    *os.File
	bw   *bufio.Writer
	path string
	tmp  string
	done bool
}

// Create opens a new atomic writer for path: the header is written
// immediately to a temp file; Close writes the trailer and renames the
// temp file into place so readers never observe a partial artifact.
func Create(path string) (*Writer, error) {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return nil, fmt.Errorf("pgcopy: create %s: %w", tmp, err)
	}
	w := &Writer{f: f, bw: bufio.NewWriter(f), path: path, tmp: tmp}
	if _, err := w.bw.Write(magic[:]); err != nil {
		f.Close()
		return nil, err
	}
	if err := binary.Write(w.bw, binary.BigEndian, uint32(0)); err != nil { // flags
		f.Close()
		return nil, err
	}
	if err := binary.Write(w.bw, binary.BigEndian, uint32(0)); err != nil { // header extension length
		f.Close()
		return nil, err
	}
	return w, nil
}

// WriteRow writes one row: a big-endian field count followed by each
// field's 4-byte length and raw big-endian bytes.
func (w *Writer) WriteRow(fields ...Field) error {
	if err := binary.Write(w.bw, binary.BigEndian, uint16(len(fields))); err != nil {
		return err
	}
	for _, f := range fields {
		if err := binary.Write(w.bw, binary.BigEndian, f.size()); err != nil {
			return err
		}
		if err := f.writeTo(w.bw); err != nil {
			return err
		}
	}
	return nil
}

// Close writes the 0xFFFF trailer, flushes, and atomically renames the
// temp file into place. It is a no-op if already closed.
func (w *Writer) Close() error {
	if w.done {
		return nil
	}
	w.done = true
	if err := binary.Write(w.bw, binary.BigEndian, uint16(0xFFFF)); err != nil {
		w.f.Close()
		return err
	}
	if err := w.bw.Flush(); err != nil {
		w.f.Close()
		return err
	}
	if err := w.f.Close(); err != nil {
		return err
	}
	return os.Rename(w.tmp, w.path)
}

// Field is one PGCOPY row field of a fixed-width scalar type.
type Field interface {
	size() uint32
	writeTo(w io.Writer) error
}

type i64Field int64
type u64Field uint64
type u32Field uint32
type f32Field float32

func I64(v int64) Field   { return i64Field(v) }
func U64(v uint64) Field  { return u64Field(v) }
func U32(v uint32) Field  { return u32Field(v) }
func F32(v float32) Field { return f32Field(v) }

func (i64Field) size() uint32 { return 8 }
func (u64Field) size() uint32 { return 8 }
func (u32Field) size() uint32 { return 4 }
func (f32Field) size() uint32 { return 4 }

func (v i64Field) writeTo(w io.Writer) error { return binary.Write(w, binary.BigEndian, int64(v)) }
func (v u64Field) writeTo(w io.Writer) error { return binary.Write(w, binary.BigEndian, uint64(v)) }
func (v u32Field) writeTo(w io.Writer) error { return binary.Write(w, binary.BigEndian, uint32(v)) }
func (v f32Field) writeTo(w io.Writer) error { return binary.Write(w, binary.BigEndian, float32(v)) }

// Reader reads rows from a PGCOPY-framed file, validating the envelope
// up front so a corrupt header fails fast rather than silently yielding
// zero rows.
type Reader struct {
	r   *bufio.Reader
	f   *os.File
	eof bool
}

// Open validates the magic/flags/header-extension and positions the
// reader at the first row.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("pgcopy: open %s: %w", path, err)
	}
	r := bufio.NewReader(f)
	var got [11]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		f.Close()
		return nil, fmt.Errorf("pgcopy: %s: truncated header: %w", path, err)
	}
	if got != magic {
		f.Close()
		return nil, fmt.Errorf("pgcopy: %s: bad magic", path)
	}
	var flags, ext uint32
	if err := binary.Read(r, binary.BigEndian, &flags); err != nil {
		f.Close()
		return nil, fmt.Errorf("pgcopy: %s: truncated flags: %w", path, err)
	}
	if flags != 0 {
		f.Close()
		return nil, fmt.Errorf("pgcopy: %s: unsupported flags %#x", path, flags)
	}
	if err := binary.Read(r, binary.BigEndian, &ext); err != nil {
		f.Close()
		return nil, fmt.Errorf("pgcopy: %s: truncated header extension: %w", path, err)
	}
	if ext != 0 {
		// skip any declared header-extension bytes rather than assume none
		if _, err := io.CopyN(io.Discard, r, int64(ext)); err != nil {
			f.Close()
			return nil, fmt.Errorf("pgcopy: %s: truncated header extension body: %w", path, err)
		}
	}
	return &Reader{r: r, f: f}, nil
}

// Next reads one row's raw field bytes. ok is false once the trailer is
// reached; any framing inconsistency (bad field count marker, truncated
// length, truncated field body) is a fatal error, never a silent stop.
func (r *Reader) Next(wantFields int) (fields [][]byte, ok bool, err error) {
	if r.eof {
		return nil, false, nil
	}
	var count uint16
	if err := binary.Read(r.r, binary.BigEndian, &count); err != nil {
		return nil, false, fmt.Errorf("pgcopy: truncated row/trailer marker: %w", err)
	}
	if count == 0xFFFF {
		r.eof = true
		return nil, false, nil
	}
	if int(count) != wantFields {
		return nil, false, fmt.Errorf("pgcopy: expected %d fields, row declares %d", wantFields, count)
	}
	fields = make([][]byte, count)
	for i := range fields {
		var length uint32
		if err := binary.Read(r.r, binary.BigEndian, &length); err != nil {
			return nil, false, fmt.Errorf("pgcopy: truncated field length: %w", err)
		}
		buf := make([]byte, length)
		if _, err := io.ReadFull(r.r, buf); err != nil {
			return nil, false, fmt.Errorf("pgcopy: truncated field body: %w", err)
		}
		fields[i] = buf
	}
	return fields, true, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

// DecodeI64 and friends interpret a field's raw big-endian bytes. They
// panic on a length mismatch: that is a framing bug this codec already
// should have caught via wantFields, never a value to recover from.
func DecodeI64(b []byte) int64 {
	if len(b) != 8 {
		panic(fmt.Sprintf("pgcopy: i64 field has %d bytes", len(b)))
	}
	return int64(binary.BigEndian.Uint64(b))
}

func DecodeU64(b []byte) uint64 {
	if len(b) != 8 {
		panic(fmt.Sprintf("pgcopy: u64 field has %d bytes", len(b)))
	}
	return binary.BigEndian.Uint64(b)
}

func DecodeU32(b []byte) uint32 {
	if len(b) != 4 {
		panic(fmt.Sprintf("pgcopy: u32 field has %d bytes", len(b)))
	}
	return binary.BigEndian.Uint32(b)
}

func DecodeF32(b []byte) float32 {
	if len(b) != 4 {
		panic(fmt.Sprintf("pgcopy: f32 field has %d bytes", len(b)))
	}
	return math.Float32frombits(binary.BigEndian.Uint32(b))
}
