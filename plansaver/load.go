package plansaver

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

var (
	ErrNotAPlan           = errors.New("not a plan file")
	ErrUnsupportedVersion = errors.New("unsupported plan format version")
)

// Load reads a plan written by Save.
func Load(r io.Reader) (*planmodel.Plan, error) {
	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("reading plan header: %w", err)
	}
	if !bytes.Equal(magic, magicBytes) {
		return nil, ErrNotAPlan
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("reading plan version: %w", err)
	}

	switch version {
	case formatVersion:
		var plan planmodel.Plan
		if err := gob.NewDecoder(r).Decode(&plan); err != nil {
			return nil, fmt.Errorf("decoding plan: %w", err)
		}
		return &plan, nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
}

// LoadFile reads a plan from path, transparently decompressing .zst
// files.
func LoadFile(path string) (*planmodel.Plan, error) {
	r, err := openReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	plan, err := Load(r)
	if err != nil {
		return nil, fmt.Errorf("loading plan from %s: %w", path, err)
	}
	return plan, nil
}

func openReader(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &zstdReadCloser{Reader: dec.IOReadCloser(), file: f}, nil
	}
	return f, nil
}

// zstdReadCloser ties the file lifetime to the decoder stream.
type zstdReadCloser struct {
	io.Reader
	file *os.File
}

func (r *zstdReadCloser) Close() error {
	if c, ok := r.Reader.(io.Closer); ok {
		c.Close()
	}
	return r.file.Close()
}
