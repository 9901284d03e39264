// Package plansaver persists sampling plans between the generate and
// serve stages.
//
// A plan file starts with a magic marker and a little-endian format
// version, followed by the gob-encoded plan. Paths ending in .zst are
// zstd-compressed around the whole frame.
package plansaver

import (
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/regs08/random-sampling-generator-from-kml/planmodel"
)

var magicBytes = []byte("RSPLAN")

const formatVersion uint32 = 1

// Save writes the plan to w in the versioned plan format.
func Save(w io.Writer, plan *planmodel.Plan) error {
	if _, err := w.Write(magicBytes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, formatVersion); err != nil {
		return err
	}
	if err := gob.NewEncoder(w).Encode(plan); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return nil
}

// SaveFile writes the plan to path, creating missing parent directories.
// A .zst suffix switches on compression.
func SaveFile(path string, plan *planmodel.Plan) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var enc *zstd.Encoder
	if strings.HasSuffix(path, ".zst") {
		enc, err = zstd.NewWriter(f)
		if err != nil {
			f.Close()
			return err
		}
		w = enc
	}

	if err := Save(w, plan); err != nil {
		if enc != nil {
			enc.Close()
		}
		f.Close()
		return err
	}
	if enc != nil {
		if err := enc.Close(); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}
