// Package compressx wraps the gzip codec used by the storage pipeline.
//
// Compression runs over already-encrypted ciphertext. The ratio on
// high-entropy input is poor, but the ordering (encrypt, then compress) is
// part of the stored blob format and is kept as-is.
package compressx

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/mkarulin/filevault/internal/common"
)

// Compress gzips data.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompressionFailed, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCompressionFailed, err)
	}
	return buf.Bytes(), nil
}

// Decompress gunzips data. Failure signals corrupted or non-gzip input.
func Decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecompressionFailed, err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecompressionFailed, err)
	}
	return out, nil
}
