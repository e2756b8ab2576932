package object

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// compressZstd compresses data using zstd.
func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

// decompressZstd decompresses zstd-compressed data.
func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// readHeaderZstd decodes only as much of a compressed object as needed to
// parse its "type len\0" envelope header.
func readHeaderZstd(r io.Reader) (ObjectType, int, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return "", 0, err
	}
	defer dec.Close()

	header, err := bufio.NewReader(dec).ReadString(0)
	if err != nil {
		return "", 0, fmt.Errorf("read header: %w", err)
	}
	return parseHeader(strings.TrimSuffix(header, "\x00"))
}

func parseHeader(header string) (ObjectType, int, error) {
	typ, size, ok := strings.Cut(header, " ")
	if !ok {
		return "", 0, fmt.Errorf("invalid header %q", header)
	}
	objType := ObjectType(typ)
	if !objType.valid() {
		return "", 0, fmt.Errorf("unknown object type %q", typ)
	}
	n, err := strconv.Atoi(size)
	if err != nil || n < 0 {
		return "", 0, fmt.Errorf("invalid length %q", size)
	}
	return objType, n, nil
}
