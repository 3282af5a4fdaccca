package chipqc

import (
	"bufio"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"strings"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZlib
	DataTypeBZip2
)

// Ordered so that the longest signatures are tested first.
var byteCodeSigs = []struct {
	DataType
	sig []byte
}{
	{DataTypeXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}},
	{DataTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}},
	{DataTypeGzip, []byte{0x1f, 0x8b, 0x08}},
	{DataTypeBZip2, []byte{0x42, 0x5a, 0x68}},
	{DataTypeZlib, []byte{0x78, 0x01}},
	{DataTypeZlib, []byte{0x78, 0x9c}},
	{DataTypeZlib, []byte{0x78, 0xda}},
}

// compressionSuffixes are stripped when reasoning about the logical file type
// of a path, e.g. "sheet.csv.gz" is a csv.
var compressionSuffixes = []string{".gz", ".bz2", ".xz", ".zip", ".z"}

// DetectDataType peeks at the head of the stream without consuming it and
// reports which known compression format, if any, it carries. Byte code
// signatures from https://stackoverflow.com/a/19127748/199475
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

Outer:
	for _, candidate := range byteCodeSigs {
		if len(buff) < len(candidate.sig) {
			continue
		}
		for position := range candidate.sig {
			if buff[position] != candidate.sig[position] {
				continue Outer
			}
		}
		return candidate.DataType, nil
	}

	return DataTypeNoCompression, nil
}

// MaybeDecompressReadCloser wraps rc with the decompressor matching its
// leading bytes. Closing the result closes rc.
func MaybeDecompressReadCloser(rc io.ReadCloser) (io.ReadCloser, error) {
	buffered := bufio.NewReader(rc)

	dt, err := DetectDataType(buffered)
	if err != nil {
		return nil, pfx.Err(err)
	}

	var inner io.Reader
	switch dt {
	case DataTypeGzip:
		inner, err = gzip.NewReader(buffered)
	case DataTypeZip:
		// Only the first entry of an archive is read.
		zr := zipstream.NewReader(buffered)
		if _, err = zr.Next(); err == nil {
			inner = zr
		}
	case DataTypeBZip2:
		inner = bzip2.NewReader(buffered)
	case DataTypeXZ:
		inner, err = xz.NewReader(buffered, 0)
	case DataTypeZlib:
		inner, err = zlib.NewReader(buffered)
	default:
		inner = buffered
	}
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &stackedReadCloser{Reader: inner, closer: rc}, nil
}

// TrimCompressionSuffix removes a single trailing compression suffix.
func TrimCompressionSuffix(path string) string {
	lower := strings.ToLower(path)
	for _, suffix := range compressionSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return path[:len(path)-len(suffix)]
		}
	}

	return path
}

// stackedReadCloser reads from the decompressed stream but closes the
// underlying source.
type stackedReadCloser struct {
	io.Reader
	closer io.Closer
}

func (c *stackedReadCloser) Close() error {
	if rc, ok := c.Reader.(io.Closer); ok {
		rc.Close()
	}
	return c.closer.Close()
}
