package server

import (
	"io"

	"github.com/golang/snappy"
	"google.golang.org/grpc/encoding"
)

// SnappyName is the grpc-encoding name clients pass to grpc.UseCompressor.
const SnappyName = "snappy"

type snappyCompressor struct{}

func init() {
	encoding.RegisterCompressor(snappyCompressor{})
}

func (snappyCompressor) Name() string {
	return SnappyName
}

func (snappyCompressor) Compress(w io.Writer) (io.WriteCloser, error) {
	return snappy.NewBufferedWriter(w), nil
}

func (snappyCompressor) Decompress(r io.Reader) (io.Reader, error) {
	return snappy.NewReader(r), nil
}
