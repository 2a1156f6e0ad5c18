package compression

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/glorpus-work/zipack/pkg/errors"
)

// NewCompressor returns a codec that compresses everything written to it into w
// according to c. Closing the codec flushes the final block but does not close w.
func (c Config) NewCompressor(w io.Writer) (io.WriteCloser, error) {
	switch c.Method {
	case Store:
		return nopCloser{w}, nil
	case Deflate:
		fw, err := flate.NewWriter(w, c.Level)
		if err != nil {
			return nil, errors.Wrapf(err, "create deflate writer at level %d", c.Level)
		}
		return fw, nil
	case Bzip2:
		// Level 0 selects the codec default.
		bw, err := bzip2.NewWriter(w, &bzip2.WriterConfig{Level: c.Level})
		if err != nil {
			return nil, errors.Wrapf(err, "create bzip2 writer at level %d", c.Level)
		}
		return bw, nil
	case Zstd:
		enc, err := zstd.NewWriter(w,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.Level)),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			return nil, errors.Wrapf(err, "create zstd writer at level %d", c.Level)
		}
		return enc, nil
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedMethod, "method %s", c.Method)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
