package artifact

import (
	"context"

	"github.com/golang/snappy"
)

// SnappyExtension is appended to the name of compressed artifacts
const SnappyExtension = ".sz"

// SnappySink compresses artifacts with snappy block encoding before passing them on
type SnappySink struct {
	Next Sink
}

func (s *SnappySink) Kind() string { return s.Next.Kind() + "+snappy" }

func (s *SnappySink) Put(ctx context.Context, name, contentType string, data []byte) (string, error) {
	return s.Next.Put(ctx, name+SnappyExtension, "application/x-snappy", snappy.Encode(nil, data))
}
