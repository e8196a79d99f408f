package l1c

import (
	"context"
	"time"
)

// FileProvider serves per-scanline timestamps from pass files on disk.
// It implements pass.ScanlineProvider; the source handle is the file
// path. Reads are stateless and idempotent, so callers may retry.
type FileProvider struct{}

func (FileProvider) ScanlineTimes(ctx context.Context, source string) ([]time.Time, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pf, err := ReadPassFile(source)
	if err != nil {
		return nil, err
	}
	return pf.AcqTime, nil
}
