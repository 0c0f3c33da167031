package source

import (
	"context"
	"fmt"
	"os"
)

// FileSource reads a single file as one unit.
type FileSource struct {
	MaxBytes int64
}

func NewFileSource() *FileSource {
	return &FileSource{MaxBytes: DefaultMaxBytes}
}

func (f *FileSource) Acquire(ctx context.Context, target string, emit EmitFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(target)
	if err != nil {
		return fmt.Errorf("stat %s: %w", target, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory, not a file", target)
	}
	if f.MaxBytes > 0 && info.Size() > f.MaxBytes {
		return fmt.Errorf("%s exceeds size limit (%d bytes)", target, info.Size())
	}
	b, err := os.ReadFile(target)
	if err != nil {
		return fmt.Errorf("read %s: %w", target, err)
	}
	if looksBinary(b) {
		return fmt.Errorf("%s appears to be binary", target)
	}
	emit(target, string(b))
	return nil
}
