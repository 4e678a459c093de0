package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
)

// Device is a camera that can be opened on request.
type Device interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera. Close stops every track of the stream.
type Stream interface {
	Snapshot(ctx context.Context) (image.Image, error)
	Close() error
}

// FromCamera opens dev, grabs one frame and releases the stream. The stream
// is closed whether the snapshot succeeds, fails or ctx is cancelled.
// Open failures come back as *CameraError.
func FromCamera(ctx context.Context, dev Device) (img *CapturedImage, err error) {
	stream, err := dev.Open(ctx)
	if err != nil {
		var ce *CameraError
		if errors.As(err, &ce) {
			return nil, ce
		}
		return nil, &CameraError{Kind: CameraUnknown, Err: err}
	}
	defer func() {
		if cerr := stream.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to release camera: %w", cerr)
			img = nil
		}
	}()

	frame, err := stream.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("camera snapshot failed: %w", err)
	}

	// Snapshots go through the same decode path as uploads.
	var buf bytes.Buffer
	if err := png.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	return Decode(buf.Bytes(), SourceCamera)
}
