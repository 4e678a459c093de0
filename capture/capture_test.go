package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("decodes png", func(t *testing.T) {
		t.Parallel()

		img, err := Decode(encodePNG(t, 4, 3, color.White), SourceUpload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Width != 4 || img.Height != 3 {
			t.Errorf("expected 4x3, got %dx%d", img.Width, img.Height)
		}
		if img.Format != "png" {
			t.Errorf("expected png format, got %q", img.Format)
		}
		if img.MIME != "image/png" {
			t.Errorf("expected image/png, got %q", img.MIME)
		}
		if img.Pixels() != 12 {
			t.Errorf("expected 12 pixels, got %d", img.Pixels())
		}
		if img.Metadata == nil {
			t.Error("expected non-nil metadata map")
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()

		_, err := Decode([]byte("definitely not an image"), SourceUpload)
		if !errors.Is(err, ErrImageDecode) {
			t.Errorf("expected ErrImageDecode, got %v", err)
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := Decode(nil, SourceUpload)
		if !errors.Is(err, ErrEmptyImage) {
			t.Errorf("expected ErrEmptyImage, got %v", err)
		}
	})
}

func TestFromReader(t *testing.T) {
	t.Parallel()

	t.Run("enforces limit", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, 16, 16, color.Black)
		_, err := FromReader(bytes.NewReader(data), int64(len(data)-1), SourceUpload)
		if !errors.Is(err, ErrTooLarge) {
			t.Errorf("expected ErrTooLarge, got %v", err)
		}
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		t.Parallel()

		_, err := FromReader(strings.NewReader("hello, plain text"), 0, SourceUpload)
		if !errors.Is(err, ErrNotImage) {
			t.Errorf("expected ErrNotImage, got %v", err)
		}
	})

	t.Run("accepts image within limit", func(t *testing.T) {
		t.Parallel()

		data := encodePNG(t, 2, 2, color.Black)
		img, err := FromReader(bytes.NewReader(data), int64(len(data)), SourceUpload)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Source != SourceUpload {
			t.Errorf("expected upload source, got %q", img.Source)
		}
	})
}

func TestFromDataURL(t *testing.T) {
	t.Parallel()

	data := encodePNG(t, 2, 2, color.White)
	b64 := base64.StdEncoding.EncodeToString(data)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "data url", input: "data:image/png;base64," + b64},
		{name: "bare base64", input: b64},
		{name: "non image mime", input: "data:text/plain;base64," + b64, wantErr: ErrNotImage},
		{name: "bad base64", input: "data:image/png;base64,!!!", wantErr: ErrImageDecode},
		{name: "empty payload", input: "data:image/png;base64,", wantErr: ErrImageDecode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			img, err := FromDataURL(tt.input, SourceCamera)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.Width != 2 || img.Height != 2 {
				t.Errorf("expected 2x2, got %dx%d", img.Width, img.Height)
			}
		})
	}
}

func TestExtractMetadataWithoutExif(t *testing.T) {
	t.Parallel()

	meta := ExtractMetadata(encodePNG(t, 1, 1, color.White))
	if len(meta) != 0 {
		t.Errorf("expected no metadata, got %v", meta)
	}
}

func TestClassifyCameraError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want CameraErrorKind
	}{
		{"NotAllowedError", CameraPermissionDenied},
		{"PermissionDeniedError", CameraPermissionDenied},
		{"NotFoundError", CameraDeviceNotFound},
		{"DevicesNotFoundError", CameraDeviceNotFound},
		{"NotReadableError", CameraDeviceBusy},
		{"TrackStartError", CameraDeviceBusy},
		{"OverconstrainedError", CameraUnknown},
		{"", CameraUnknown},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		ce := ClassifyCameraError(tt.name, nil)
		if ce.Kind != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.name, tt.want, ce.Kind)
		}
		if ce.Message() == "" {
			t.Errorf("%q: expected a user-facing message", tt.name)
		}
		seen[ce.Message()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 distinct messages, got %d", len(seen))
	}
}

type fakeStream struct {
	frame   image.Image
	err     error
	closed  int
	waitCtx bool
}

func (s *fakeStream) Snapshot(ctx context.Context) (image.Image, error) {
	if s.waitCtx {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.frame, s.err
}

func (s *fakeStream) Close() error {
	s.closed++
	return nil
}

type fakeDevice struct {
	stream *fakeStream
	err    error
}

func (d *fakeDevice) Open(context.Context) (Stream, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.stream, nil
}

func TestFromCamera(t *testing.T) {
	t.Parallel()

	t.Run("captures and releases stream", func(t *testing.T) {
		t.Parallel()

		frame := image.NewNRGBA(image.Rect(0, 0, 3, 2))
		stream := &fakeStream{frame: frame}

		img, err := FromCamera(context.Background(), &fakeDevice{stream: stream})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if img.Source != SourceCamera || img.Format != "png" {
			t.Errorf("expected camera png, got %s %s", img.Source, img.Format)
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})

	t.Run("releases stream when snapshot fails", func(t *testing.T) {
		t.Parallel()

		stream := &fakeStream{err: errors.New("frame dropped")}
		if _, err := FromCamera(context.Background(), &fakeDevice{stream: stream}); err == nil {
			t.Fatal("expected error")
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})

	t.Run("releases stream on cancel", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		stream := &fakeStream{waitCtx: true}
		_, err := FromCamera(ctx, &fakeDevice{stream: stream})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if stream.closed != 1 {
			t.Errorf("expected stream closed once, got %d", stream.closed)
		}
	})

	t.Run("wraps open failure as camera error", func(t *testing.T) {
		t.Parallel()

		_, err := FromCamera(context.Background(), &fakeDevice{err: ClassifyCameraError("NotAllowedError", nil)})
		var ce *CameraError
		if !errors.As(err, &ce) {
			t.Fatalf("expected CameraError, got %v", err)
		}
		if ce.Kind != CameraPermissionDenied {
			t.Errorf("expected permission denied, got %s", ce.Kind)
		}
	})
}
