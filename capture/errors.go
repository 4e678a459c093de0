package capture

import (
	"errors"
	"fmt"
)

var (
	// ErrImageDecode is returned when bytes cannot be decoded into an image
	// or the decoded image has no pixels.
	ErrImageDecode = errors.New("unable to decode image")

	// ErrEmptyImage is returned when no image bytes were provided.
	ErrEmptyImage = errors.New("no image data provided")

	// ErrNotImage is returned when the payload is not an image MIME type.
	ErrNotImage = errors.New("file is not an image")

	// ErrTooLarge is returned when the payload exceeds the upload limit.
	ErrTooLarge = errors.New("image exceeds upload limit")
)

// CameraErrorKind classifies why the camera could not be used.
type CameraErrorKind int

const (
	CameraUnknown CameraErrorKind = iota
	CameraPermissionDenied
	CameraDeviceNotFound
	CameraDeviceBusy
)

func (k CameraErrorKind) String() string {
	switch k {
	case CameraPermissionDenied:
		return "permission_denied"
	case CameraDeviceNotFound:
		return "device_not_found"
	case CameraDeviceBusy:
		return "device_busy"
	default:
		return "unknown"
	}
}

// CameraError is a recoverable camera failure. The user can always dismiss it
// and fall back to uploading a file.
type CameraError struct {
	Kind CameraErrorKind
	Err  error
}

func (e *CameraError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("camera access failed: %s", e.Kind)
	}
	return fmt.Sprintf("camera access failed: %s: %v", e.Kind, e.Err)
}

func (e *CameraError) Unwrap() error { return e.Err }

// Message is the text shown to the user for this failure.
func (e *CameraError) Message() string {
	switch e.Kind {
	case CameraPermissionDenied:
		return "Camera access was denied. Please allow camera permissions in your browser settings and try again."
	case CameraDeviceNotFound:
		return "No camera found on your device. Please use the upload option instead."
	case CameraDeviceBusy:
		return "Camera is already in use by another application. Please close other apps using the camera."
	default:
		return "Unable to access camera. Please try uploading an image instead."
	}
}

// ClassifyCameraError maps a browser media error name onto a CameraError.
func ClassifyCameraError(name string, err error) *CameraError {
	kind := CameraUnknown
	switch name {
	case "NotAllowedError", "PermissionDeniedError":
		kind = CameraPermissionDenied
	case "NotFoundError", "DevicesNotFoundError":
		kind = CameraDeviceNotFound
	case "NotReadableError", "TrackStartError":
		kind = CameraDeviceBusy
	}
	if err == nil && name != "" {
		err = errors.New(name)
	}
	return &CameraError{Kind: kind, Err: err}
}
