package attendance

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/moto-nrw/project-phoenix/internal/core/port"
)

// FrameStore persists the raw camera frame behind a suspicious recognition
// outcome so staff can review it later. It is satisfied directly by
// port.FileStorage (the S3/MinIO/memory adapters under
// internal/adapter/storage) — captured frames are opaque blobs, the same
// shape as avatar uploads, just in a different bucket/prefix.
type FrameStore interface {
	SaveFrame(ctx context.Context, sessionID, studentID int64, frame []byte) (string, error)
}

// fileFrameStore adapts a port.FileStorage into a FrameStore by namespacing
// keys under "attendance-frames/".
type fileFrameStore struct {
	backend port.FileStorage
}

// NewFrameStore wraps a port.FileStorage backend as a FrameStore. A nil
// backend is valid: callers must check for it and skip frame capture,
// the same "optional adapter" convention avatar storage uses.
func NewFrameStore(backend port.FileStorage) FrameStore {
	if backend == nil {
		return nil
	}
	return &fileFrameStore{backend: backend}
}

func (f *fileFrameStore) SaveFrame(ctx context.Context, sessionID, studentID int64, frame []byte) (string, error) {
	key := fmt.Sprintf("attendance-frames/%d/%d_%d.jpg", sessionID, studentID, time.Now().UnixNano())

	if _, err := f.backend.Save(ctx, key, bytes.NewReader(frame), "image/jpeg"); err != nil {
		return "", fmt.Errorf("frame_store: save: %w", err)
	}
	return key, nil
}
