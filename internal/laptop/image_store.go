package laptop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

var ErrImageTooLarge = errors.New("image too large")

type ImageInfo struct {
	ID       string `json:"id"`
	LaptopID string `json:"laptop_id"`
	Type     string `json:"type"`
	Path     string `json:"-"`
	Size     int64  `json:"size"`
}

type ImageStore interface {
	// Save copies at most maxSize bytes from data into the store. It returns
	// ErrImageTooLarge if data holds more than maxSize bytes.
	Save(ctx context.Context, laptopID, imageType string, data io.Reader, maxSize int64) (ImageInfo, error)
	Get(ctx context.Context, id string) (ImageInfo, bool, error)
}

// DiskImageStore writes each image to its own file under dir.
type DiskImageStore struct {
	dir string

	mu     sync.RWMutex
	images map[string]ImageInfo
}

func NewDiskImageStore(dir string) *DiskImageStore {
	return &DiskImageStore{
		dir:    dir,
		images: make(map[string]ImageInfo),
	}
}

func (s *DiskImageStore) Save(ctx context.Context, laptopID, imageType string, data io.Reader, maxSize int64) (ImageInfo, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return ImageInfo{}, fmt.Errorf("create image dir: %w", err)
	}

	id := uuid.NewString()
	path := filepath.Join(s.dir, id+imageType)

	f, err := os.Create(path)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("create image file: %w", err)
	}

	// one extra byte tells an exact-size image apart from an oversized one
	n, err := io.Copy(f, io.LimitReader(data, maxSize+1))
	closeErr := f.Close()
	if err == nil && n > maxSize {
		err = ErrImageTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		if errors.Is(err, ErrImageTooLarge) {
			return ImageInfo{}, err
		}
		return ImageInfo{}, fmt.Errorf("write image: %w", err)
	}

	info := ImageInfo{
		ID:       id,
		LaptopID: laptopID,
		Type:     imageType,
		Path:     path,
		Size:     n,
	}

	s.mu.Lock()
	s.images[id] = info
	s.mu.Unlock()

	return info, nil
}

func (s *DiskImageStore) Get(ctx context.Context, id string) (ImageInfo, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.images[id]
	return info, ok, nil
}
