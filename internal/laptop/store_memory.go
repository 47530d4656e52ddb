package laptop

import (
	"context"

	"PCBook/internal/shard"
)

// MemStore is an in-memory Store. Stored laptops are never modified, so the
// shard map holds private pointers and every boundary clones.
type MemStore struct {
	data *shard.Map[*Laptop]
}

func NewMemStore(shards int) *MemStore {
	return &MemStore{data: shard.New[*Laptop](shards)}
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) Save(ctx context.Context, l *Laptop) error {
	cp := l.Clone()

	_, stored := s.data.Compute(cp.ID, func(cur *Laptop, exists bool) (*Laptop, bool) {
		if exists {
			return cur, false
		}
		return cp, true
	})
	if !stored {
		return ErrAlreadyExists
	}
	return nil
}

func (s *MemStore) Find(ctx context.Context, id string) (*Laptop, bool, error) {
	l, ok := s.data.Get(id)
	if !ok {
		return nil, false, nil
	}
	return l.Clone(), true, nil
}

func (s *MemStore) Search(ctx context.Context, filter *Filter, found func(*Laptop) error) error {
	var sendErr error

	s.data.Range(func(_ string, l *Laptop) bool {
		if ctx.Err() != nil {
			return false
		}
		if !filter.Matches(l) {
			return true
		}
		if err := found(l.Clone()); err != nil {
			sendErr = err
			return false
		}
		return true
	})

	return sendErr
}

func (s *MemStore) Count(ctx context.Context) (int, error) {
	return s.data.Len(), nil
}
