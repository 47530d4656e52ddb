package laptop

import (
	"context"

	"PCBook/internal/shard"
)

type MemRatingStore struct {
	data *shard.Map[Rating]
}

func NewMemRatingStore(shards int) *MemRatingStore {
	return &MemRatingStore{data: shard.New[Rating](shards)}
}

// Add never fails; the error is part of the RatingStore contract only.
func (s *MemRatingStore) Add(ctx context.Context, laptopID string, score float64) (Rating, error) {
	r, _ := s.data.Compute(laptopID, func(cur Rating, exists bool) (Rating, bool) {
		if !exists {
			return Rating{Count: 1, Average: score}, true
		}
		n := float64(cur.Count)
		return Rating{
			Count:   cur.Count + 1,
			Average: (cur.Average*n + score) / (n + 1),
		}, true
	})
	return r, nil
}

func (s *MemRatingStore) Get(ctx context.Context, laptopID string) (Rating, bool, error) {
	r, ok := s.data.Get(laptopID)
	return r, ok, nil
}
