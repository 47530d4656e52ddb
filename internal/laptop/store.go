package laptop

import (
	"context"
	"errors"
)

var (
	ErrAlreadyExists  = errors.New("laptop already exists")
	ErrLaptopNotFound = errors.New("laptop not found")
)

// Store keeps laptops keyed by ID. Implementations never hand out references
// to stored records.
type Store interface {
	// Save stores a copy of l. It returns ErrAlreadyExists if l.ID is taken.
	Save(ctx context.Context, l *Laptop) error
	// Find returns a copy of the laptop, or ok=false when the ID is unknown.
	Find(ctx context.Context, id string) (l *Laptop, ok bool, err error)
	// Search calls found with a copy of every laptop matching filter. It
	// returns nil when ctx is cancelled mid-iteration.
	Search(ctx context.Context, filter *Filter, found func(*Laptop) error) error
	Count(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type Rating struct {
	Count   uint32  `json:"rated_count"`
	Average float64 `json:"average_score"`
}

// RatingStore aggregates scores per laptop ID.
type RatingStore interface {
	// Add folds score into the running average for laptopID and returns the
	// updated aggregate.
	Add(ctx context.Context, laptopID string, score float64) (Rating, error)
	Get(ctx context.Context, laptopID string) (Rating, bool, error)
}
