package laptop_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"PCBook/internal/laptop"
	"PCBook/internal/sample"
)

func TestMemStore_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(4)
	l := sample.NewGenerator(1).Laptop()

	require.NoError(t, s.Save(ctx, l))

	got, ok, err := s.Find(ctx, l.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, l, got)
	assert.NotSame(t, l, got)

	_, ok, err = s.Find(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemStore_SaveDuplicate(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(4)
	l := sample.NewGenerator(1).Laptop()

	require.NoError(t, s.Save(ctx, l))

	other := sample.NewGenerator(2).Laptop()
	other.ID = l.ID
	assert.ErrorIs(t, s.Save(ctx, other), laptop.ErrAlreadyExists)
	assert.ErrorIs(t, s.Save(ctx, l), laptop.ErrAlreadyExists)

	got, _, _ := s.Find(ctx, l.ID)
	assert.Equal(t, l.Brand, got.Brand)
	assert.Equal(t, l.CPU, got.CPU)
}

func TestMemStore_ConcurrentSaveSameID(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(8)
	gen := sample.NewGenerator(3)

	const racers = 64
	candidates := make([]*laptop.Laptop, racers)
	for i := range candidates {
		candidates[i] = gen.Laptop()
		candidates[i].ID = "contested"
	}

	var ok, exists atomic.Int32
	var g errgroup.Group
	for _, l := range candidates {
		g.Go(func() error {
			err := s.Save(ctx, l)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, laptop.ErrAlreadyExists):
				exists.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), ok.Load())
	assert.Equal(t, int32(racers-1), exists.Load())
}

func TestMemStore_ConcurrentSaveDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(8)

	const n = 200
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			l := baseLaptop()
			l.ID = fmt.Sprintf("laptop-%d", i)
			return s.Save(ctx, l)
		})
	}
	require.NoError(t, g.Wait())

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestMemStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(4)
	l := sample.NewGenerator(4).Laptop()
	want := l.Clone()

	require.NoError(t, s.Save(ctx, l))

	// mutate the caller's original
	l.PriceUsd = 1
	l.GPUs[0].Name = "changed"
	l.Storages = append(l.Storages[:0], laptop.Storage{Driver: laptop.DriverHDD})
	l.Screen.Panel = "changed"
	l.Keyboard.Layout = "changed"

	got, ok, err := s.Find(ctx, want.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	// mutate a returned copy
	got.CPU.NumberCores = 99
	got.GPUs[0].Name = "changed again"
	got.Screen.Resolution.Width = 1

	again, _, _ := s.Find(ctx, want.ID)
	assert.Equal(t, want, again)
}

func collect(t *testing.T, s laptop.Store, ctx context.Context, f *laptop.Filter) map[string]*laptop.Laptop {
	t.Helper()

	out := map[string]*laptop.Laptop{}
	err := s.Search(ctx, f, func(l *laptop.Laptop) error {
		out[l.ID] = l
		return nil
	})
	require.NoError(t, err)
	return out
}

func permissiveFilter(maxPrice float64) *laptop.Filter {
	return &laptop.Filter{
		MaxPriceUsd: maxPrice,
		MinRAM:      laptop.Memory{Value: 0, Unit: laptop.UnitBit},
	}
}

func TestMemStore_SearchReturnsOnlyMatches(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(4)

	a := baseLaptop()
	a.ID, a.PriceUsd = "A", 500
	b := baseLaptop()
	b.ID, b.PriceUsd = "B", 1500
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))

	got := collect(t, s, ctx, permissiveFilter(1000))
	require.Len(t, got, 1)
	assert.Contains(t, got, "A")
}

func TestMemStore_SearchEmitsCopies(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(4)
	l := sample.NewGenerator(5).Laptop()
	require.NoError(t, s.Save(ctx, l))

	err := s.Search(ctx, permissiveFilter(1e9), func(found *laptop.Laptop) error {
		found.PriceUsd = -1
		found.GPUs[0].Brand = "changed"
		return nil
	})
	require.NoError(t, err)

	got, _, _ := s.Find(ctx, l.ID)
	assert.Equal(t, l.PriceUsd, got.PriceUsd)
	assert.Equal(t, l.GPUs, got.GPUs)
}

func TestMemStore_SearchCancelled(t *testing.T) {
	s := laptop.NewMemStore(4)
	for i := 0; i < 10; i++ {
		l := baseLaptop()
		l.ID = fmt.Sprintf("match-%d", i)
		require.NoError(t, s.Save(context.Background(), l))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []string
	err := s.Search(ctx, permissiveFilter(1e9), func(l *laptop.Laptop) error {
		got = append(got, l.ID)
		cancel()
		return nil
	})

	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestMemStore_SearchAlreadyCancelled(t *testing.T) {
	s := laptop.NewMemStore(4)
	require.NoError(t, s.Save(context.Background(), baseLaptop()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := collect(t, s, ctx, permissiveFilter(1e9))
	assert.Empty(t, got)
}

func TestMemStore_SearchStopsOnSinkError(t *testing.T) {
	s := laptop.NewMemStore(4)
	for i := 0; i < 5; i++ {
		l := baseLaptop()
		l.ID = fmt.Sprintf("match-%d", i)
		require.NoError(t, s.Save(context.Background(), l))
	}

	sinkErr := errors.New("client went away")
	calls := 0
	err := s.Search(context.Background(), permissiveFilter(1e9), func(*laptop.Laptop) error {
		calls++
		return sinkErr
	})

	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 1, calls)
}

func TestMemStore_SearchDuringConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	s := laptop.NewMemStore(8)

	for i := 0; i < 50; i++ {
		l := baseLaptop()
		l.ID = fmt.Sprintf("before-%d", i)
		require.NoError(t, s.Save(ctx, l))
	}

	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < 200; i++ {
			l := baseLaptop()
			l.ID = fmt.Sprintf("during-%d", i)
			if err := s.Save(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})

	got := map[string]*laptop.Laptop{}
	g.Go(func() error {
		return s.Search(ctx, permissiveFilter(1e9), func(l *laptop.Laptop) error {
			got[l.ID] = l
			return nil
		})
	})
	require.NoError(t, g.Wait())

	for i := 0; i < 50; i++ {
		assert.Contains(t, got, fmt.Sprintf("before-%d", i))
	}
	assert.LessOrEqual(t, len(got), 250)
}
