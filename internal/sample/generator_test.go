package sample

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PCBook/internal/laptop"
)

func TestGenerator_LaptopIsValid(t *testing.T) {
	gen := NewGenerator(42)

	for range 100 {
		l := gen.Laptop()

		_, err := uuid.Parse(l.ID)
		require.NoError(t, err)
		assert.NotZero(t, l.CPU.NumberCores)
		assert.GreaterOrEqual(t, l.CPU.NumberThreads, l.CPU.NumberCores)
		assert.GreaterOrEqual(t, l.CPU.MaxGhz, l.CPU.MinGhz)
		assert.Greater(t, l.CPU.MinGhz, 0.0)
		assert.GreaterOrEqual(t, l.PriceUsd, 1500.0)
		assert.LessOrEqual(t, l.PriceUsd, 3500.0)
		assert.NotZero(t, l.RAM.Bits())
		require.Len(t, l.Storages, 2)
		assert.Equal(t, laptop.DriverSSD, l.Storages[0].Driver)
		assert.Equal(t, laptop.DriverHDD, l.Storages[1].Driver)
	}
}

func TestGenerator_SameSeedSameHardware(t *testing.T) {
	a, b := NewGenerator(7).Laptop(), NewGenerator(7).Laptop()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.CPU, b.CPU)
	assert.Equal(t, a.RAM, b.RAM)
	assert.Equal(t, a.PriceUsd, b.PriceUsd)
}

func TestGenerator_ScoreRange(t *testing.T) {
	gen := NewGenerator(1)
	for range 200 {
		s := gen.Score()
		assert.GreaterOrEqual(t, s, 1.0)
		assert.LessOrEqual(t, s, 10.0)
	}
}
