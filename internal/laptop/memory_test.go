package laptop_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"PCBook/internal/laptop"
)

func TestToBit(t *testing.T) {
	tests := []struct {
		value uint64
		unit  laptop.MemoryUnit
		want  uint64
	}{
		{value: 5, unit: laptop.UnitBit, want: 5},
		{value: 1, unit: laptop.UnitByte, want: 8},
		{value: 1, unit: laptop.UnitKilobyte, want: 1 << 13},
		{value: 1, unit: laptop.UnitMegabyte, want: 1 << 23},
		{value: 1, unit: laptop.UnitGigabyte, want: 1 << 33},
		{value: 3, unit: laptop.UnitTerabyte, want: 3 << 43},
		{value: 7, unit: "PETABYTE", want: 0},
		{value: 7, unit: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			assert.Equal(t, tt.want, laptop.ToBit(tt.value, tt.unit))
		})
	}
}

func TestToBit_UnitSteps(t *testing.T) {
	gb := laptop.ToBit(1, laptop.UnitGigabyte)
	assert.Equal(t, gb, laptop.ToBit(1024, laptop.UnitMegabyte))
	assert.Equal(t, gb, laptop.ToBit(1024*1024, laptop.UnitKilobyte))
	assert.Equal(t, laptop.ToBit(1, laptop.UnitTerabyte), laptop.ToBit(1024, laptop.UnitGigabyte))
}

func TestToBit_SaturatesInsteadOfWrapping(t *testing.T) {
	huge := uint64(1) << 30
	assert.Equal(t, uint64(math.MaxUint64), laptop.ToBit(huge, laptop.UnitTerabyte))
	assert.Greater(t, laptop.ToBit(huge, laptop.UnitTerabyte), laptop.ToBit(1, laptop.UnitTerabyte))

	limit := uint64(math.MaxUint64) >> 43
	assert.Equal(t, limit<<43, laptop.ToBit(limit, laptop.UnitTerabyte))
}
