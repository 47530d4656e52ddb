package laptop

import "math"

type MemoryUnit string

const (
	UnitBit      MemoryUnit = "BIT"
	UnitByte     MemoryUnit = "BYTE"
	UnitKilobyte MemoryUnit = "KILOBYTE"
	UnitMegabyte MemoryUnit = "MEGABYTE"
	UnitGigabyte MemoryUnit = "GIGABYTE"
	UnitTerabyte MemoryUnit = "TERABYTE"
)

type Memory struct {
	Value uint64     `json:"value"`
	Unit  MemoryUnit `json:"unit"`
}

// Bits returns the memory size in bits. See ToBit.
func (m Memory) Bits() uint64 { return ToBit(m.Value, m.Unit) }

// ToBit converts value in unit to bits. Unknown units map to 0. Results that
// do not fit in 64 bits saturate at math.MaxUint64.
func ToBit(value uint64, unit MemoryUnit) uint64 {
	var shift uint
	switch unit {
	case UnitBit:
		return value
	case UnitByte:
		shift = 3
	case UnitKilobyte:
		shift = 13
	case UnitMegabyte:
		shift = 23
	case UnitGigabyte:
		shift = 33
	case UnitTerabyte:
		shift = 43
	default:
		return 0
	}

	if value > math.MaxUint64>>shift {
		return math.MaxUint64
	}
	return value << shift
}
