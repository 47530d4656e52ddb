// Package sample produces random but plausible laptops for demos and tests.
package sample

import (
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"PCBook/internal/laptop"
)

// Generator is not safe for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// NewGenerator seeds the hardware choices from seed. IDs and timestamps are
// always fresh.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (g *Generator) Laptop() *laptop.Laptop {
	brand := g.pick("Apple", "Dell", "Lenovo")

	var name string
	switch brand {
	case "Apple":
		name = g.pick("Macbook Air", "Macbook Pro")
	case "Dell":
		name = g.pick("Latitude", "Vostro", "XPS", "Alienware")
	default:
		name = g.pick("Thinkpad X1", "Thinkpad P1", "Thinkpad P53")
	}

	return &laptop.Laptop{
		ID:          uuid.NewString(),
		Brand:       brand,
		Name:        name,
		CPU:         g.CPU(),
		RAM:         laptop.Memory{Value: uint64(g.intBetween(4, 64)), Unit: laptop.UnitGigabyte},
		GPUs:        []laptop.GPU{g.gpu()},
		Storages:    []laptop.Storage{g.ssd(), g.hdd()},
		Screen:      g.screen(),
		Keyboard:    &laptop.Keyboard{Layout: g.pick("QWERTY", "QWERTZ", "AZERTY"), Backlit: g.rnd.IntN(2) == 1},
		WeightKg:    g.floatBetween(1.0, 3.0),
		PriceUsd:    g.floatBetween(1500, 3500),
		ReleaseYear: uint32(g.intBetween(2015, 2019)),
		UpdatedAt:   time.Now().UTC(),
	}
}

func (g *Generator) CPU() laptop.CPU {
	brand := g.pick("Intel", "AMD")

	var name string
	if brand == "Intel" {
		name = g.pick("Xeon E-2286M", "Core i9-9980HK", "Core i7-9750H", "Core i5-9400F", "Core i3-1005G1")
	} else {
		name = g.pick("Ryzen 7 PRO 2700U", "Ryzen 5 PRO 3500U", "Ryzen 3 PRO 3200GE")
	}

	cores := g.intBetween(2, 8)
	minGhz := g.floatBetween(2.0, 3.5)
	return laptop.CPU{
		Brand:         brand,
		Name:          name,
		NumberCores:   uint32(cores),
		NumberThreads: uint32(g.intBetween(cores, 12)),
		MinGhz:        minGhz,
		MaxGhz:        g.floatBetween(minGhz, 5.0),
	}
}

func (g *Generator) gpu() laptop.GPU {
	brand := g.pick("Nvidia", "AMD")

	var name string
	if brand == "Nvidia" {
		name = g.pick("RTX 2060", "RTX 2070", "GTX 1660-Ti", "GTX 1070")
	} else {
		name = g.pick("RX 590", "RX 580", "RX 5700-XT", "RX Vega-56")
	}

	minGhz := g.floatBetween(1.0, 1.5)
	return laptop.GPU{
		Brand:  brand,
		Name:   name,
		MinGhz: minGhz,
		MaxGhz: g.floatBetween(minGhz, 2.0),
		Memory: laptop.Memory{Value: uint64(g.intBetween(2, 6)), Unit: laptop.UnitGigabyte},
	}
}

func (g *Generator) ssd() laptop.Storage {
	return laptop.Storage{
		Driver: laptop.DriverSSD,
		Memory: laptop.Memory{Value: uint64(g.intBetween(128, 1024)), Unit: laptop.UnitGigabyte},
	}
}

func (g *Generator) hdd() laptop.Storage {
	return laptop.Storage{
		Driver: laptop.DriverHDD,
		Memory: laptop.Memory{Value: uint64(g.intBetween(1, 6)), Unit: laptop.UnitTerabyte},
	}
}

func (g *Generator) screen() *laptop.Screen {
	height := g.intBetween(1080, 4320)
	return &laptop.Screen{
		SizeInch: float32(g.floatBetween(13, 17)),
		Resolution: laptop.Resolution{
			Width:  uint32(height * 16 / 9),
			Height: uint32(height),
		},
		Panel:      g.pick("IPS", "OLED"),
		Multitouch: g.rnd.IntN(2) == 1,
	}
}

// Score returns a rating score between 1 and 10.
func (g *Generator) Score() float64 {
	return float64(g.intBetween(1, 10))
}

func (g *Generator) pick(opts ...string) string {
	return opts[g.rnd.IntN(len(opts))]
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rnd.IntN(hi-lo+1)
}

func (g *Generator) floatBetween(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}
