package laptop

import (
	"slices"
	"time"
)

type CPU struct {
	Brand         string  `json:"brand"`
	Name          string  `json:"name"`
	NumberCores   uint32  `json:"number_cores"`
	NumberThreads uint32  `json:"number_threads"`
	MinGhz        float64 `json:"min_ghz"`
	MaxGhz        float64 `json:"max_ghz"`
}

type GPU struct {
	Brand  string  `json:"brand"`
	Name   string  `json:"name"`
	MinGhz float64 `json:"min_ghz"`
	MaxGhz float64 `json:"max_ghz"`
	Memory Memory  `json:"memory"`
}

type StorageDriver string

const (
	DriverHDD StorageDriver = "HDD"
	DriverSSD StorageDriver = "SSD"
)

type Storage struct {
	Driver StorageDriver `json:"driver"`
	Memory Memory        `json:"memory"`
}

type Resolution struct {
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

type Screen struct {
	SizeInch   float32    `json:"size_inch"`
	Resolution Resolution `json:"resolution"`
	Panel      string     `json:"panel"`
	Multitouch bool       `json:"multitouch"`
}

type Keyboard struct {
	Layout  string `json:"layout"`
	Backlit bool   `json:"backlit"`
}

// Laptop is a catalog record. Only ID, PriceUsd, CPU and RAM are read by the
// store; the rest is carried through untouched.
type Laptop struct {
	ID          string    `json:"id"`
	Brand       string    `json:"brand"`
	Name        string    `json:"name"`
	CPU         CPU       `json:"cpu"`
	RAM         Memory    `json:"ram"`
	GPUs        []GPU     `json:"gpus,omitempty"`
	Storages    []Storage `json:"storages,omitempty"`
	Screen      *Screen   `json:"screen,omitempty"`
	Keyboard    *Keyboard `json:"keyboard,omitempty"`
	WeightKg    float64   `json:"weight_kg"`
	PriceUsd    float64   `json:"price_usd"`
	ReleaseYear uint32    `json:"release_year"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Clone returns a deep copy that shares no memory with l.
func (l *Laptop) Clone() *Laptop {
	if l == nil {
		return nil
	}

	out := *l
	out.GPUs = slices.Clone(l.GPUs)
	out.Storages = slices.Clone(l.Storages)
	if l.Screen != nil {
		s := *l.Screen
		out.Screen = &s
	}
	if l.Keyboard != nil {
		k := *l.Keyboard
		out.Keyboard = &k
	}
	return &out
}
