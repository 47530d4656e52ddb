package laptop

type Filter struct {
	MaxPriceUsd float64 `json:"max_price_usd"`
	MinCPUCores uint32  `json:"min_cpu_cores"`
	MinCPUGhz   float64 `json:"min_cpu_ghz"`
	MinRAM      Memory  `json:"min_ram"`
}

// Matches reports whether l satisfies every threshold in f.
func (f *Filter) Matches(l *Laptop) bool {
	if l.PriceUsd > f.MaxPriceUsd {
		return false
	}
	if l.CPU.NumberCores < f.MinCPUCores {
		return false
	}
	if l.CPU.MinGhz < f.MinCPUGhz {
		return false
	}
	return l.RAM.Bits() >= f.MinRAM.Bits()
}
