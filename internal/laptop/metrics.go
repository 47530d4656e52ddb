package laptop

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
	outcomeFailed    = "failed"
)

type Metrics struct {
	Created       prometheus.Counter
	Searches      *prometheus.CounterVec
	SearchMatches prometheus.Counter
	Ratings       prometheus.Counter
	ImageBytes    prometheus.Counter
}

// NewMetrics builds the catalog collectors and registers them on reg when it
// is not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptops_created_total",
			Help: "Laptops stored in the catalog",
		}),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "laptop_searches_total",
				Help: "Laptop searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptop_search_matches_total",
			Help: "Laptops streamed to search clients",
		}),
		Ratings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptop_ratings_total",
			Help: "Scores folded into laptop ratings",
		}),
		ImageBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "laptop_image_bytes_total",
			Help: "Bytes of laptop images stored",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Created, m.Searches, m.SearchMatches, m.Ratings, m.ImageBytes)
	}
	return m
}
