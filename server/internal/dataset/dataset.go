package dataset

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/webpulse/webpulse/pkg/types"
)

// Dataset is the full analytics document the server serves from. It is
// either the built-in default or loaded from a YAML file.
type Dataset struct {
	Traffic types.Traffic         `yaml:"traffic"`
	Pages   []types.Page          `yaml:"pages"`
	Sources []types.TrafficSource `yaml:"sources"`
}

// Store holds the active dataset behind a read-write lock so request
// handlers can read concurrently while hot reload swaps the document.
type Store struct {
	mu sync.RWMutex
	ds Dataset
}

// New creates a Store holding ds.
func New(ds Dataset) *Store {
	return &Store{ds: ds}
}

// Replace swaps the active dataset.
func (s *Store) Replace(ds Dataset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ds = ds
}

// Traffic returns the site-wide traffic payload.
func (s *Store) Traffic() types.Traffic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds.Traffic
}

// Pages returns the per-page report with the pageview total computed from
// the active dataset.
func (s *Store) Pages() types.PagesReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := types.PagesReport{
		Pages:  append([]types.Page(nil), s.ds.Pages...),
		Period: s.ds.Traffic.Period,
	}
	for _, p := range out.Pages {
		out.TotalPageviews += p.Views
	}
	return out
}

// Sources returns the acquisition report with totals and the leading
// source computed from the active dataset.
func (s *Store) Sources() types.SourcesReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := types.SourcesReport{
		Sources: append([]types.TrafficSource(nil), s.ds.Sources...),
		Period:  s.ds.Traffic.Period,
	}
	var topUsers int
	for _, src := range out.Sources {
		out.TotalUsers += src.Users
		if src.Users > topUsers {
			topUsers = src.Users
			out.TopSource = src.Source
		}
	}
	return out
}

// Default returns the built-in dataset used when no dataset file is
// configured.
func Default() Dataset {
	return Dataset{
		Traffic: types.Traffic{
			TotalUsers:         28500,
			TotalSessions:      31200,
			BounceRate:         0.32,
			AvgSessionDuration: 263,
			ConversionRate:     0.076,
			Period:             "last_30_days",
		},
		Pages: []types.Page{
			{Path: "/products", Title: "Product Catalog", Views: 12400, AvgTimeSec: 225, BounceRate: 0.24},
			{Path: "/blog", Title: "Tech Blog", Views: 8900, AvgTimeSec: 312, BounceRate: 0.18},
			{Path: "/home", Title: "Homepage", Views: 7200, AvgTimeSec: 150, BounceRate: 0.35},
			{Path: "/pricing", Title: "Pricing Plans", Views: 4800, AvgTimeSec: 245, BounceRate: 0.28},
			{Path: "/about", Title: "About Us", Views: 3100, AvgTimeSec: 135, BounceRate: 0.42},
		},
		Sources: []types.TrafficSource{
			{Source: "Organic Search", Users: 14200, Percentage: 49.8},
			{Source: "Social Media", Users: 6800, Percentage: 23.9},
			{Source: "Direct Traffic", Users: 4200, Percentage: 14.7},
			{Source: "Email Marketing", Users: 2100, Percentage: 7.4},
			{Source: "Referral Sites", Users: 800, Percentage: 2.8},
			{Source: "Paid Ads", Users: 400, Percentage: 1.4},
		},
	}
}

// Load reads and validates a dataset file.
func Load(path string) (Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("dataset: read %q: %w", path, err)
	}

	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("dataset: parse yaml: %w", err)
	}
	if err := validate(ds); err != nil {
		return Dataset{}, fmt.Errorf("dataset: %w", err)
	}
	return ds, nil
}

// validate rejects datasets the scorer downstream would refuse: bounce
// rates must be fractions, counts and durations non-negative.
func validate(ds Dataset) error {
	if ds.Traffic.BounceRate < 0 || ds.Traffic.BounceRate > 1 {
		return fmt.Errorf("traffic.bounce_rate %g is not a fraction in [0, 1]", ds.Traffic.BounceRate)
	}
	if ds.Traffic.TotalSessions < 0 {
		return fmt.Errorf("traffic.total_sessions must not be negative")
	}
	if ds.Traffic.AvgSessionDuration < 0 {
		return fmt.Errorf("traffic.avg_session_duration must not be negative")
	}
	for i, p := range ds.Pages {
		if p.BounceRate < 0 || p.BounceRate > 1 {
			return fmt.Errorf("pages[%d].bounce_rate %g is not a fraction in [0, 1]", i, p.BounceRate)
		}
		if p.Views < 0 {
			return fmt.Errorf("pages[%d].views must not be negative", i)
		}
	}
	for i, src := range ds.Sources {
		if src.Users < 0 {
			return fmt.Errorf("sources[%d].users must not be negative", i)
		}
		if src.Percentage < 0 || src.Percentage > 100 {
			return fmt.Errorf("sources[%d].percentage %g is out of [0, 100]", i, src.Percentage)
		}
	}
	return nil
}
