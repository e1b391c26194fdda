package source

import (
	"context"

	"github.com/webpulse/webpulse/pkg/types"
)

// mockPeriod labels the static dataset's reporting window.
const mockPeriod = "last_30_days"

// mockProvider serves a built-in static dataset behind the same Provider
// contract as the HTTP provider. It is used as the configured fallback when
// the real Metrics Source is unreachable, and in tests.
type mockProvider struct{}

// NewMock returns the static fallback Provider. It never fails.
func NewMock() Provider {
	return mockProvider{}
}

func (mockProvider) Traffic(context.Context) (*types.Traffic, error) {
	return &types.Traffic{
		TotalUsers:         28500,
		TotalSessions:      31200,
		BounceRate:         0.32,
		AvgSessionDuration: 263,
		ConversionRate:     0.076,
		Period:             mockPeriod,
	}, nil
}

func (mockProvider) TopPages(context.Context) (*types.PagesReport, error) {
	return &types.PagesReport{
		Pages: []types.Page{
			{Path: "/products", Title: "Product Catalog", Views: 12400, AvgTimeSec: 225, BounceRate: 0.24},
			{Path: "/blog", Title: "Tech Blog", Views: 8900, AvgTimeSec: 312, BounceRate: 0.18},
			{Path: "/home", Title: "Homepage", Views: 7200, AvgTimeSec: 150, BounceRate: 0.35},
			{Path: "/pricing", Title: "Pricing Plans", Views: 4800, AvgTimeSec: 245, BounceRate: 0.28},
			{Path: "/about", Title: "About Us", Views: 3100, AvgTimeSec: 135, BounceRate: 0.42},
		},
		TotalPageviews: 36400,
		Period:         mockPeriod,
	}, nil
}

func (mockProvider) TrafficSources(context.Context) (*types.SourcesReport, error) {
	return &types.SourcesReport{
		Sources: []types.TrafficSource{
			{Source: "Organic Search", Users: 14200, Percentage: 49.8},
			{Source: "Social Media", Users: 6800, Percentage: 23.9},
			{Source: "Direct Traffic", Users: 4200, Percentage: 14.7},
			{Source: "Email Marketing", Users: 2100, Percentage: 7.4},
			{Source: "Referral Sites", Users: 800, Percentage: 2.8},
			{Source: "Paid Ads", Users: 400, Percentage: 1.4},
		},
		TotalUsers: 28500,
		TopSource:  "Organic Search",
		Period:     mockPeriod,
	}, nil
}
