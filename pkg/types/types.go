package types

// Traffic is the site-wide metrics payload served by GET /api/v1/traffic and
// consumed by the agent as the primary analysis input.
type Traffic struct {
	// TotalUsers is the number of distinct users in the reporting window.
	TotalUsers int `json:"total_users" yaml:"total_users"`

	// TotalSessions is the number of sessions in the reporting window.
	TotalSessions int `json:"total_sessions" yaml:"total_sessions"`

	// BounceRate is a fraction in [0, 1] — never a percentage integer.
	BounceRate float64 `json:"bounce_rate" yaml:"bounce_rate"`

	// AvgSessionDuration is the mean session length in seconds.
	AvgSessionDuration float64 `json:"avg_session_duration" yaml:"avg_session_duration"`

	// ConversionRate is a fraction in [0, 1]. Informational only — the
	// scorer does not consume it.
	ConversionRate float64 `json:"conversion_rate" yaml:"conversion_rate"`

	// Period names the reporting window, e.g. "last_30_days".
	Period string `json:"period,omitempty" yaml:"period,omitempty"`
}

// Page is one entry in the top-pages breakdown, ordered by views descending.
type Page struct {
	Path       string  `json:"page_path" yaml:"page_path"`
	Title      string  `json:"page_title" yaml:"page_title"`
	Views      int     `json:"views" yaml:"views"`
	AvgTimeSec float64 `json:"avg_time_seconds,omitempty" yaml:"avg_time_seconds,omitempty"`
	BounceRate float64 `json:"bounce_rate,omitempty" yaml:"bounce_rate,omitempty"`
}

// PagesReport is the payload served by GET /api/v1/pages.
type PagesReport struct {
	Pages          []Page `json:"pages" yaml:"pages"`
	TotalPageviews int    `json:"total_pageviews" yaml:"total_pageviews"`
	Period         string `json:"period,omitempty" yaml:"period,omitempty"`
}

// TrafficSource is one entry in the acquisition-channel breakdown, ordered
// by users descending.
type TrafficSource struct {
	Source     string  `json:"source" yaml:"source"`
	Users      int     `json:"users" yaml:"users"`
	Percentage float64 `json:"percentage,omitempty" yaml:"percentage,omitempty"`
}

// SourcesReport is the payload served by GET /api/v1/sources.
type SourcesReport struct {
	Sources    []TrafficSource `json:"sources" yaml:"sources"`
	TotalUsers int             `json:"total_users" yaml:"total_users"`
	TopSource  string          `json:"top_source,omitempty" yaml:"top_source,omitempty"`
	Period     string          `json:"period,omitempty" yaml:"period,omitempty"`
}
