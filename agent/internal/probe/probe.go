package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const defaultProbeTimeout = 10 * time.Second

// Metric families exported by the analytics server's telemetry package.
const (
	famRequestsTotal  = "webpulse_http_requests_total"
	famErrorsTotal    = "webpulse_http_errors_total"
	famStreamClients  = "webpulse_stream_clients"
	famDatasetReloads = "webpulse_dataset_reloads_total"
)

// Result is a snapshot of the analytics server's own operational counters,
// read from its Prometheus exposition. It is informational only; a failed
// probe never blocks report generation.
type Result struct {
	ScrapedAt time.Time

	// RequestsTotal is the sum of API requests served across all endpoints.
	RequestsTotal float64

	// ByEndpoint breaks RequestsTotal down per endpoint label.
	ByEndpoint map[string]float64

	// ErrorsTotal counts requests that ended in a non-2xx response.
	ErrorsTotal float64

	// StreamClients is the number of live websocket stream subscribers.
	StreamClients float64

	// DatasetReloads counts successful dataset hot reloads.
	DatasetReloads float64
}

// Prober scrapes a /metrics endpoint. It reuses one HTTP client across runs.
type Prober struct {
	url    string
	client *http.Client
}

// New builds a Prober for the analytics server at base (scheme://host:port).
func New(base string) *Prober {
	return NewURL(strings.TrimRight(base, "/") + "/metrics")
}

// NewURL builds a Prober for an explicit exposition URL.
func NewURL(url string) *Prober {
	return &Prober{
		url:    url,
		client: &http.Client{Timeout: defaultProbeTimeout},
	}
}

// Probe fetches and summarizes the server's exposition.
func (p *Prober) Probe(ctx context.Context) (*Result, error) {
	mfs, err := fetchFamilies(ctx, p.client, p.url)
	if err != nil {
		return nil, fmt.Errorf("probe %s: %w", p.url, err)
	}

	res := &Result{
		ScrapedAt:      time.Now().UTC(),
		ByEndpoint:     splitByLabel(mfs[famRequestsTotal], "endpoint"),
		ErrorsTotal:    sumFamily(mfs[famErrorsTotal]),
		StreamClients:  sumFamily(mfs[famStreamClients]),
		DatasetReloads: sumFamily(mfs[famDatasetReloads]),
	}
	res.RequestsTotal = sumFamily(mfs[famRequestsTotal])
	return res, nil
}

// fetchFamilies performs an HTTP GET to url and returns parsed metric families.
func fetchFamilies(ctx context.Context, client *http.Client, url string) (map[string]*dto.MetricFamily, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", string(expfmt.NewFormat(expfmt.TypeTextPlain)))

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return parseFamilies(resp.Body)
}

// parseFamilies decodes a Prometheus text exposition from r.
// A partial result with a non-fatal parse warning is still returned successfully.
func parseFamilies(r io.Reader) (map[string]*dto.MetricFamily, error) {
	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(r)
	if err != nil && len(mfs) == 0 {
		return nil, fmt.Errorf("parse prometheus text: %w", err)
	}
	return mfs, nil
}

// sumFamily adds up all counter, gauge, or untyped values in a MetricFamily.
// Returns 0 if mf is nil (metric not present in the scrape).
func sumFamily(mf *dto.MetricFamily) float64 {
	if mf == nil {
		return 0
	}
	var total float64
	for _, m := range mf.GetMetric() {
		switch {
		case m.Counter != nil:
			total += m.Counter.GetValue()
		case m.Gauge != nil:
			total += m.Gauge.GetValue()
		case m.Untyped != nil:
			total += m.Untyped.GetValue()
		}
	}
	return total
}

// splitByLabel groups a family's values by the given label name.
// Series missing the label are grouped under "".
func splitByLabel(mf *dto.MetricFamily, label string) map[string]float64 {
	out := make(map[string]float64)
	if mf == nil {
		return out
	}
	for _, m := range mf.GetMetric() {
		var key string
		for _, lp := range m.GetLabel() {
			if lp.GetName() == label {
				key = lp.GetValue()
				break
			}
		}
		switch {
		case m.Counter != nil:
			out[key] += m.Counter.GetValue()
		case m.Gauge != nil:
			out[key] += m.Gauge.GetValue()
		case m.Untyped != nil:
			out[key] += m.Untyped.GetValue()
		}
	}
	return out
}
