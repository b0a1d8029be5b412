// Package status holds lock-free scene metrics written by the frame loop and read by overlays,
// reports and the snapshot stream.
package status

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Registry groups the metric maps by kind
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[Gauge]
	Labels   *MetricMap[Label]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[Gauge](),
		Labels:   NewMetricMap[Label](),
	}
}

// TotalCount returns the number of registered metrics of every kind
func (r *Registry) TotalCount() int {
	return r.Counters.Count() + r.Gauges.Count() + r.Labels.Count()
}

// Entry is one formatted metric
type Entry struct {
	Key   string
	Value string
}

// Entries formats every metric, counters first, then gauges, then labels, each in key order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, r.TotalCount())
	r.Counters.Range(func(k string, v *atomic.Int64) {
		out = append(out, Entry{Key: k, Value: strconv.FormatInt(v.Load(), 10)})
	})
	r.Gauges.Range(func(k string, v *Gauge) {
		out = append(out, Entry{Key: k, Value: strconv.FormatFloat(v.Get(), 'f', 2, 64)})
	})
	r.Labels.Range(func(k string, v *Label) {
		out = append(out, Entry{Key: k, Value: v.Get()})
	})
	return out
}

// Values returns raw values keyed by metric name, suitable for JSON
func (r *Registry) Values() map[string]any {
	out := make(map[string]any, r.TotalCount())
	r.Counters.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	r.Gauges.Range(func(k string, v *Gauge) { out[k] = v.Get() })
	r.Labels.Range(func(k string, v *Label) { out[k] = v.Get() })
	return out
}

// String renders the metrics as "key=value" pairs
func (r *Registry) String() string {
	var b strings.Builder
	for i, e := range r.Entries() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Key)
		b.WriteByte('=')
		b.WriteString(e.Value)
	}
	return b.String()
}
