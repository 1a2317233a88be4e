// Package metrics exposes scan outcomes as Prometheus metrics, written to
// a textfile for node_exporter's textfile collector to pick up -- this
// tool runs once and exits, so it has no HTTP server of its own to scrape.
package metrics

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/lanwarden/lanwarden/pkg/models"
)

// Collector holds the gauges populated from a single completed scan.
type Collector struct {
	registry *prometheus.Registry

	devicesDiscovered prometheus.Gauge
	averageScore      prometheus.Gauge
	dangerDevices     prometheus.Gauge
	lastScanTimestamp prometheus.Gauge
	scanDuration      prometheus.Gauge
}

// NewCollector creates a Collector with its gauges registered.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		devicesDiscovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lanwarden_devices_discovered",
			Help: "Number of devices discovered in the most recent scan.",
		}),
		averageScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lanwarden_average_security_score",
			Help: "Average security score across all devices in the most recent scan.",
		}),
		dangerDevices: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lanwarden_danger_devices",
			Help: "Number of devices classified as security_level=danger in the most recent scan.",
		}),
		lastScanTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lanwarden_last_scan_timestamp_seconds",
			Help: "Unix timestamp of the most recent completed scan.",
		}),
		scanDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lanwarden_scan_duration_seconds",
			Help: "Wall-clock duration of the most recent scan.",
		}),
	}

	registry.MustRegister(
		c.devicesDiscovered,
		c.averageScore,
		c.dangerDevices,
		c.lastScanTimestamp,
		c.scanDuration,
	)
	return c
}

// Observe populates the gauges from a completed scan result.
func (c *Collector) Observe(result *models.ScanResult, duration float64) {
	c.devicesDiscovered.Set(float64(len(result.Devices)))
	c.averageScore.Set(result.AverageScore)
	c.lastScanTimestamp.Set(float64(result.Timestamp.Unix()))
	c.scanDuration.Set(duration)

	danger := 0
	for _, d := range result.Devices {
		if d.SecurityLevel == models.SecurityLevelDanger {
			danger++
		}
	}
	c.dangerDevices.Set(float64(danger))
}

// WriteTextfile renders the collected metrics in the Prometheus text
// exposition format and writes them atomically to path, following the
// textfile collector convention of writing to a temp file and renaming
// into place so a concurrent scrape never observes a half-written file.
func (c *Collector) WriteTextfile(path string) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			f.Close()
			os.Remove(tmp)
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}
