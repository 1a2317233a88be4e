package recon

import (
	"context"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/lanwarden/lanwarden/pkg/models"
	"go.uber.org/zap"
)

// CommonPorts is the fixed set of TCP ports probed on every device during
// a Standard-or-deeper scan.
var CommonPorts = []int{
	21, 22, 23, 25, 53, 80, 443, 554, 1883, 1900, 5000, 5353, 8080, 8443, 8883, 9000,
}

// securePorts are the ports whose protocol is encrypted or otherwise
// considered safe to expose; everything else open counts against the
// security score.
var securePorts = map[int]bool{
	22:   true,
	443:  true,
	8443: true,
	8883: true,
}

// portServiceNames labels each port in CommonPorts with the service that
// conventionally listens on it.
var portServiceNames = map[int]string{
	21:   "FTP",
	22:   "SSH",
	23:   "Telnet",
	25:   "SMTP",
	53:   "DNS",
	80:   "HTTP",
	443:  "HTTPS",
	554:  "RTSP",
	1883: "MQTT",
	1900: "UPnP/SSDP",
	5000: "HTTP (alt)",
	5353: "mDNS",
	8080: "HTTP (alt)",
	8443: "HTTPS (alt)",
	8883: "MQTT (TLS)",
	9000: "HTTP (alt)",
}

// PortScanner probes a fixed port list on a target host, opening at most
// `workers` TCP connection attempts concurrently per host. Hosts
// themselves are probed one at a time by the orchestrator.
type PortScanner struct {
	timeout time.Duration
	workers int
	logger  *zap.Logger
}

// NewPortScanner creates a PortScanner.
func NewPortScanner(timeout time.Duration, workers int, logger *zap.Logger) *PortScanner {
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	if workers <= 0 {
		workers = 16
	}
	return &PortScanner{timeout: timeout, workers: workers, logger: logger}
}

// Scan attempts a TCP connection to every port in CommonPorts and returns
// the ones that accepted, sorted by port number.
func (s *PortScanner) Scan(ctx context.Context, ip string) []models.Port {
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	var open []models.Port

	for _, port := range CommonPorts {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(p int) {
			defer wg.Done()
			defer func() { <-sem }()

			if s.isPortOpen(ctx, ip, p) {
				mu.Lock()
				open = append(open, models.Port{
					Number:   p,
					Protocol: "tcp",
					Service:  portServiceNames[p],
					IsSecure: securePorts[p],
				})
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()

	sort.Slice(open, func(i, j int) bool { return open[i].Number < open[j].Number })

	s.logger.Debug("port scan complete", zap.String("ip", ip), zap.Int("open_count", len(open)))
	return open
}

func (s *PortScanner) isPortOpen(ctx context.Context, ip string, port int) bool {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	d := net.Dialer{Timeout: s.timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
