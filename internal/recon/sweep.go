package recon

import (
	"context"
	"fmt"
	"net"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/lanwarden/lanwarden/pkg/models"
	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"
)

// HostResult holds the result of probing a single host.
type HostResult struct {
	IP    string
	RTT   time.Duration
	Alive bool
}

// rejectedInterfaceNames and rejectedInterfacePrefixes are the interfaces
// spec.md §4.2 says never host a scannable LAN segment: the loopback
// device and container bridge interfaces.
var (
	rejectedInterfaceNames    = []string{"lo"}
	rejectedInterfacePrefixes = []string{"docker", "br-"}
)

// SelectInterface enumerates local network interfaces and returns the
// subnet of the first one that qualifies, per spec.md §4.2: reject "lo"
// and any docker-/br--prefixed interface; among the rest, pick the first
// with an IPv4 address that is neither loopback nor unspecified and whose
// netmask is known. Used by callers (e.g. the CLI) that don't have an
// explicit subnet to scan.
func SelectInterface() (*net.IPNet, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, models.NewScanError(models.ErrorKindNetwork, "enumerate network interfaces", err)
	}

	for _, iface := range ifaces {
		if isRejectedInterface(iface.Name) {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok || ipNet.Mask == nil {
				continue
			}
			ip4 := ipNet.IP.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsUnspecified() {
				continue
			}
			return &net.IPNet{IP: ip4.Mask(ipNet.Mask), Mask: ipNet.Mask}, nil
		}
	}

	return nil, models.NewScanError(models.ErrorKindNetwork, "no usable network interface found", nil)
}

func isRejectedInterface(name string) bool {
	for _, n := range rejectedInterfaceNames {
		if name == n {
			return true
		}
	}
	for _, p := range rejectedInterfacePrefixes {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// Sweeper pings every host in a subnet to populate the OS ARP cache and
// find hosts that are actually up. It works in fixed-size batches: one
// batch of pings is fully awaited before the next batch starts, so peak
// concurrency never exceeds the batch size regardless of subnet size.
type Sweeper struct {
	pingTimeout time.Duration
	pingCount   int
	batchSize   int
	logger      *zap.Logger
}

// NewSweeper creates a Sweeper from Config.
func NewSweeper(cfg Config, logger *zap.Logger) *Sweeper {
	batch := cfg.SweepBatch
	if batch <= 0 {
		batch = 50
	}
	return &Sweeper{
		pingTimeout: cfg.PingTimeout,
		pingCount:   cfg.PingCount,
		batchSize:   batch,
		logger:      logger,
	}
}

// Sweep pings every host address in subnet and returns the ones that
// answered. Hosts are pinged in batches of s.batchSize; a batch completes
// (successes and failures alike) before the next one starts.
func (s *Sweeper) Sweep(ctx context.Context, subnet *net.IPNet) ([]HostResult, error) {
	hosts := expandSubnet(subnet)
	if len(hosts) == 0 {
		return nil, fmt.Errorf("no hosts in subnet %s", subnet)
	}

	s.logger.Info("starting ping sweep",
		zap.String("subnet", subnet.String()),
		zap.Int("hosts", len(hosts)),
		zap.Int("batch_size", s.batchSize),
	)

	privileged := runtime.GOOS == "windows"
	var alive []HostResult

	for start := 0; start < len(hosts); start += s.batchSize {
		end := start + s.batchSize
		if end > len(hosts) {
			end = len(hosts)
		}
		batch := hosts[start:end]

		select {
		case <-ctx.Done():
			return alive, ctx.Err()
		default:
		}

		results := make([]HostResult, len(batch))
		var wg sync.WaitGroup
		wg.Add(len(batch))
		for i, ip := range batch {
			go func(i int, ip string) {
				defer wg.Done()
				ok, rtt := s.pingHost(ctx, ip, privileged)
				results[i] = HostResult{IP: ip, RTT: rtt, Alive: ok}
			}(i, ip)
		}
		wg.Wait()

		for _, r := range results {
			if r.Alive {
				alive = append(alive, r)
			}
		}
	}

	return alive, nil
}

// pingHost pings a single host and reports whether it answered.
func (s *Sweeper) pingHost(ctx context.Context, ip string, privileged bool) (alive bool, rtt time.Duration) {
	pinger, err := probing.NewPinger(ip)
	if err != nil {
		s.logger.Debug("failed to create pinger", zap.String("ip", ip), zap.Error(err))
		return false, 0
	}

	pinger.Count = s.pingCount
	pinger.Timeout = s.pingTimeout
	pinger.SetPrivileged(privileged)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if runErr := pinger.Run(); runErr != nil {
			s.logger.Debug("ping failed", zap.String("ip", ip), zap.Error(runErr))
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return false, 0
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv > 0 {
		return true, stats.AvgRtt
	}
	return false, 0
}

// expandSubnet returns all host IPs in a subnet, excluding the network and
// broadcast addresses. Subnets larger than /16 are rejected to bound scan
// size.
func expandSubnet(subnet *net.IPNet) []string {
	ones, bits := subnet.Mask.Size()
	if ones == 0 && bits == 0 {
		return nil
	}

	hostBits := bits - ones
	if hostBits > 16 {
		return nil
	}

	var hosts []string
	totalHosts := 1 << hostBits

	for i := 1; i < totalHosts-1; i++ {
		next := incrementIP(subnet.IP, i)
		if next != nil && subnet.Contains(next) {
			hosts = append(hosts, next.String())
		}
	}

	return hosts
}

// incrementIP adds offset to a base IPv4 address.
func incrementIP(base net.IP, offset int) net.IP {
	ip4 := base.To4()
	if ip4 == nil {
		return nil
	}
	ip := make(net.IP, len(ip4))
	copy(ip, ip4)

	carry := offset
	for i := 3; i >= 0; i-- {
		val := int(ip[i]) + carry
		ip[i] = byte(val % 256)
		carry = val / 256
		if carry == 0 {
			break
		}
	}
	return ip
}
