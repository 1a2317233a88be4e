package recon

import (
	"context"
	"errors"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lanwarden/lanwarden/pkg/models"
	"go.uber.org/zap"
)

// Orchestrator runs the full discovery-and-assessment pipeline: a
// structured fan-out/join over independent discovery protocols, followed
// by a sequential classify/port-scan/score tail. Progress is reported
// through a ProgressFunc rather than an event bus, since a one-shot CLI
// scan has no other subscriber to fan events out to.
type Orchestrator struct {
	cfg      Config
	sweeper  *Sweeper
	arp      *ARPReader
	nbns     *NBNSQuerier
	ports    *PortScanner
	logger   *zap.Logger
	progress models.ProgressFunc

	lastProgress int
}

// NewOrchestrator wires together an Orchestrator from Config.
func NewOrchestrator(cfg Config, logger *zap.Logger, progress models.ProgressFunc) *Orchestrator {
	if progress == nil {
		progress = func(models.ScanProgress) {}
	}
	return &Orchestrator{
		cfg:      cfg,
		sweeper:  NewSweeper(cfg, logger),
		arp:      NewARPReader(logger),
		nbns:     NewNBNSQuerier(cfg.NBNSTimeout, logger),
		ports:    NewPortScanner(cfg.PortTimeout, cfg.PortWorkers, logger),
		logger:   logger,
		progress: progress,
	}
}

// discovered is the working record for a single host as it accumulates
// data across discovery phases, before being frozen into a models.Device.
type discovered struct {
	ip            string
	mac           string
	mdnsName      string
	ssdpName      string
	nbnsName      string
	dnsHostname   string
	discoveredVia []string
}

// Run executes a scan of subnet at the given level and returns the
// completed result.
func (o *Orchestrator) Run(ctx context.Context, subnet *net.IPNet, level models.ScanLevel) (*models.ScanResult, error) {
	o.emit("init", 0, "scan starting")

	hosts, mdnsResults, ssdpResults, err := o.discoverPhase(ctx, subnet)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, models.NewScanError(models.ErrorKindCancelled, "scan cancelled", err)
		}
		return nil, models.NewScanError(models.ErrorKindNetwork, "discovery phase failed", err)
	}
	o.emit("sweep-start", 10, "host discovery complete")

	devices := o.fuseDiscovery(hosts, mdnsResults, ssdpResults)

	o.resolveNamesPhase(ctx, devices)
	o.emit("name-resolve", 25, "name resolution complete")

	result := make([]models.Device, 0, len(devices))
	for _, d := range devices {
		result = append(result, o.buildDevice(d))
	}
	o.emit("classify", 35, "device classification complete")

	if level >= models.ScanLevelStandard {
		o.portScanPhase(ctx, result)
		o.emit("port-scan", 50, "port scan complete")

		for i := range result {
			result[i].DeviceType = RefineFromServices(result[i].DeviceType, result[i].OpenPorts)
		}
		o.emit("service-id", 70, "service identification complete")
	}

	if level >= models.ScanLevelDeep {
		for i := range result {
			result[i].Issues = SynthesizeIssues(result[i].OpenPorts)
		}
		o.emit("vuln-check", 85, "vulnerability check complete")
	}

	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, models.NewScanError(models.ErrorKindCancelled, "scan cancelled", ctx.Err())
	}

	var totalScore int
	for i := range result {
		score, secLevel := Score(level, result[i].Issues, result[i].OpenPorts)
		result[i].SecurityScore = score
		result[i].SecurityLevel = secLevel
		totalScore += score
	}
	o.emit("score", 95, "scoring complete")

	sort.Slice(result, func(i, j int) bool { return result[i].IP < result[j].IP })

	avg := 0.0
	if len(result) > 0 {
		avg = float64(totalScore) / float64(len(result))
	}

	o.emit("complete", 100, "scan complete")

	return &models.ScanResult{
		ID:           uuid.New().String(),
		Timestamp:    time.Now(),
		Subnet:       subnet.String(),
		Level:        level,
		Devices:      result,
		AverageScore: avg,
	}, nil
}

// discoverPhase runs the sweep, mDNS browse and SSDP discovery
// concurrently and joins on all three before returning. The ARP cache is
// read after the sweep completes, since the sweep's ICMP traffic is what
// populates it.
func (o *Orchestrator) discoverPhase(ctx context.Context, subnet *net.IPNet) ([]HostResult, map[string]mdnsResult, []ssdpDevice, error) {
	var (
		hosts  []HostResult
		mdnsR  map[string]mdnsResult
		ssdpR  []ssdpDevice
		sweepErr error
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		hosts, sweepErr = o.sweeper.Sweep(ctx, subnet)
	}()
	go func() {
		defer wg.Done()
		mdnsR = BrowseMDNS(ctx, o.cfg.MDNSTimeout, o.logger)
	}()
	go func() {
		defer wg.Done()
		ssdpR = DiscoverSSDP(ctx, o.cfg.SSDPTimeout, o.logger)
	}()

	wg.Wait()

	if sweepErr != nil {
		return nil, nil, nil, sweepErr
	}
	return hosts, mdnsR, ssdpR, nil
}

// fuseDiscovery merges ping-sweep results, the ARP cache, mDNS names and
// SSDP friendly names into one record per host.
func (o *Orchestrator) fuseDiscovery(hosts []HostResult, mdnsResults map[string]mdnsResult, ssdpResults []ssdpDevice) map[string]*discovered {
	devices := make(map[string]*discovered)

	arpTable := o.arp.ReadTable(context.Background())

	for _, h := range hosts {
		devices[h.IP] = &discovered{ip: h.IP, discoveredVia: []string{"icmp"}}
	}

	for ip, mac := range arpTable {
		d, ok := devices[ip]
		if !ok {
			d = &discovered{ip: ip}
			devices[ip] = d
		}
		d.mac = mac
		d.discoveredVia = append(d.discoveredVia, "arp")
	}

	for ip, m := range mdnsResults {
		d, ok := devices[ip]
		if !ok {
			d = &discovered{ip: ip}
			devices[ip] = d
		}
		d.mdnsName = m.name
		d.discoveredVia = append(d.discoveredVia, "mdns")
	}

	for _, s := range ssdpResults {
		if s.FriendlyName == "" {
			continue
		}
		d, ok := devices[s.IP]
		if !ok {
			d = &discovered{ip: s.IP}
			devices[s.IP] = d
		}
		d.ssdpName = s.FriendlyName
		d.discoveredVia = append(d.discoveredVia, "ssdp")
	}

	return devices
}

// nameResolveBatch bounds how many hosts have NBNS/DNS lookups in flight
// at once.
const nameResolveBatch = 50

// resolveNamesPhase queries NBNS and reverse DNS concurrently across hosts,
// at most nameResolveBatch hosts at a time, with both lookups for a given
// host running in parallel too.
func (o *Orchestrator) resolveNamesPhase(ctx context.Context, devices map[string]*discovered) {
	sem := make(chan struct{}, nameResolveBatch)
	var wg sync.WaitGroup
	for _, d := range devices {
		wg.Add(1)
		sem <- struct{}{}
		go func(d *discovered) {
			defer wg.Done()
			defer func() { <-sem }()

			var inner sync.WaitGroup
			inner.Add(2)
			go func() {
				defer inner.Done()
				d.nbnsName = o.nbns.Query(ctx, d.ip)
			}()
			go func() {
				defer inner.Done()
				d.dnsHostname = reverseLookup(ctx, d.ip, o.cfg.DNSTimeout)
			}()
			inner.Wait()
		}(d)
	}
	wg.Wait()
}

// buildDevice freezes a discovered record into a models.Device, applying
// the name-fusion priority rules and running the fingerprint classifier.
//
// The display Name follows mDNS > NBNS > SSDP > DNS-PTR, falling back to
// "<vendor> device" when no resolver answered and a vendor is known.
// Hostname is a separate field that prefers DNS-PTR, since it's the most
// authoritative source for a resolvable hostname.
func (o *Orchestrator) buildDevice(d *discovered) models.Device {
	vendor := ""
	if d.mac != "" {
		vendor = LookupVendor(d.mac)
	}

	name := firstNonEmpty(d.mdnsName, d.nbnsName, d.ssdpName, d.dnsHostname)
	if name == "" && vendor != "" {
		name = vendor + " device"
	}
	hostname := firstNonEmpty(d.dnsHostname, d.mdnsName, d.nbnsName)

	return models.Device{
		ID:            uuid.New().String(),
		IP:            d.ip,
		MACAddress:    d.mac,
		Manufacturer:  vendor,
		Hostname:      hostname,
		Name:          name,
		DeviceType:    ClassifyDevice(vendor, name),
		DiscoveredVia: dedupeStrings(d.discoveredVia),
		LastSeen:      time.Now(),
	}
}

// portScanPhase probes CommonPorts on each device. Devices are scanned
// one at a time; within a single device's scan, ports are probed
// concurrently (see PortScanner.Scan).
func (o *Orchestrator) portScanPhase(ctx context.Context, devices []models.Device) {
	for i := range devices {
		if ctx.Err() != nil {
			return
		}
		devices[i].OpenPorts = o.ports.Scan(ctx, devices[i].IP)
	}
}

// emit reports progress, clamping to the last-reported value so progress
// never appears to go backwards even if a caller re-orders phases.
func (o *Orchestrator) emit(phase string, progress int, message string) {
	if progress < o.lastProgress {
		progress = o.lastProgress
	}
	o.lastProgress = progress
	o.progress(models.ScanProgress{Phase: phase, Progress: progress, Message: message})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
