package recon

import (
	"bufio"
	"context"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// ARPReader reads the operating system's ARP cache to resolve MAC addresses
// for hosts that answered the ping sweep. It never returns an error: on any
// platform or parse failure it falls back to an empty table so the rest of
// the pipeline proceeds without MAC/vendor data for that host.
type ARPReader struct {
	logger *zap.Logger
}

// NewARPReader creates an ARPReader.
func NewARPReader(logger *zap.Logger) *ARPReader {
	return &ARPReader{logger: logger}
}

// ReadTable returns a map of IP address to uppercase MAC address.
func (r *ARPReader) ReadTable(ctx context.Context) map[string]string {
	switch runtime.GOOS {
	case "linux":
		return r.readLinuxARP()
	case "windows":
		return r.readWindowsARP(ctx)
	case "darwin":
		return r.readDarwinARP(ctx)
	default:
		r.logger.Warn("ARP table reading not supported on this platform", zap.String("os", runtime.GOOS))
		return map[string]string{}
	}
}

func (r *ARPReader) readLinuxARP() map[string]string {
	data, err := os.ReadFile("/proc/net/arp")
	if err != nil {
		r.logger.Debug("failed to read /proc/net/arp", zap.Error(err))
		return map[string]string{}
	}
	return ParseARPOutput(string(data), "linux")
}

func (r *ARPReader) readWindowsARP(ctx context.Context) map[string]string {
	out, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		r.logger.Debug("failed to run arp -a", zap.Error(err))
		return map[string]string{}
	}
	return ParseARPOutput(string(out), "windows")
}

func (r *ARPReader) readDarwinARP(ctx context.Context) map[string]string {
	out, err := exec.CommandContext(ctx, "arp", "-a").Output()
	if err != nil {
		r.logger.Debug("failed to run arp -a", zap.Error(err))
		return map[string]string{}
	}
	return ParseARPOutput(string(out), "darwin")
}

// ParseARPOutput parses platform-specific `arp` output into an IP->MAC map.
// Exported so platform parsers can be exercised in tests regardless of the
// host running them.
func ParseARPOutput(output, platform string) map[string]string {
	switch platform {
	case "linux":
		return parseLinuxARPOutput(output)
	case "windows":
		return parseWindowsARPOutput(output)
	case "darwin":
		return parseDarwinARPOutput(output)
	default:
		return map[string]string{}
	}
}

// parseLinuxARPOutput parses /proc/net/arp:
//
//	IP address       HW type     Flags       HW address            Mask     Device
//	192.168.1.1      0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0
//
// Rows with fewer than six whitespace-separated fields are malformed and
// skipped.
func parseLinuxARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	scanner.Scan() // header
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 {
			continue
		}
		mac := strings.ToUpper(fields[3])
		if mac == "00:00:00:00:00:00" {
			continue
		}
		table[fields[0]] = mac
	}
	return table
}

// parseWindowsARPOutput parses `arp -a` rows of the form:
//
//	192.168.1.1           aa-bb-cc-dd-ee-ff     dynamic
func parseWindowsARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		fields := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(fields) < 3 {
			continue
		}
		ip := fields[0]
		if ip == "" || ip[0] < '0' || ip[0] > '9' {
			continue
		}
		mac := strings.ToUpper(strings.ReplaceAll(fields[1], "-", ":"))
		if mac == "FF:FF:FF:FF:FF:FF" || mac == "00:00:00:00:00:00" {
			continue
		}
		table[ip] = mac
	}
	return table
}

// parseDarwinARPOutput parses `arp -a` rows of the form:
//
//	hostname (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
func parseDarwinARPOutput(output string) map[string]string {
	table := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		parenStart := strings.Index(line, "(")
		parenEnd := strings.Index(line, ")")
		if parenStart < 0 || parenEnd < 0 || parenEnd <= parenStart {
			continue
		}
		ip := line[parenStart+1 : parenEnd]

		atIdx := strings.Index(line[parenEnd:], " at ")
		if atIdx < 0 {
			continue
		}
		rest := line[parenEnd+atIdx+4:]
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		mac := strings.ToUpper(fields[0])
		if mac == "(INCOMPLETE)" || mac == "FF:FF:FF:FF:FF:FF" {
			continue
		}
		table[ip] = mac
	}
	return table
}
