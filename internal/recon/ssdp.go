package recon

import (
	"bufio"
	"context"
	"encoding/xml"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/huin/goupnp"
	"go.uber.org/zap"
)

const (
	ssdpMulticastAddr = "239.255.255.250:1900"
	ssdpSearchRequest = "M-SEARCH * HTTP/1.1\r\n" +
		"HOST: 239.255.255.250:1900\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: 2\r\n" +
		"ST: ssdp:all\r\n\r\n"
)

// ssdpDevice is one UPnP root device discovered via M-SEARCH, with its
// friendlyName resolved from its device description XML.
type ssdpDevice struct {
	IP           string
	Location     string
	FriendlyName string
}

// DiscoverSSDP sends a multicast M-SEARCH and collects LOCATION headers
// from responding devices until timeout elapses, then fetches each
// device's description document for its friendlyName. The M-SEARCH
// request is sent on a raw UDP socket (not goupnp's own discovery
// helper) so its bytes match the wire format exactly; goupnp's
// RootDevice type is reused to unmarshal the fetched XML.
func DiscoverSSDP(ctx context.Context, timeout time.Duration, logger *zap.Logger) []ssdpDevice {
	locations := ssdpSearch(ctx, timeout, logger)

	devices := make([]ssdpDevice, 0, len(locations))
	for ip, location := range locations {
		name := fetchFriendlyName(ctx, location, logger)
		devices = append(devices, ssdpDevice{IP: ip, Location: location, FriendlyName: name})
	}
	return devices
}

// ssdpSearch returns the first LOCATION header seen per responding
// IP address.
func ssdpSearch(ctx context.Context, timeout time.Duration, logger *zap.Logger) map[string]string {
	locations := make(map[string]string)

	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		logger.Debug("ssdp socket failed", zap.Error(err))
		return locations
	}
	defer conn.Close()

	dst, err := net.ResolveUDPAddr("udp4", ssdpMulticastAddr)
	if err != nil {
		return locations
	}

	deadline := time.Now().Add(timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return locations
	}

	if _, err := conn.WriteTo([]byte(ssdpSearchRequest), dst); err != nil {
		logger.Debug("ssdp send failed", zap.Error(err))
		return locations
	}

	buf := make([]byte, 4096)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			break // deadline reached or socket closed
		}

		location, ok := parseSSDPLocation(buf[:n])
		if !ok {
			continue
		}

		ip := addr.(*net.UDPAddr).IP.String()
		if _, seen := locations[ip]; !seen {
			locations[ip] = location
		}
	}

	return locations
}

// parseSSDPLocation extracts the LOCATION header from an M-SEARCH
// response using the stdlib HTTP response parser, which handles header
// folding and case-insensitivity for free.
func parseSSDPLocation(data []byte) (string, bool) {
	resp, err := http.ReadResponse(bufio.NewReader(strings.NewReader(string(data))), nil)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	location := resp.Header.Get("LOCATION")
	if location == "" {
		return "", false
	}
	return location, true
}

// fetchFriendlyName fetches a UPnP device description document and
// returns its root device's friendlyName, using goupnp's RootDevice
// struct so the XML unmarshal follows the same schema goupnp's own
// discovery client uses.
func fetchFriendlyName(ctx context.Context, location string, logger *zap.Logger) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return ""
	}

	client := http.Client{Timeout: 3 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		logger.Debug("ssdp description fetch failed", zap.String("location", location), zap.Error(err))
		return ""
	}
	defer resp.Body.Close()

	var desc goupnp.RootDevice
	if err := xml.NewDecoder(resp.Body).Decode(&desc); err != nil {
		logger.Debug("ssdp description decode failed", zap.String("location", location), zap.Error(err))
		return ""
	}
	return desc.Device.FriendlyName
}
