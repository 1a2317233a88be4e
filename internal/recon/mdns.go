package recon

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
	"go.uber.org/zap"
)

// mdnsServices is the set of DNS-SD service types browsed for, covering
// the device families that commonly announce themselves on a home or
// small-office LAN.
var mdnsServices = []string{
	"_services._dns-sd._udp",  // meta-service: enumerates other service types present
	"_googlecast._tcp",        // Chromecast and Google Cast receivers
	"_airplay._tcp",           // AirPlay video receivers
	"_companion-link._tcp",    // Apple Continuity/Handoff companion devices
	"_device-info._tcp",       // generic Apple device info
	"_ipp._tcp",               // Internet Printing Protocol
	"_http._tcp",              // embedded web UIs
	"_smb._tcp",               // SMB file sharing (NAS)
	"_rdp._tcp",                // Remote Desktop
	"_raop._tcp",              // AirPlay audio (Remote Audio Output Protocol)
	"_sleep-proxy._udp",       // Bonjour Sleep Proxy
	"_workstation._tcp",       // generic workstation advertisement
	"_hap._tcp",               // HomeKit Accessory Protocol
	"_matter._tcp",            // Matter/Thread devices
	"_spotify-connect._tcp",   // Spotify Connect speakers
	"_amzn-wplay._tcp",        // Amazon Fire TV / WPlay remote
	"_androidtvremote2._tcp",  // Android TV remote pairing
	"_touch-able._tcp",        // iTunes/Remote-pairable devices
}

// mdnsResult holds the per-IP fused name learned from mDNS/DNS-SD
// browsing: the TXT/instance-name-derived display name and the service
// types the IP announced.
type mdnsResult struct {
	name     string
	services []string
}

// BrowseMDNS queries every service type in mdnsServices and returns the
// best display name found per IP. When the same IP answers for multiple
// services, the existing name is replaced only if the newly found name is
// strictly longer -- this favors a full instance name ("Livingroom
// Chromecast") over a truncated or generic one, and must not be broadened
// to "longer or equal" or "most recent wins".
func BrowseMDNS(ctx context.Context, timeout time.Duration, logger *zap.Logger) map[string]mdnsResult {
	results := make(map[string]mdnsResult)

	for _, service := range mdnsServices {
		entries := make(chan *mdns.ServiceEntry, 32)
		done := make(chan struct{})

		go func() {
			defer close(done)
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}
				ip := entry.AddrV4.String()
				name := mdnsEntryName(entry)
				if name == "" {
					continue
				}

				existing, ok := results[ip]
				if !ok {
					results[ip] = mdnsResult{name: name, services: []string{service}}
					continue
				}
				existing.services = append(existing.services, service)
				if len(name) > len(existing.name) {
					existing.name = name
				}
				results[ip] = existing
			}
		}()

		params := mdns.DefaultParams(service)
		params.Timeout = timeout
		params.Entries = entries
		params.DisableIPv6 = true

		if err := mdns.Query(params); err != nil {
			logger.Debug("mdns query failed", zap.String("service", service), zap.Error(err))
		}
		close(entries)
		<-done

		if ctx.Err() != nil {
			break
		}
	}

	return results
}

// mdnsEntryName picks a display name for an entry using TXT record keys
// "fn"/"n"/"name" first (friendly name, as Chromecast and AirPlay both
// advertise), then the DNS-SD instance name (if nonempty and distinct from
// the hostname), then the hostname itself.
func mdnsEntryName(entry *mdns.ServiceEntry) string {
	for _, field := range entry.InfoFields {
		if name, ok := mdnsTXTValue(field, "fn"); ok {
			return name
		}
	}
	for _, field := range entry.InfoFields {
		if name, ok := mdnsTXTValue(field, "n"); ok {
			return name
		}
	}
	for _, field := range entry.InfoFields {
		if name, ok := mdnsTXTValue(field, "name"); ok {
			return name
		}
	}

	hostname := strings.TrimSuffix(entry.Host, ".")
	if entry.Name != "" {
		if instance := mdnsInstanceName(entry.Name); instance != "" && instance != hostname {
			return instance
		}
	}
	return hostname
}

func mdnsTXTValue(field, key string) (string, bool) {
	prefix := key + "="
	if strings.HasPrefix(field, prefix) {
		return strings.TrimPrefix(field, prefix), true
	}
	return "", false
}

// mdnsInstanceName extracts the instance label from a DNS-SD service
// instance name of the form "Instance Name._service._tcp.local.".
func mdnsInstanceName(full string) string {
	parts := strings.SplitN(full, "._", 2)
	return parts[0]
}
