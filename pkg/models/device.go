// Package models holds the data types shared by the scan pipeline, the
// store, and the report generator.
package models

import "time"

// DeviceType categorizes a device discovered on the local subnet.
type DeviceType string

const (
	DeviceTypeRouter       DeviceType = "router"
	DeviceTypeCamera       DeviceType = "camera"
	DeviceTypeSmartSpeaker DeviceType = "smart_speaker"
	DeviceTypeSmartTV      DeviceType = "smart_tv"
	DeviceTypeSmartPlug    DeviceType = "smart_plug"
	DeviceTypeGameConsole  DeviceType = "game_console"
	DeviceTypePrinter      DeviceType = "printer"
	DeviceTypeNAS          DeviceType = "nas"
	DeviceTypeComputer     DeviceType = "computer"
	DeviceTypeSmartphone   DeviceType = "smartphone"
	DeviceTypeUnknown      DeviceType = "unknown"
)

// Device is a single host discovered and assessed during a scan.
type Device struct {
	ID            string          `json:"id"`
	IP            string          `json:"ip"`
	MACAddress    string          `json:"mac_address,omitempty"`
	Manufacturer  string          `json:"manufacturer,omitempty"`
	Hostname      string          `json:"hostname,omitempty"` // DNS-PTR first, then mDNS, then NBNS
	Name          string          `json:"name,omitempty"`     // mDNS > NBNS > SSDP > DNS-PTR > "<vendor> device" fallback
	DeviceType    DeviceType      `json:"device_type"`
	DiscoveredVia []string        `json:"discovered_via,omitempty"`
	OpenPorts     []Port          `json:"open_ports,omitempty"`
	Issues        []SecurityIssue `json:"issues,omitempty"`
	SecurityScore int             `json:"security_score"`
	SecurityLevel SecurityLevel   `json:"security_level"`
	LastSeen      time.Time       `json:"last_seen"`
}

// Port is a single TCP port found open during the port-probe phase.
type Port struct {
	Number   int    `json:"number"`
	Protocol string `json:"protocol"` // always "tcp": only TCP connect probes are performed
	Service  string `json:"service,omitempty"`
	Version  string `json:"version,omitempty"` // left blank: no banner/version detection is performed
	IsSecure bool   `json:"is_secure"`
}
