package recon

import (
	"strings"

	"github.com/lanwarden/lanwarden/pkg/models"
)

// Name patterns checked before any vendor signal, since a resolved
// hostname is the most reliable signal when one is available.
var (
	smartphoneNamePatterns = []string{
		"iphone", "ipad", "galaxy", "pixel", "android",
		"redmi", "xperia", "huawei", "oppo", "oneplus",
		"aquos", "arrows", "motorola", "moto ",
		"sm-", "gt-", "sch-", "sgh-",
	}
	computerNamePatterns = []string{
		"macbook", "imac", "mac-mini", "desktop", "laptop",
		"surface", "thinkpad", "dell", "hp-", "lenovo",
	}
	tvNamePatterns = []string{
		"tv", "テレビ", "bravia", "viera", "regza", "aquos",
	}
)

// Vendor substring tables checked in priority order after name patterns
// fail to classify the device.
var (
	routerVendors       = []string{"Buffalo", "TP-LINK", "Netgear", "NETGEAR", "ASUS", "Elecom", "NEC", "Yamaha", "I-O DATA", "Planex", "PLANEX", "ELECOM", "Corega", "Arcadyan"}
	cameraVendors       = []string{"Hikvision", "Dahua", "Axis", "Panasonic", "Wyze", "Ring"}
	smartSpeakerVendors = []string{"Sonos", "Bose"}
	smartphoneVendors   = []string{"Samsung", "Xiaomi", "Huawei", "OPPO", "OnePlus", "Motorola"}
	smartTVVendors      = []string{"LG Electronics"}
	gameConsoleVendors  = []string{"Nintendo", "Microsoft"}
	iotVendors          = []string{"Raspberry Pi", "Espressif"}
)

// ClassifyDevice runs the fingerprint priority ladder: name patterns
// first, then vendor substring tables in a fixed order, then a handful
// of single-vendor heuristic fallbacks. It is deterministic and
// order-sensitive by design -- unlike a weighted-signal classifier, the
// first rule that matches wins outright.
func ClassifyDevice(vendor, name string) models.DeviceType {
	if name != "" {
		lower := strings.ToLower(name)

		if containsAny(lower, smartphoneNamePatterns) {
			return models.DeviceTypeSmartphone
		}
		if containsAny(lower, computerNamePatterns) {
			return models.DeviceTypeComputer
		}
		if containsAny(lower, tvNamePatterns) {
			return models.DeviceTypeSmartTV
		}
	}

	switch {
	case vendorContainsAny(vendor, routerVendors):
		return models.DeviceTypeRouter
	case vendorContainsAny(vendor, cameraVendors):
		return models.DeviceTypeCamera
	case vendorContainsAny(vendor, smartSpeakerVendors):
		return models.DeviceTypeSmartSpeaker
	case vendorContainsAny(vendor, smartphoneVendors):
		return models.DeviceTypeSmartphone
	case vendorContainsAny(vendor, smartTVVendors):
		return models.DeviceTypeSmartTV
	case vendorContainsAny(vendor, gameConsoleVendors):
		return models.DeviceTypeGameConsole
	}

	// Single-vendor heuristics: these manufacturers ship products across
	// several device types, so the fallback is "most common on a home
	// network" rather than a deduction from the vendor name alone.
	switch {
	case strings.Contains(vendor, "Apple"):
		return models.DeviceTypeSmartphone
	case strings.Contains(vendor, "Google"):
		return models.DeviceTypeSmartSpeaker
	case strings.Contains(vendor, "Amazon"):
		return models.DeviceTypeSmartSpeaker
	case strings.Contains(vendor, "Sony"):
		return models.DeviceTypeSmartTV
	case vendorContainsAny(vendor, iotVendors):
		return models.DeviceTypeSmartPlug
	case strings.Contains(vendor, "Intel"):
		return models.DeviceTypeComputer
	}

	return models.DeviceTypeUnknown
}

// RefineFromServices upgrades an Unknown classification using observed
// open ports, applied after the port-probe phase. It never overrides a
// type the name/vendor ladder already settled on.
func RefineFromServices(deviceType models.DeviceType, openPorts []models.Port) models.DeviceType {
	if deviceType != models.DeviceTypeUnknown {
		return deviceType
	}
	for _, p := range openPorts {
		switch p.Number {
		case 554: // RTSP
			return models.DeviceTypeCamera
		case 631: // IPP
			return models.DeviceTypePrinter
		}
	}
	return deviceType
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func vendorContainsAny(vendor string, vendors []string) bool {
	if vendor == "" {
		return false
	}
	for _, v := range vendors {
		if strings.Contains(vendor, v) {
			return true
		}
	}
	return false
}
