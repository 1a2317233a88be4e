package recon

import (
	"testing"

	"github.com/lanwarden/lanwarden/pkg/models"
)

func TestClassifyDevice(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		devName  string
		expected models.DeviceType
	}{
		{"iphone by name", "", "Johns-iPhone", models.DeviceTypeSmartphone},
		{"macbook by name", "", "Janes-MacBook-Pro", models.DeviceTypeComputer},
		{"tv by name", "", "Living-Room-TV", models.DeviceTypeSmartTV},
		{"router vendor", "TP-LINK TECHNOLOGIES CO.,LTD.", "", models.DeviceTypeRouter},
		{"camera vendor", "Hangzhou Hikvision Digital Technology", "", models.DeviceTypeCamera},
		{"speaker vendor", "Sonos, Inc.", "", models.DeviceTypeSmartSpeaker},
		{"smartphone vendor", "Samsung Electronics Co.,Ltd", "", models.DeviceTypeSmartphone},
		{"smart tv vendor", "LG Electronics", "", models.DeviceTypeSmartTV},
		{"game console vendor", "Nintendo Co.,Ltd", "", models.DeviceTypeGameConsole},
		{"apple fallback", "Apple, Inc.", "", models.DeviceTypeSmartphone},
		{"google fallback", "Google, Inc.", "", models.DeviceTypeSmartSpeaker},
		{"amazon fallback", "Amazon Technologies Inc.", "", models.DeviceTypeSmartSpeaker},
		{"sony fallback", "Sony Corporation", "", models.DeviceTypeSmartTV},
		{"raspberry pi fallback, no name match", "Raspberry Pi Foundation", "", models.DeviceTypeSmartPlug},
		{"intel fallback", "Intel Corporate", "", models.DeviceTypeComputer},
		{"nothing matches", "Some Unknown Vendor Ltd", "", models.DeviceTypeUnknown},
		{"name pattern wins over vendor", "Hangzhou Hikvision Digital Technology", "Bobs-iPhone", models.DeviceTypeSmartphone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyDevice(tt.vendor, tt.devName)
			if got != tt.expected {
				t.Errorf("ClassifyDevice(%q, %q) = %q, want %q", tt.vendor, tt.devName, got, tt.expected)
			}
		})
	}
}

func TestRefineFromServices(t *testing.T) {
	tests := []struct {
		name     string
		in       models.DeviceType
		ports    []models.Port
		expected models.DeviceType
	}{
		{"rtsp promotes unknown to camera", models.DeviceTypeUnknown, []models.Port{{Number: 554}}, models.DeviceTypeCamera},
		{"ipp promotes unknown to printer", models.DeviceTypeUnknown, []models.Port{{Number: 631}}, models.DeviceTypePrinter},
		{"mqtt leaves unknown alone", models.DeviceTypeUnknown, []models.Port{{Number: 1883}}, models.DeviceTypeUnknown},
		{"already classified is untouched", models.DeviceTypeRouter, []models.Port{{Number: 554}}, models.DeviceTypeRouter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RefineFromServices(tt.in, tt.ports)
			if got != tt.expected {
				t.Errorf("RefineFromServices() = %q, want %q", got, tt.expected)
			}
		})
	}
}
