package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lanwarden/lanwarden/pkg/models"
)

func sampleResult() *models.ScanResult {
	return &models.ScanResult{
		ID:           "scan-1",
		Timestamp:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Subnet:       "192.168.1.0/24",
		Level:        models.ScanLevelDeep,
		AverageScore: 72.5,
		Devices: []models.Device{
			{
				IP:            "192.168.1.10",
				Name:          "Living Room Chromecast",
				MACAddress:    "AA:BB:CC:DD:EE:FF",
				Manufacturer:  "Google Inc.",
				DeviceType:    models.DeviceTypeSmartSpeaker,
				OpenPorts:     []models.Port{{Number: 8008, Service: "HTTP (alt)"}},
				SecurityScore: 90,
				SecurityLevel: models.SecurityLevelSafe,
			},
			{
				IP:            "192.168.1.20",
				DeviceType:    models.DeviceTypeCamera,
				OpenPorts:     []models.Port{{Number: 23, Service: "Telnet"}},
				Issues:        []models.SecurityIssue{{ID: "telnet-open", Title: "Telnetポートが開放されています", Description: "..."}},
				SecurityScore: 55,
				SecurityLevel: models.SecurityLevelWarning,
			},
		},
	}
}

func TestGenerateText(t *testing.T) {
	out, err := Generate(sampleResult(), FormatText)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, want := range []string{"192.168.1.0/24", "192.168.1.10", "192.168.1.20", "Telnetポートが開放されています"} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q:\n%s", want, out)
		}
	}
}

func TestGenerateHTML(t *testing.T) {
	out, err := Generate(sampleResult(), FormatHTML)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(out, "<table") {
		t.Errorf("HTML report missing device table:\n%s", out)
	}
	if !strings.Contains(out, "192.168.1.10") {
		t.Errorf("HTML report missing device row:\n%s", out)
	}
}

func TestGenerateJSON(t *testing.T) {
	out, err := Generate(sampleResult(), FormatJSON)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var parsed jsonReport
	if err := json.Unmarshal([]byte(out), &parsed); err != nil {
		t.Fatalf("unmarshal report: %v", err)
	}
	if parsed.DeviceCount != 2 {
		t.Errorf("device_count = %d, want 2", parsed.DeviceCount)
	}
	if parsed.AverageScore != 72.5 {
		t.Errorf("average_score = %v, want 72.5", parsed.AverageScore)
	}
}

func TestGenerateUnknownFormat(t *testing.T) {
	if _, err := Generate(sampleResult(), Format("bogus")); err == nil {
		t.Error("expected error for unknown format")
	}
}
