package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lanwarden/lanwarden/pkg/models"
)

func TestWriteTextfile(t *testing.T) {
	result := &models.ScanResult{
		Timestamp:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		AverageScore: 77.5,
		Devices: []models.Device{
			{IP: "192.168.1.2", SecurityLevel: models.SecurityLevelDanger},
			{IP: "192.168.1.3", SecurityLevel: models.SecurityLevelSafe},
		},
	}

	c := NewCollector()
	c.Observe(result, 12.5)

	path := filepath.Join(t.TempDir(), "lanwarden.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		"lanwarden_devices_discovered 2",
		"lanwarden_average_security_score 77.5",
		"lanwarden_danger_devices 1",
		"lanwarden_scan_duration_seconds 12.5",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics textfile missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextfileIsAtomic(t *testing.T) {
	c := NewCollector()
	c.Observe(&models.ScanResult{}, 0)

	path := filepath.Join(t.TempDir(), "lanwarden.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file was left behind after a successful write")
	}
}
