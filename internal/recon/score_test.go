package recon

import (
	"testing"

	"github.com/lanwarden/lanwarden/pkg/models"
)

func TestScoreWorkedExample(t *testing.T) {
	// One High issue (-25) plus two insecure open ports (-5 each): 100-25-5-5=65 -> Warning.
	issues := []models.SecurityIssue{{Severity: models.SeverityHigh}}
	ports := []models.Port{
		{Number: 80, IsSecure: false},
		{Number: 21, IsSecure: false},
		{Number: 443, IsSecure: true},
	}

	score, level := Score(models.ScanLevelDeep, issues, ports)
	if score != 65 {
		t.Fatalf("Score() = %d, want 65", score)
	}
	if level != models.SecurityLevelWarning {
		t.Fatalf("SecurityLevel = %q, want warning", level)
	}
}

func TestScoreClampsToZero(t *testing.T) {
	issues := []models.SecurityIssue{
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityCritical},
		{Severity: models.SeverityHigh},
	}
	score, level := Score(models.ScanLevelDeep, issues, nil)
	if score != 0 {
		t.Fatalf("Score() = %d, want clamped 0", score)
	}
	if level != models.SecurityLevelDanger {
		t.Fatalf("SecurityLevel = %q, want danger", level)
	}
}

func TestScoreBasicLevelIsAlwaysUnknown(t *testing.T) {
	score, level := Score(models.ScanLevelBasic, nil, nil)
	if score != 100 {
		t.Fatalf("Score() = %d, want 100 (no issues synthesized at Basic)", score)
	}
	if level != models.SecurityLevelUnknown {
		t.Fatalf("SecurityLevel = %q, want unknown for Basic scans", level)
	}
}

func TestSynthesizeIssues(t *testing.T) {
	ports := []models.Port{{Number: 23}, {Number: 1900}}
	issues := SynthesizeIssues(ports)
	if len(issues) != 2 {
		t.Fatalf("SynthesizeIssues() returned %d issues, want 2: %+v", len(issues), issues)
	}

	ids := map[string]bool{}
	for _, i := range issues {
		ids[i.ID] = true
	}
	if !ids["telnet-open"] || !ids["upnp-enabled"] {
		t.Errorf("expected telnet-open and upnp-enabled issues, got %+v", ids)
	}
}
