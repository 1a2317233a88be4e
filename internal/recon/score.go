package recon

import "github.com/lanwarden/lanwarden/pkg/models"

// severityDeductions maps issue severity to the score points it costs.
var severityDeductions = map[models.IssueSeverity]int{
	models.SeverityCritical: 40,
	models.SeverityHigh:     25,
	models.SeverityMedium:   15,
	models.SeverityLow:      5,
	models.SeverityInfo:     0,
}

const insecurePortDeduction = 5

// SynthesizeIssues inspects a device's open ports and appends the
// security issues the Level 3 deep scan checks for. Default-credential
// detection is a stub: probing real device logins falls outside this
// pipeline's scope, so it never fires, mirroring the upstream tool this
// behavior was ported from.
func SynthesizeIssues(openPorts []models.Port) []models.SecurityIssue {
	var issues []models.SecurityIssue

	if hasDefaultPassword() {
		issues = append(issues, models.SecurityIssue{
			ID:          "default-password",
			Severity:    models.SeverityCritical,
			Title:       "デフォルトパスワードが使用されています",
			Description: "このデバイスは工場出荷時のパスワードが使用されています。悪意のある第三者に不正アクセスされる危険があります。",
			Remediation: "デバイスの管理画面にログインし、パスワードを強力なものに変更してください。",
		})
	}

	if hasOpenPort(openPorts, 23) {
		issues = append(issues, models.SecurityIssue{
			ID:          "telnet-open",
			Severity:    models.SeverityHigh,
			Title:       "Telnetポートが開放されています",
			Description: "Telnetは暗号化されていない通信プロトコルです。パスワードが平文で送信されるため、盗聴される危険があります。",
			Remediation: "Telnetを無効化し、SSHを使用するか、デバイスの管理画面からリモート管理を無効にしてください。",
		})
	}

	if hasOpenPort(openPorts, 1900) {
		issues = append(issues, models.SecurityIssue{
			ID:          "upnp-enabled",
			Severity:    models.SeverityMedium,
			Title:       "UPnPが有効です",
			Description: "UPnPは自動的にポートを開放する機能です。悪意のあるソフトウェアに悪用される可能性があります。",
			Remediation: "ルーターの管理画面からUPnPを無効にすることを検討してください。",
		})
	}

	return issues
}

// hasDefaultPassword would check discovered devices against a table of
// vendor default credentials. That requires authenticated probing, which
// is out of scope for this scanner, so it always reports false.
func hasDefaultPassword() bool {
	return false
}

func hasOpenPort(ports []models.Port, number int) bool {
	for _, p := range ports {
		if p.Number == number {
			return true
		}
	}
	return false
}

// Score computes a device's security score and bucket from its issues and
// open ports. level determines the bucket: a Basic scan never ran a port
// probe, so its result is always SecurityLevelUnknown regardless of the
// (unchanged) numeric score.
func Score(level models.ScanLevel, issues []models.SecurityIssue, openPorts []models.Port) (int, models.SecurityLevel) {
	score := 100
	for _, issue := range issues {
		score -= severityDeductions[issue.Severity]
	}
	for _, p := range openPorts {
		if !p.IsSecure {
			score -= insecurePortDeduction
		}
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	if level < models.ScanLevelStandard {
		return score, models.SecurityLevelUnknown
	}

	switch {
	case score >= 80:
		return score, models.SecurityLevelSafe
	case score >= 50:
		return score, models.SecurityLevelWarning
	default:
		return score, models.SecurityLevelDanger
	}
}
