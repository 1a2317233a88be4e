package models

import "time"

// ScanLevel controls how deep a scan goes. Each level is a strict
// superset of the previous one's work.
type ScanLevel int

const (
	// ScanLevelBasic discovers hosts and resolves names only. No ports are
	// probed, so every device's SecurityLevel is SecurityLevelUnknown.
	ScanLevelBasic ScanLevel = 1
	// ScanLevelStandard adds the fixed-port-set TCP probe and device-type
	// refinement from observed services.
	ScanLevelStandard ScanLevel = 2
	// ScanLevelDeep adds security-issue synthesis on top of Standard.
	ScanLevelDeep ScanLevel = 3
)

// ScanResult is the top-level output of a completed scan, and the unit the
// store persists and the report package renders.
type ScanResult struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Subnet       string    `json:"subnet"`
	Level        ScanLevel `json:"level"`
	Devices      []Device  `json:"devices"`
	AverageScore float64   `json:"average_score"`
}

// ScanProgress reports pipeline progress to a caller-supplied sink.
// Progress is monotonically non-decreasing within a single scan.
type ScanProgress struct {
	Phase    string `json:"phase"`
	Progress int    `json:"progress"` // 0-100
	Message  string `json:"message"`
}

// ProgressFunc receives ScanProgress updates as a scan runs. Implementations
// must not block the scan for long; they're called from the scan goroutine.
type ProgressFunc func(ScanProgress)
