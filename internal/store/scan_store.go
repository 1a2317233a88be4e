package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lanwarden/lanwarden/pkg/models"
)

// scanMigrations creates the scans/devices schema. Device fields that are
// themselves slices (open ports, issues, discovered-via tags) are stored
// as JSON blobs rather than normalized tables -- a scan result is written
// once and read back whole, so there's no query that needs to reach
// inside them.
var scanMigrations = []Migration{
	{
		Version:     1,
		Description: "create scans and devices tables",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS scans (
					id            TEXT PRIMARY KEY,
					timestamp     DATETIME NOT NULL,
					subnet        TEXT NOT NULL,
					level         INTEGER NOT NULL,
					device_count  INTEGER NOT NULL,
					average_score REAL NOT NULL
				)
			`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS devices (
					id             TEXT PRIMARY KEY,
					scan_id        TEXT NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
					ip             TEXT NOT NULL,
					mac_address    TEXT,
					manufacturer   TEXT,
					hostname       TEXT,
					name           TEXT,
					device_type    TEXT NOT NULL,
					discovered_via TEXT NOT NULL DEFAULT '[]',
					open_ports     TEXT NOT NULL DEFAULT '[]',
					issues         TEXT NOT NULL DEFAULT '[]',
					security_score INTEGER NOT NULL,
					security_level TEXT NOT NULL,
					last_seen      DATETIME NOT NULL
				)
			`)
			if err != nil {
				return err
			}
			_, err = tx.Exec(`CREATE INDEX IF NOT EXISTS idx_devices_scan_id ON devices(scan_id)`)
			return err
		},
	},
}

// ScanStore persists scan results on top of a SQLiteStore.
type ScanStore struct {
	db *SQLiteStore
}

// NewScanStore runs the scan/device schema migration and returns a
// ScanStore ready for use.
func NewScanStore(ctx context.Context, db *SQLiteStore) (*ScanStore, error) {
	if err := db.Migrate(ctx, "scan", scanMigrations); err != nil {
		return nil, fmt.Errorf("migrate scan schema: %w", err)
	}
	return &ScanStore{db: db}, nil
}

// SaveScan writes a completed scan and all its devices in one transaction.
func (s *ScanStore) SaveScan(ctx context.Context, result *models.ScanResult) error {
	return s.db.Tx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO scans (id, timestamp, subnet, level, device_count, average_score)
			VALUES (?, ?, ?, ?, ?, ?)
		`, result.ID, result.Timestamp, result.Subnet, result.Level, len(result.Devices), result.AverageScore)
		if err != nil {
			return fmt.Errorf("insert scan: %w", err)
		}

		for _, d := range result.Devices {
			if err := insertDevice(ctx, tx, result.ID, d); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertDevice(ctx context.Context, tx *sql.Tx, scanID string, d models.Device) error {
	discoveredVia, err := json.Marshal(d.DiscoveredVia)
	if err != nil {
		return fmt.Errorf("marshal discovered_via: %w", err)
	}
	openPorts, err := json.Marshal(d.OpenPorts)
	if err != nil {
		return fmt.Errorf("marshal open_ports: %w", err)
	}
	issues, err := json.Marshal(d.Issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO devices (
			id, scan_id, ip, mac_address, manufacturer, hostname, name,
			device_type, discovered_via, open_ports, issues,
			security_score, security_level, last_seen
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		d.ID, scanID, d.IP, d.MACAddress, d.Manufacturer, d.Hostname, d.Name,
		string(d.DeviceType), string(discoveredVia), string(openPorts), string(issues),
		d.SecurityScore, string(d.SecurityLevel), d.LastSeen,
	)
	if err != nil {
		return fmt.Errorf("insert device %s: %w", d.IP, err)
	}
	return nil
}

// ListScans returns up to 50 most recent scans, newest first, without
// their devices (use GetScanDevices to load those on demand).
func (s *ScanStore) ListScans(ctx context.Context) ([]models.ScanResult, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT id, timestamp, subnet, level, average_score
		FROM scans
		ORDER BY timestamp DESC
		LIMIT 50
	`)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	var scans []models.ScanResult
	for rows.Next() {
		var r models.ScanResult
		if err := rows.Scan(&r.ID, &r.Timestamp, &r.Subnet, &r.Level, &r.AverageScore); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		scans = append(scans, r)
	}
	return scans, rows.Err()
}

// GetScanDevices loads every device recorded for a scan, ordered by IP.
func (s *ScanStore) GetScanDevices(ctx context.Context, scanID string) ([]models.Device, error) {
	rows, err := s.db.DB().QueryContext(ctx, `
		SELECT id, ip, mac_address, manufacturer, hostname, name, device_type,
		       discovered_via, open_ports, issues, security_score, security_level, last_seen
		FROM devices
		WHERE scan_id = ?
		ORDER BY ip
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("query scan devices: %w", err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		d, err := scanDeviceRow(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// GetDevice loads a single device by ID.
func (s *ScanStore) GetDevice(ctx context.Context, deviceID string) (*models.Device, error) {
	row := s.db.DB().QueryRowContext(ctx, `
		SELECT id, ip, mac_address, manufacturer, hostname, name, device_type,
		       discovered_via, open_ports, issues, security_score, security_level, last_seen
		FROM devices
		WHERE id = ?
	`, deviceID)

	d, err := scanDeviceRow(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("device %s: %w", deviceID, err)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// rowScanner is the subset of *sql.Row / *sql.Rows used by scanDeviceRow.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDeviceRow(row rowScanner) (models.Device, error) {
	var (
		d                                     models.Device
		deviceType, securityLevel             string
		discoveredVia, openPorts, issuesBlob string
	)
	err := row.Scan(
		&d.ID, &d.IP, &d.MACAddress, &d.Manufacturer, &d.Hostname, &d.Name, &deviceType,
		&discoveredVia, &openPorts, &issuesBlob, &d.SecurityScore, &securityLevel, &d.LastSeen,
	)
	if err != nil {
		return d, fmt.Errorf("scan device row: %w", err)
	}
	d.DeviceType = models.DeviceType(deviceType)
	d.SecurityLevel = models.SecurityLevel(securityLevel)

	if err := json.Unmarshal([]byte(discoveredVia), &d.DiscoveredVia); err != nil {
		return d, fmt.Errorf("unmarshal discovered_via: %w", err)
	}
	if err := json.Unmarshal([]byte(openPorts), &d.OpenPorts); err != nil {
		return d, fmt.Errorf("unmarshal open_ports: %w", err)
	}
	if err := json.Unmarshal([]byte(issuesBlob), &d.Issues); err != nil {
		return d, fmt.Errorf("unmarshal issues: %w", err)
	}
	return d, nil
}
