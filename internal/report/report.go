// Package report renders a completed scan result into the text, HTML or
// JSON forms a caller can print or save. Text and HTML output is
// Japanese-localized, matching the reference scanner's terminal and web UI.
package report

import (
	"encoding/json"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/lanwarden/lanwarden/pkg/models"
)

// Format selects the rendering for Generate.
type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
	FormatJSON Format = "json"
)

var deviceTypeLabelsJA = map[models.DeviceType]string{
	models.DeviceTypeRouter:       "ルーター",
	models.DeviceTypeCamera:       "カメラ",
	models.DeviceTypeSmartSpeaker: "スマートスピーカー",
	models.DeviceTypeSmartTV:      "スマートTV",
	models.DeviceTypeSmartPlug:    "スマートプラグ",
	models.DeviceTypeGameConsole:  "ゲーム機",
	models.DeviceTypePrinter:      "プリンター",
	models.DeviceTypeNAS:          "NAS",
	models.DeviceTypeComputer:     "コンピューター",
	models.DeviceTypeSmartphone:   "スマートフォン",
	models.DeviceTypeUnknown:      "不明",
}

var securityLevelLabelsJA = map[models.SecurityLevel]string{
	models.SecurityLevelSafe:    "安全",
	models.SecurityLevelWarning: "注意",
	models.SecurityLevelDanger:  "危険",
	models.SecurityLevelUnknown: "未評価",
}

// jsonReport is the exact shape Generate(..., FormatJSON) emits.
type jsonReport struct {
	GeneratedAt  time.Time      `json:"generated_at"`
	DeviceCount  int            `json:"device_count"`
	AverageScore float64        `json:"average_score"`
	Devices      []models.Device `json:"devices"`
}

// Generate renders result in the requested format.
func Generate(result *models.ScanResult, format Format) (string, error) {
	switch format {
	case FormatJSON:
		return generateJSON(result)
	case FormatHTML:
		return generateHTML(result), nil
	case FormatText, "":
		return generateText(result), nil
	default:
		return "", fmt.Errorf("unknown report format %q", format)
	}
}

func generateJSON(result *models.ScanResult) (string, error) {
	devices := append([]models.Device(nil), result.Devices...)
	sort.Slice(devices, func(i, j int) bool { return devices[i].IP < devices[j].IP })

	rep := jsonReport{
		GeneratedAt:  time.Now(),
		DeviceCount:  len(devices),
		AverageScore: result.AverageScore,
		Devices:      devices,
	}
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(b), nil
}

func generateText(result *models.ScanResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ネットワークスキャン結果\n")
	fmt.Fprintf(&b, "サブネット: %s\n", result.Subnet)
	fmt.Fprintf(&b, "実施日時: %s\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "検出デバイス数: %d\n", len(result.Devices))
	fmt.Fprintf(&b, "平均スコア: %.1f\n\n", result.AverageScore)

	for _, d := range sortedByIP(result.Devices) {
		writeTextDevice(&b, d)
	}

	return b.String()
}

func writeTextDevice(b *strings.Builder, d models.Device) {
	label := deviceName(d)
	fmt.Fprintf(b, "[%s] %s\n", d.IP, label)
	fmt.Fprintf(b, "  種別: %s\n", deviceTypeLabel(d.DeviceType))
	if d.MACAddress != "" {
		fmt.Fprintf(b, "  MACアドレス: %s\n", d.MACAddress)
	}
	if d.Manufacturer != "" {
		fmt.Fprintf(b, "  メーカー: %s\n", d.Manufacturer)
	}
	if len(d.OpenPorts) > 0 {
		ports := make([]string, len(d.OpenPorts))
		for i, p := range d.OpenPorts {
			ports[i] = fmt.Sprintf("%d/%s", p.Number, p.Service)
		}
		fmt.Fprintf(b, "  開放ポート: %s\n", strings.Join(ports, ", "))
	}
	fmt.Fprintf(b, "  セキュリティスコア: %d (%s)\n", d.SecurityScore, securityLevelLabel(d.SecurityLevel))
	for _, issue := range d.Issues {
		fmt.Fprintf(b, "  ⚠ %s: %s\n", issue.Title, issue.Description)
	}
	b.WriteString("\n")
}

func generateHTML(result *models.ScanResult) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"ja\"><head><meta charset=\"utf-8\">")
	b.WriteString("<title>ネットワークスキャン結果</title></head><body>\n")
	fmt.Fprintf(&b, "<h1>ネットワークスキャン結果</h1>\n")
	fmt.Fprintf(&b, "<p>サブネット: %s</p>\n", html.EscapeString(result.Subnet))
	fmt.Fprintf(&b, "<p>実施日時: %s</p>\n", result.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "<p>検出デバイス数: %d / 平均スコア: %.1f</p>\n", len(result.Devices), result.AverageScore)

	b.WriteString("<table border=\"1\" cellpadding=\"4\">\n")
	b.WriteString("<tr><th>IP</th><th>名前</th><th>種別</th><th>ポート</th><th>スコア</th><th>評価</th></tr>\n")
	for _, d := range sortedByIP(result.Devices) {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td></tr>\n",
			html.EscapeString(d.IP),
			html.EscapeString(deviceName(d)),
			html.EscapeString(deviceTypeLabel(d.DeviceType)),
			html.EscapeString(portSummary(d.OpenPorts)),
			d.SecurityScore,
			html.EscapeString(securityLevelLabel(d.SecurityLevel)),
		)
	}
	b.WriteString("</table>\n</body></html>\n")

	return b.String()
}

func sortedByIP(devices []models.Device) []models.Device {
	out := append([]models.Device(nil), devices...)
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })
	return out
}

func deviceName(d models.Device) string {
	if d.Name != "" {
		return d.Name
	}
	if d.Hostname != "" {
		return d.Hostname
	}
	return d.IP
}

func deviceTypeLabel(t models.DeviceType) string {
	if label, ok := deviceTypeLabelsJA[t]; ok {
		return label
	}
	return string(t)
}

func securityLevelLabel(l models.SecurityLevel) string {
	if label, ok := securityLevelLabelsJA[l]; ok {
		return label
	}
	return string(l)
}

func portSummary(ports []models.Port) string {
	if len(ports) == 0 {
		return "なし"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p.Number)
	}
	return strings.Join(parts, ", ")
}
