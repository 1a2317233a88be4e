package recon

import "strings"

// ouiEntry maps a MAC address prefix (first three octets) to the
// manufacturer that was assigned it. Ported from the static IEEE OUI
// table the reference scanner shipped, trimmed to the vendors the
// fingerprint ladder in fingerprint.go actually keys off of.
type ouiEntry struct {
	prefix string
	vendor string
}

var ouiTable = []ouiEntry{
	// Buffalo
	{"00:1A:2B", "Buffalo Inc."},
	{"00:26:AB", "Buffalo Inc."},
	{"AC:22:0B", "Buffalo Inc."},
	{"10:6F:3F", "Buffalo Inc."},
	// I-O DATA
	{"18:C2:BF", "I-O DATA DEVICE, INC."},
	{"00:A0:B0", "I-O DATA DEVICE, INC."},
	// TP-LINK
	{"40:8D:5C", "TP-LINK TECHNOLOGIES CO.,LTD."},
	{"50:C7:BF", "TP-LINK TECHNOLOGIES CO.,LTD."},
	{"FC:EC:DA", "TP-LINK TECHNOLOGIES CO.,LTD."},
	{"30:B5:C2", "TP-LINK TECHNOLOGIES CO.,LTD."},
	{"60:E3:27", "TP-LINK TECHNOLOGIES CO.,LTD."},
	{"B0:4E:26", "TP-LINK TECHNOLOGIES CO.,LTD."},
	// NETGEAR
	{"00:14:6C", "NETGEAR"},
	{"00:1F:33", "NETGEAR"},
	{"20:E5:2A", "NETGEAR"},
	{"44:94:FC", "NETGEAR"},
	{"6C:B0:CE", "NETGEAR"},
	{"B0:7F:B9", "NETGEAR"},
	{"C4:04:15", "NETGEAR"},
	// ASUS
	{"00:1A:92", "ASUSTek COMPUTER INC."},
	{"1C:87:2C", "ASUSTek COMPUTER INC."},
	{"2C:56:DC", "ASUSTek COMPUTER INC."},
	{"54:04:A6", "ASUSTek COMPUTER INC."},
	{"AC:9E:17", "ASUSTek COMPUTER INC."},
	{"D8:50:E6", "ASUSTek COMPUTER INC."},
	// Elecom
	{"00:1D:62", "ELECOM CO.,LTD."},
	{"74:03:BD", "ELECOM CO.,LTD."},
	{"C8:2E:47", "ELECOM CO.,LTD."},
	// Planex
	{"00:90:CC", "Planex Communications Inc."},
	{"00:22:CF", "PLANEX COMMUNICATIONS INC."},
	// Arcadyan
	{"BC:30:D9", "Arcadyan Technology Corporation"},
	// Google
	{"A4:77:33", "Google, Inc."},
	{"D4:F5:47", "Google, Inc."},
	{"F4:F5:D8", "Google, Inc."},
	{"54:60:09", "Google, Inc."},
	{"30:FD:38", "Google, Inc."},
	{"48:D6:D5", "Google, Inc."},
	{"E4:F0:42", "Google, Inc."},
	{"6C:AD:F8", "Google, Inc."},
	// Amazon
	{"44:65:0D", "Amazon Technologies Inc."},
	{"68:54:FD", "Amazon Technologies Inc."},
	{"A0:02:DC", "Amazon Technologies Inc."},
	{"FC:65:DE", "Amazon Technologies Inc."},
	{"40:B4:CD", "Amazon Technologies Inc."},
	{"74:C2:46", "Amazon Technologies Inc."},
	{"84:D6:D0", "Amazon Technologies Inc."},
	{"F0:F0:A4", "Amazon Technologies Inc."},
	// Apple
	{"00:1C:B3", "Apple, Inc."},
	{"28:CF:DA", "Apple, Inc."},
	{"3C:06:30", "Apple, Inc."},
	{"D0:03:4B", "Apple, Inc."},
	{"F0:18:98", "Apple, Inc."},
	{"A4:83:E7", "Apple, Inc."},
	{"DC:A4:CA", "Apple, Inc."},
	{"F0:D4:F6", "Apple, Inc."},
	{"A8:66:7F", "Apple, Inc."},
	{"14:7D:DA", "Apple, Inc."},
	// Samsung
	{"00:1A:8A", "Samsung Electronics Co.,Ltd"},
	{"00:21:19", "Samsung Electronics Co.,Ltd"},
	{"8C:F5:A3", "Samsung Electronics Co.,Ltd"},
	{"AC:5F:3E", "Samsung Electronics Co.,Ltd"},
	{"C0:97:27", "Samsung Electronics Co.,Ltd"},
	{"5C:3A:45", "Samsung Electronics Co.,Ltd"},
	// Xiaomi
	{"28:6C:07", "Xiaomi Communications Co Ltd"},
	{"64:CC:2E", "Xiaomi Communications Co Ltd"},
	{"7C:1D:D9", "Xiaomi Communications Co Ltd"},
	{"0C:1D:AF", "Xiaomi Communications Co Ltd"},
	// Huawei
	{"00:E0:FC", "Huawei Technologies Co.,Ltd"},
	{"04:F9:38", "Huawei Technologies Co.,Ltd"},
	{"20:F3:A3", "Huawei Technologies Co.,Ltd"},
	// Sony
	{"00:1F:E4", "Sony Corporation"},
	{"00:13:A9", "Sony Corporation"},
	{"00:24:BE", "Sony Corporation"},
	{"28:3F:69", "Sony Corporation"},
	// OPPO
	{"3C:77:E6", "OPPO Digital, Inc."},
	{"54:A0:50", "OPPO Digital, Inc."},
	// OnePlus
	{"94:65:2D", "OnePlus Technology (Shenzhen) Co., Ltd"},
	{"C0:EE:40", "OnePlus Technology (Shenzhen) Co., Ltd"},
	// Motorola
	{"00:04:56", "Motorola Mobility LLC"},
	{"68:C4:4D", "Motorola Mobility LLC"},
	// LG Electronics
	{"00:1C:62", "LG Electronics"},
	{"10:68:3F", "LG Electronics"},
	{"2C:54:CF", "LG Electronics"},
	// Hikvision
	{"C0:56:E3", "Hangzhou Hikvision Digital Technology"},
	{"44:19:B6", "Hangzhou Hikvision Digital Technology"},
	// Dahua
	{"3C:EF:8C", "Zhejiang Dahua Technology Co., Ltd."},
	{"A0:BD:CD", "Zhejiang Dahua Technology Co., Ltd."},
	// Panasonic
	{"00:0E:6B", "Panasonic Corporation"},
	{"00:1B:52", "Panasonic Corporation"},
	// Sonos
	{"00:0E:58", "Sonos, Inc."},
	{"34:7E:5C", "Sonos, Inc."},
	{"48:A6:B8", "Sonos, Inc."},
	// Bose
	{"04:52:C7", "Bose Corporation"},
	{"08:DF:1F", "Bose Corporation"},
	// Nintendo
	{"00:09:BF", "Nintendo Co.,Ltd"},
	{"00:17:AB", "Nintendo Co.,Ltd"},
	{"34:AF:2C", "Nintendo Co.,Ltd"},
	// Microsoft (Xbox, Surface)
	{"28:18:78", "Microsoft Corporation"},
	{"60:45:BD", "Microsoft Corporation"},
	{"7C:1E:52", "Microsoft Corporation"},
	// Intel
	{"00:1E:64", "Intel Corporate"},
	{"3C:97:0E", "Intel Corporate"},
	{"68:05:CA", "Intel Corporate"},
	// Raspberry Pi
	{"B8:27:EB", "Raspberry Pi Foundation"},
	{"DC:A6:32", "Raspberry Pi Foundation"},
	{"E4:5F:01", "Raspberry Pi Foundation"},
	// Espressif (ESP32/ESP8266)
	{"24:0A:C4", "Espressif Inc."},
	{"30:AE:A4", "Espressif Inc."},
	{"A4:CF:12", "Espressif Inc."},
	{"CC:50:E3", "Espressif Inc."},
}

// LookupVendor returns the manufacturer assigned the given MAC's OUI, or
// "" if the prefix isn't in the table. Matching normalizes to uppercase
// and compares only the first 8 characters ("AA:BB:CC").
func LookupVendor(mac string) string {
	if len(mac) < 8 {
		return ""
	}
	prefix := strings.ToUpper(mac)[:8]
	for _, e := range ouiTable {
		if e.prefix == prefix {
			return e.vendor
		}
	}
	return ""
}
