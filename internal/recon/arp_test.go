package recon

import "testing"

func TestParseLinuxARPOutput(t *testing.T) {
	output := "IP address       HW type     Flags       HW address            Mask     Device\n" +
		"192.168.1.1      0x1         0x2         aa:bb:cc:dd:ee:ff     *        eth0\n"

	table := ParseARPOutput(output, "linux")
	if got := table["192.168.1.1"]; got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("table[192.168.1.1] = %q, want AA:BB:CC:DD:EE:FF", got)
	}
	if len(table) != 1 {
		t.Errorf("table has %d entries, want 1: %+v", len(table), table)
	}
}

func TestParseLinuxARPOutputSkipsIncompleteEntries(t *testing.T) {
	output := "IP address       HW type     Flags       HW address            Mask     Device\n" +
		"192.168.1.1      0x1         0x0         00:00:00:00:00:00     *        eth0\n"

	table := ParseARPOutput(output, "linux")
	if len(table) != 0 {
		t.Errorf("table has %d entries, want 0 (all-zero MAC must be skipped): %+v", len(table), table)
	}
}

func TestParseLinuxARPOutputSkipsMalformedLines(t *testing.T) {
	output := "IP address       HW type     Flags       HW address            Mask     Device\n" +
		"192.168.1.1 incomplete-line\n" +
		"192.168.1.2      0x1         0x2         aa:bb:cc:dd:ee:01     *        eth0\n"

	table := ParseARPOutput(output, "linux")
	if len(table) != 1 {
		t.Fatalf("table has %d entries, want 1: %+v", len(table), table)
	}
	if _, ok := table["192.168.1.1"]; ok {
		t.Error("malformed line with fewer than 6 fields should be skipped")
	}
	if got := table["192.168.1.2"]; got != "AA:BB:CC:DD:EE:01" {
		t.Errorf("table[192.168.1.2] = %q, want AA:BB:CC:DD:EE:01", got)
	}
}

func TestParseWindowsARPOutput(t *testing.T) {
	output := "Interface: 192.168.1.10 --- 0x3\n" +
		"  Internet Address      Physical Address      Type\n" +
		"  192.168.1.1           aa-bb-cc-dd-ee-ff     dynamic\n" +
		"  192.168.1.255         ff-ff-ff-ff-ff-ff     static\n"

	table := ParseARPOutput(output, "windows")
	if got := table["192.168.1.1"]; got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("table[192.168.1.1] = %q, want AA:BB:CC:DD:EE:FF", got)
	}
	if _, ok := table["192.168.1.255"]; ok {
		t.Error("broadcast MAC ff-ff-ff-ff-ff-ff should be skipped")
	}
}

func TestParseDarwinARPOutput(t *testing.T) {
	output := "host.local (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]\n" +
		"? (192.168.1.2) at (incomplete) on en0 ifscope [ethernet]\n"

	table := ParseARPOutput(output, "darwin")
	if got := table["192.168.1.1"]; got != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("table[192.168.1.1] = %q, want AA:BB:CC:DD:EE:FF", got)
	}
	if _, ok := table["192.168.1.2"]; ok {
		t.Error("(incomplete) entries should be skipped")
	}
}
