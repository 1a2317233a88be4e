package recon

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
)

// nbnsRequest is the NetBIOS Name Service Node Status query: a wildcard
// name lookup addressed to "*" (first-level encoded), asking for the
// NBSTAT record. There is no Go package in the ecosystem for this wire
// format, so it's hand-rolled against RFC 1002 §4.2.
//
//	Header (12 bytes): transaction ID, flags, qdcount=1, an/ns/arcount=0
//	Question: encoded name (34 bytes) + NBSTAT qtype (2) + IN qclass (2)
const (
	nbnsPort       = 137
	nbnsQTypeNBSTAT = 0x0021
	nbnsQClassIN    = 0x0001
)

// NBNSQuerier queries NetBIOS Name Service Node Status on UDP/137.
type NBNSQuerier struct {
	timeout time.Duration
	logger  *zap.Logger
}

// NewNBNSQuerier creates an NBNSQuerier.
func NewNBNSQuerier(timeout time.Duration, logger *zap.Logger) *NBNSQuerier {
	return &NBNSQuerier{timeout: timeout, logger: logger}
}

// Query sends a Node Status request to ip and returns the first unique
// (non-group) NetBIOS name in the response, trimmed of padding. Returns
// "" if the host doesn't answer or the response can't be parsed.
func (q *NBNSQuerier) Query(ctx context.Context, ip string) string {
	conn, err := net.Dial("udp", fmt.Sprintf("%s:%d", ip, nbnsPort))
	if err != nil {
		q.logger.Debug("nbns dial failed", zap.String("ip", ip), zap.Error(err))
		return ""
	}
	defer conn.Close()

	deadline := time.Now().Add(q.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return ""
	}

	req := buildNBNSRequest(ip)
	if _, err := conn.Write(req); err != nil {
		q.logger.Debug("nbns write failed", zap.String("ip", ip), zap.Error(err))
		return ""
	}

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	if err != nil {
		return ""
	}

	name, err := parseNBNSResponse(buf[:n])
	if err != nil {
		q.logger.Debug("nbns parse failed", zap.String("ip", ip), zap.Error(err))
		return ""
	}
	return name
}

// buildNBNSRequest builds the 50-byte wildcard Node Status query. The
// transaction ID is derived from the target IP so concurrent queries
// against different hosts don't collide.
func buildNBNSRequest(ip string) []byte {
	buf := make([]byte, 50)

	binary.BigEndian.PutUint16(buf[0:2], nbnsTransactionID(ip))
	binary.BigEndian.PutUint16(buf[2:4], 0x0000) // flags: standard query
	binary.BigEndian.PutUint16(buf[4:6], 0x0001) // qdcount
	binary.BigEndian.PutUint16(buf[6:8], 0x0000) // ancount
	binary.BigEndian.PutUint16(buf[8:10], 0x0000) // nscount
	binary.BigEndian.PutUint16(buf[10:12], 0x0000) // arcount

	// Question name: length-prefixed first-level-encoded "*" padded to 16
	// bytes, then null-encoded to 32 ASCII bytes ("CKAAAA...A").
	buf[12] = 0x20 // name length
	encoded := encodeNBNSName("*")
	copy(buf[13:13+32], encoded)
	buf[45] = 0x00 // name terminator

	binary.BigEndian.PutUint16(buf[46:48], nbnsQTypeNBSTAT)
	binary.BigEndian.PutUint16(buf[48:50], nbnsQClassIN)

	return buf
}

// nbnsTransactionID derives a pseudo-random but deterministic transaction
// ID from the target IP by summing its octets and XORing with a fixed
// salt, matching the scheme used by the reference scanner this protocol
// was ported from.
func nbnsTransactionID(ip string) uint16 {
	addr := net.ParseIP(ip).To4()
	var sum int
	if addr != nil {
		for _, b := range addr {
			sum += int(b)
		}
	}
	return uint16(sum) ^ 0x1234
}

// encodeNBNSName applies RFC 1002 first-level encoding: each of the 16
// padded name bytes is split into two nibbles, each nibble added to 'A',
// producing 32 ASCII bytes.
func encodeNBNSName(name string) []byte {
	padded := make([]byte, 16)
	copy(padded, name)
	for i := len(name); i < 16; i++ {
		padded[i] = 0x00
	}

	encoded := make([]byte, 32)
	for i, b := range padded {
		encoded[i*2] = 'A' + (b >> 4)
		encoded[i*2+1] = 'A' + (b & 0x0F)
	}
	return encoded
}

// parseNBNSResponse extracts the first unique NetBIOS name from a Node
// Status response. Responses shorter than 57 bytes (12-byte header +
// minimal question/answer) can't hold a name table and are rejected.
func parseNBNSResponse(data []byte) (string, error) {
	if len(data) < 57 {
		return "", fmt.Errorf("nbns response too short: %d bytes", len(data))
	}

	// Skip the 12-byte header and the echoed question name.
	offset := 12
	nameLen, consumed, err := decodeDNSName(data, offset)
	if err != nil {
		return "", err
	}
	offset += consumed
	_ = nameLen

	// Skip TYPE(2) + CLASS(2) + TTL(4) + RDLENGTH(2) = 10 bytes.
	offset += 10
	if offset >= len(data) {
		return "", fmt.Errorf("nbns response truncated before name count")
	}

	numNames := int(data[offset])
	offset++

	const entrySize = 18 // 15-byte name + 1-byte suffix + 2-byte flags
	for i := 0; i < numNames; i++ {
		start := offset + i*entrySize
		end := start + entrySize
		if end > len(data) {
			break
		}
		entry := data[start:end]
		flags := binary.BigEndian.Uint16(entry[16:18])
		if flags&0x8000 != 0 {
			continue // group name, not unique
		}
		name := strings.TrimRight(string(entry[0:15]), " \x00")
		if name != "" {
			return name, nil
		}
	}

	return "", nil
}

// decodeDNSName decodes a DNS-style name starting at offset: either a
// compression pointer (top two bits set) or a sequence of length-prefixed
// labels terminated by a zero byte. Returns the number of bytes consumed
// from offset.
func decodeDNSName(data []byte, offset int) (string, int, error) {
	if offset >= len(data) {
		return "", 0, fmt.Errorf("name offset out of range")
	}

	if data[offset]&0xC0 == 0xC0 {
		if offset+2 > len(data) {
			return "", 0, fmt.Errorf("truncated name pointer")
		}
		return "", 2, nil
	}

	var labels []string
	pos := offset
	for pos < len(data) && data[pos] != 0 {
		l := int(data[pos])
		pos++
		if pos+l > len(data) {
			return "", 0, fmt.Errorf("truncated name label")
		}
		labels = append(labels, string(data[pos:pos+l]))
		pos += l
	}
	pos++ // consume the terminating zero byte
	return strings.Join(labels, "."), pos - offset, nil
}
