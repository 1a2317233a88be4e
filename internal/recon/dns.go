package recon

import (
	"context"
	"net"
	"strings"
	"time"
)

// reverseLookup resolves ip to a hostname via PTR lookup, trimming the
// trailing dot DNS libraries leave on FQDNs. Returns "" on any failure;
// callers treat name resolution as best-effort and never fail the scan
// because of it.
func reverseLookup(ctx context.Context, ip string, timeout time.Duration) string {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := net.DefaultResolver.LookupAddr(ctx, ip)
	if err != nil || len(names) == 0 {
		return ""
	}
	return strings.TrimSuffix(names[0], ".")
}
