package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const domainLookupTimeout = 3 * time.Second

// EmailDomainResolves reports whether the address domain has an MX or A
// record. Lookups are bounded by domainLookupTimeout.
func EmailDomainResolves(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))

	ctx, cancel := context.WithTimeout(ctx, domainLookupTimeout)
	defer cancel()

	r := net.DefaultResolver
	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
