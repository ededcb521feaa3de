// Package platform classifies listing URLs into supported marketplaces.
package platform

import (
	"net/url"
	"strings"

	"github.com/autodeal-hq/go-pricer/internal/domain"
)

// matcher binds a platform to the host suffixes it serves. First match
// wins, so more specific entries go earlier in the table.
type matcher struct {
	platform domain.Platform
	hosts    []string
	// pathPrefix, when set, must also match the start of the URL path
	pathPrefix string
}

// matchers is evaluated in order; matching is case-insensitive and
// ignores protocol and a leading www prefix.
var matchers = []matcher{
	{platform: domain.PlatformDubizzle, hosts: []string{"dubizzle.com", "dubizzle.com.eg", "dubizzle.sa", "olx.com.eg"}},
	{platform: domain.PlatformOpenSooq, hosts: []string{"opensooq.com", "jo.opensooq.com", "sa.opensooq.com"}},
	{platform: domain.PlatformSyarah, hosts: []string{"syarah.com"}},
	{platform: domain.PlatformYallaMotor, hosts: []string{"yallamotor.com", "uae.yallamotor.com", "ksa.yallamotor.com", "egypt.yallamotor.com"}},
	{platform: domain.PlatformHatla2ee, hosts: []string{"hatla2ee.com"}},
	{platform: domain.PlatformAutoTrader, hosts: []string{"autotrader.com", "autotrader.co.uk"}},
	{platform: domain.PlatformCarsCom, hosts: []string{"cars.com"}},
	{platform: domain.PlatformCarGurus, hosts: []string{"cargurus.com", "cargurus.co.uk"}},
}

// Detect classifies a listing URL into a supported platform. It performs
// no network access and is deterministic: unknown domains always yield
// UnsupportedPlatformError.
func Detect(rawURL string) (domain.Platform, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return domain.PlatformUnsupported, domain.UnsupportedPlatformError{URL: rawURL}
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	u, err := url.Parse(trimmed)
	if err != nil || u.Host == "" {
		return domain.PlatformUnsupported, domain.UnsupportedPlatformError{URL: rawURL}
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	path := strings.ToLower(u.Path)

	for _, m := range matchers {
		for _, h := range m.hosts {
			if host != h && !strings.HasSuffix(host, "."+h) {
				continue
			}
			if m.pathPrefix != "" && !strings.HasPrefix(path, m.pathPrefix) {
				continue
			}
			return m.platform, nil
		}
	}

	return domain.PlatformUnsupported, domain.UnsupportedPlatformError{URL: rawURL}
}

// Supported returns the platform tags with registered matchers.
func Supported() []domain.Platform {
	out := make([]domain.Platform, len(domain.AllPlatforms))
	copy(out, domain.AllPlatforms)
	return out
}
