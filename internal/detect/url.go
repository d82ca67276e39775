package detect

import (
	"regexp"
	"strings"
	"sync"
)

var (
	urlPattern    = regexp.MustCompile(`https?://[^\s<>"]+`)
	ipHostPattern = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
)

var (
	defaultBlacklist = []string{
		"suspicious-site.com",
		"phishing-example.net",
		"malware-host.org",
	}
	riskyTLDs       = []string{".tk", ".ml", ".ga", ".cf"}
	urlShorteners   = []string{"bit.ly", "tinyurl", "t.co", "goo.gl"}
	urlRiskKeywords = []string{"secure", "verify", "account", "update", "confirm", "login"}
)

const (
	urlIPHostWeight    = 0.4
	urlTLDWeight       = 0.3
	urlShortenerWeight = 0.2
	urlSubdomainWeight = 0.2
	urlKeywordWeight   = 0.1
	urlSubdomainLimit  = 4
	urlRiskyThreshold  = 0.5
)

// URLAnalyzer scores embedded URLs for risk. It is a helper for the
// phishing detector, not a top-level detector itself. The blacklist is
// mutable at runtime so threat intelligence feeds can extend it.
type URLAnalyzer struct {
	mu        sync.RWMutex
	blacklist map[string]struct{}
}

// NewURLAnalyzer creates a URL analyzer seeded with the stock blacklist.
func NewURLAnalyzer() *URLAnalyzer {
	a := &URLAnalyzer{blacklist: make(map[string]struct{})}
	for _, d := range defaultBlacklist {
		a.blacklist[d] = struct{}{}
	}
	return a
}

// AddToBlacklist registers a domain as known-bad.
func (a *URLAnalyzer) AddToBlacklist(domain string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blacklist[strings.ToLower(strings.TrimSpace(domain))] = struct{}{}
}

// RemoveFromBlacklist drops a domain from the blacklist.
func (a *URLAnalyzer) RemoveFromBlacklist(domain string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.blacklist, strings.ToLower(strings.TrimSpace(domain)))
}

// IsBlacklisted reports whether the URL touches a blacklisted domain.
func (a *URLAnalyzer) IsBlacklisted(url string) bool {
	lower := strings.ToLower(url)
	a.mu.RLock()
	defer a.mu.RUnlock()
	for domain := range a.blacklist {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	return false
}

// Analyze returns the risk score in [0,1] for one URL. A blacklist hit
// is conclusive and scores 1.0 immediately; every other indicator
// accumulates and the sum is clamped.
func (a *URLAnalyzer) Analyze(url string) float64 {
	if a.IsBlacklisted(url) {
		return 1.0
	}

	lower := strings.ToLower(url)
	risk := 0.0

	if ipHostPattern.MatchString(lower) {
		risk += urlIPHostWeight
	}
	for _, tld := range riskyTLDs {
		if strings.Contains(lower, tld) {
			risk += urlTLDWeight
			break
		}
	}
	for _, shortener := range urlShorteners {
		if strings.Contains(lower, shortener) {
			risk += urlShortenerWeight
			break
		}
	}
	if strings.Count(lower, ".") > urlSubdomainLimit {
		risk += urlSubdomainWeight
	}
	for _, kw := range urlRiskKeywords {
		if strings.Contains(lower, kw) {
			risk += urlKeywordWeight
		}
	}

	if risk > 1.0 {
		risk = 1.0
	}
	return risk
}

// IsRisky reports whether the URL's risk score crosses the risky threshold.
func (a *URLAnalyzer) IsRisky(url string) bool {
	return a.Analyze(url) > urlRiskyThreshold
}

// ExtractURLs returns all http/https URLs embedded in the text.
func ExtractURLs(text string) []string {
	return urlPattern.FindAllString(text, -1)
}
