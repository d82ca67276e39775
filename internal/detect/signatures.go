package detect

import (
	"strings"
	"sync"

	"github.com/sentinelmail/sentinel/internal/core"
)

// Signature is a named threat indicator with its category label.
type Signature struct {
	Indicator string
	Type      core.ThreatType
}

// SignatureRegistry holds threat-intelligence indicator strings. Entries
// are added and removed explicitly; there is no implicit expiry.
type SignatureRegistry struct {
	mu         sync.RWMutex
	signatures map[string]core.ThreatType
}

// NewSignatureRegistry creates a registry seeded with the stock indicators.
func NewSignatureRegistry() *SignatureRegistry {
	r := &SignatureRegistry{signatures: make(map[string]core.ThreatType)}
	for _, s := range []Signature{
		{"urgent transfer", core.ThreatSuspicious},
		{"nigerian prince", core.ThreatSpam},
		{"lottery winner", core.ThreatSpam},
		{"click here now", core.ThreatPhishing},
		{"verify account", core.ThreatPhishing},
		{"suspended account", core.ThreatPhishing},
	} {
		r.signatures[s.Indicator] = s.Type
	}
	return r
}

// Add registers an indicator under the given threat type. Re-adding an
// existing indicator relabels it.
func (r *SignatureRegistry) Add(indicator string, t core.ThreatType) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signatures[Normalize(indicator)] = t
}

// Remove drops an indicator from the registry.
func (r *SignatureRegistry) Remove(indicator string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.signatures, Normalize(indicator))
}

// All returns a snapshot of the registered signatures.
func (r *SignatureRegistry) All() []Signature {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Signature, 0, len(r.signatures))
	for indicator, t := range r.signatures {
		out = append(out, Signature{Indicator: indicator, Type: t})
	}
	return out
}

// Match returns every registered signature whose indicator appears in
// the normalized text.
func (r *SignatureRegistry) Match(text string) []Signature {
	normalized := Normalize(text)
	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []Signature
	for indicator, t := range r.signatures {
		if strings.Contains(normalized, indicator) {
			hits = append(hits, Signature{Indicator: indicator, Type: t})
		}
	}
	return hits
}
