package identity

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Ruleset is the static configuration for one analysis run: the manual
// override list curated from prior audits, plus the public email provider
// domain set. Overrides are ground truth and precede every heuristic.
type Ruleset struct {
	// EmailOverrides rewrites a raw email to its canonical email before
	// any grouping happens. Applied unconditionally.
	EmailOverrides map[string]string `yaml:"email_overrides"`

	// NameOverrides rewrites known display-name variants. Names are
	// informational only; a name override never merges two emails.
	NameOverrides map[string]string `yaml:"name_overrides"`

	// ProviderDomains is the enumerated set of public email provider
	// domains (consumer webmail, GitHub noreply addresses). These never
	// count as an organizational host signal.
	ProviderDomains []string `yaml:"provider_domains"`

	providerSet map[string]bool
}

// defaultProviderDomains covers the common consumer webmail services plus
// the GitHub-generated noreply domain.
var defaultProviderDomains = []string{
	"gmail.com",
	"googlemail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"live.com",
	"icloud.com",
	"me.com",
	"aol.com",
	"protonmail.com",
	"gmx.de",
	"qq.com",
	"163.com",
	"126.com",
	"users.noreply.github.com",
}

// DefaultRuleset returns a ruleset with no overrides and the default
// provider domain set.
func DefaultRuleset() *Ruleset {
	r := &Ruleset{
		EmailOverrides:  map[string]string{},
		NameOverrides:   map[string]string{},
		ProviderDomains: defaultProviderDomains,
	}
	r.buildProviderSet()
	return r
}

// LoadRuleset reads a YAML ruleset from disk and validates it. A ruleset
// without provider_domains falls back to the default domain set.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ruleset: %w", err)
	}

	ruleset := &Ruleset{}
	if err := yaml.Unmarshal(data, ruleset); err != nil {
		return nil, fmt.Errorf("failed to parse ruleset: %w", err)
	}

	if err := ruleset.Validate(); err != nil {
		return nil, fmt.Errorf("invalid ruleset %s: %w", path, err)
	}

	return ruleset, nil
}

// Validate normalizes the ruleset in place and rejects entries that would
// make resolution ambiguous: self-mappings, override chains (a -> b while
// b -> c), and empty keys or values. Rejecting chains keeps a single
// rewrite pass total, so override application order can never matter.
func (r *Ruleset) Validate() error {
	if r.EmailOverrides == nil {
		r.EmailOverrides = map[string]string{}
	}
	if r.NameOverrides == nil {
		r.NameOverrides = map[string]string{}
	}
	if len(r.ProviderDomains) == 0 {
		r.ProviderDomains = defaultProviderDomains
	}

	normalized := make(map[string]string, len(r.EmailOverrides))
	for source, target := range r.EmailOverrides {
		source = strings.ToLower(strings.TrimSpace(source))
		target = strings.ToLower(strings.TrimSpace(target))
		if source == "" || target == "" {
			return fmt.Errorf("email override with empty source or target")
		}
		if source == target {
			return fmt.Errorf("email override %q maps to itself", source)
		}
		normalized[source] = target
	}
	for source, target := range normalized {
		if _, chained := normalized[target]; chained {
			return fmt.Errorf("email override chain: %q -> %q -> %q", source, target, normalized[target])
		}
	}
	r.EmailOverrides = normalized

	names := make(map[string]string, len(r.NameOverrides))
	for source, target := range r.NameOverrides {
		source = strings.ToLower(strings.TrimSpace(source))
		target = strings.ToLower(strings.TrimSpace(target))
		if source == "" || target == "" {
			return fmt.Errorf("name override with empty source or target")
		}
		if source == target {
			return fmt.Errorf("name override %q maps to itself", source)
		}
		names[source] = target
	}
	r.NameOverrides = names

	r.buildProviderSet()
	return nil
}

func (r *Ruleset) buildProviderSet() {
	r.providerSet = make(map[string]bool, len(r.ProviderDomains))
	for _, domain := range r.ProviderDomains {
		r.providerSet[strings.ToLower(strings.TrimSpace(domain))] = true
	}
}

// CanonicalEmail applies the manual email override list to a raw email.
func (r *Ruleset) CanonicalEmail(email string) string {
	if target, ok := r.EmailOverrides[email]; ok {
		return target
	}
	return email
}

// CanonicalName applies the manual name override list to a raw name.
func (r *Ruleset) CanonicalName(name string) string {
	if target, ok := r.NameOverrides[name]; ok {
		return target
	}
	return name
}

// IsProviderDomain reports whether a domain belongs to the public email
// provider set.
func (r *Ruleset) IsProviderDomain(domain string) bool {
	if r.providerSet == nil {
		r.buildProviderSet()
	}
	return r.providerSet[strings.ToLower(domain)]
}
