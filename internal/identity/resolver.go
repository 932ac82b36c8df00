package identity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gitpulse/gitpulse/internal/models"
	"github.com/gitpulse/gitpulse/pkg/logger"
)

// AmbiguousAuthorshipError reports commit ids that resolved to more than
// one canonical identity. A commit has exactly one author in the source
// log, so this is a correctness failure, not a warning.
type AmbiguousAuthorshipError struct {
	CommitSHAs []string
}

func (e *AmbiguousAuthorshipError) Error() string {
	return fmt.Sprintf("ambiguous authorship for %d commit(s): %s",
		len(e.CommitSHAs), strings.Join(e.CommitSHAs, ", "))
}

// LookupTable maps every raw email observed in the input to its resolved
// canonical identity. Built once per run, read-only afterward.
type LookupTable struct {
	byEmail    map[string]*models.AuthorIdentity
	identities []*models.AuthorIdentity
	groups     []*models.EmailGroup
}

// Lookup returns the canonical identity for a raw email.
func (t *LookupTable) Lookup(rawEmail string) (*models.AuthorIdentity, bool) {
	identity, ok := t.byEmail[strings.ToLower(rawEmail)]
	return identity, ok
}

// Identities returns all canonical identities, sorted by canonical email.
func (t *LookupTable) Identities() []*models.AuthorIdentity {
	return t.identities
}

// Groups returns the observed (email, name) groups after override
// application, sorted by email then name.
func (t *LookupTable) Groups() []*models.EmailGroup {
	return t.groups
}

// Size returns the number of canonical identities.
func (t *LookupTable) Size() int {
	return len(t.identities)
}

// Resolver maps raw (email, name) pairs to a minimal set of canonical
// author identities. Email is the only merge key: two distinct emails are
// never merged unless the manual override list links them, and names
// alone never merge or split identities.
type Resolver struct {
	rules *Ruleset
}

// NewResolver creates a resolver with the given ruleset. A nil ruleset
// falls back to the defaults (no overrides, standard provider domains).
func NewResolver(rules *Ruleset) *Resolver {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Resolver{rules: rules}
}

// Resolve builds the author lookup table for one batch of commit records.
// Callers must provide lower-cased, non-empty name and email fields (the
// log parser guarantees this). The result is deterministic: the same
// records and ruleset always produce an identical table.
func (r *Resolver) Resolve(records []models.CommitRecord) (*LookupTable, error) {
	// Overrides first, unconditionally. They are ground truth from
	// manual audits and precede every heuristic.
	groups := make(map[string]*models.EmailGroup)
	rawEmails := make(map[string]bool)
	shaEmails := make(map[string]map[string]bool)

	for _, record := range records {
		email := r.rules.CanonicalEmail(record.AuthorEmail)
		name := r.rules.CanonicalName(record.AuthorName)

		rawEmails[record.AuthorEmail] = true

		key := email + "\x00" + name
		group, ok := groups[key]
		if !ok {
			group = &models.EmailGroup{Email: email, Name: name}
			groups[key] = group
		}
		group.Commits++
		if record.Date.After(group.LastCommit) {
			group.LastCommit = record.Date
		}

		emails, ok := shaEmails[record.CommitSHA]
		if !ok {
			emails = make(map[string]bool)
			shaEmails[record.CommitSHA] = emails
		}
		emails[email] = true
	}

	if err := validateAuthorship(shaEmails); err != nil {
		return nil, err
	}

	sortedGroups := make([]*models.EmailGroup, 0, len(groups))
	for _, group := range groups {
		sortedGroups = append(sortedGroups, group)
	}
	sort.Slice(sortedGroups, func(i, j int) bool {
		if sortedGroups[i].Email != sortedGroups[j].Email {
			return sortedGroups[i].Email < sortedGroups[j].Email
		}
		return sortedGroups[i].Name < sortedGroups[j].Name
	})

	table := &LookupTable{
		byEmail: make(map[string]*models.AuthorIdentity),
		groups:  sortedGroups,
	}

	// One identity per canonical email. The domain is an organizational
	// host signal unless it belongs to the public provider set.
	byCanonical := make(map[string]*models.AuthorIdentity)
	for _, group := range sortedGroups {
		identity, ok := byCanonical[group.Email]
		if !ok {
			host := models.EmailDomain(group.Email)
			identity = models.NewAuthorIdentity(group.Email, group.Name, host, r.rules.IsProviderDomain(host))
			byCanonical[group.Email] = identity
			table.identities = append(table.identities, identity)
		}
	}

	for email, identity := range byCanonical {
		identity.DisplayName = displayName(sortedGroups, email)
	}

	// One lookup entry per unique raw email observed, plus the override
	// targets themselves so canonical emails always resolve.
	for raw := range rawEmails {
		table.byEmail[raw] = byCanonical[r.rules.CanonicalEmail(raw)]
	}
	for email, identity := range byCanonical {
		table.byEmail[email] = identity
	}

	logger.WithFields(map[string]interface{}{
		"records":    len(records),
		"groups":     len(sortedGroups),
		"identities": len(table.identities),
	}).Debug("Resolved author identities")

	return table, nil
}

// displayName picks the display name for a canonical email from its
// groups: most commits wins, ties go to the most recent commit date,
// remaining ties to the lexicographically smallest name.
func displayName(groups []*models.EmailGroup, email string) string {
	var best *models.EmailGroup
	for _, group := range groups {
		if group.Email != email {
			continue
		}
		if best == nil {
			best = group
			continue
		}
		if group.Commits != best.Commits {
			if group.Commits > best.Commits {
				best = group
			}
			continue
		}
		if !group.LastCommit.Equal(best.LastCommit) {
			if group.LastCommit.After(best.LastCommit) {
				best = group
			}
			continue
		}
		if group.Name < best.Name {
			best = group
		}
	}
	if best == nil {
		return ""
	}
	return best.Name
}

// validateAuthorship enforces the one-identity-per-commit contract after
// override application.
func validateAuthorship(shaEmails map[string]map[string]bool) error {
	var offending []string
	for sha, emails := range shaEmails {
		if len(emails) > 1 {
			offending = append(offending, sha)
		}
	}
	if len(offending) == 0 {
		return nil
	}
	sort.Strings(offending)
	return &AmbiguousAuthorshipError{CommitSHAs: offending}
}
