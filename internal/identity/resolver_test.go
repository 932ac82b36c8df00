package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitpulse/gitpulse/internal/models"
)

func record(date, name, email, sha string) models.CommitRecord {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.CommitRecord{Date: d, AuthorName: name, AuthorEmail: email, CommitSHA: sha}
}

func TestResolveDistinctEmailsStayDistinct(t *testing.T) {
	// Name similarity never merges identities; only emails key them.
	records := []models.CommitRecord{
		record("2017-01-01", "jane doe", "jane@co.com", "a1"),
		record("2017-01-02", "j. doe", "jane@co.com", "a2"),
		record("2017-01-03", "jane d", "jane2@gmail.com", "a3"),
	}

	table, err := NewResolver(nil).Resolve(records)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Size())

	first, ok := table.Lookup("jane@co.com")
	require.True(t, ok)
	second, ok := table.Lookup("jane2@gmail.com")
	require.True(t, ok)

	assert.Equal(t, "jane@co.com", first.CanonicalEmail)
	assert.Equal(t, "jane2@gmail.com", second.CanonicalEmail)
	assert.NotEqual(t, first.CanonicalEmail, second.CanonicalEmail)
}

func TestResolveManualOverridePrecedence(t *testing.T) {
	rules := DefaultRuleset()
	rules.EmailOverrides = map[string]string{"alt@co.com": "main@co.com"}
	require.NoError(t, rules.Validate())

	records := []models.CommitRecord{
		record("2017-01-01", "main person", "main@co.com", "a1"),
		record("2017-01-02", "someone else entirely", "alt@co.com", "a2"),
	}

	table, err := NewResolver(rules).Resolve(records)
	require.NoError(t, err)

	assert.Equal(t, 1, table.Size())

	resolved, ok := table.Lookup("alt@co.com")
	require.True(t, ok)
	assert.Equal(t, "main@co.com", resolved.CanonicalEmail, "override applies regardless of name")
}

func TestResolveProviderDomainClassification(t *testing.T) {
	records := []models.CommitRecord{
		record("2017-01-01", "a", "a@gmail.com", "a1"),
		record("2017-01-02", "b", "b@gmail.com", "b1"),
		record("2017-01-03", "c", "c@acme.io", "c1"),
	}

	table, err := NewResolver(nil).Resolve(records)
	require.NoError(t, err)

	// Shared provider domain never merges identities
	assert.Equal(t, 3, table.Size())

	gmail, _ := table.Lookup("a@gmail.com")
	assert.True(t, gmail.IsPublicProvider)
	assert.Equal(t, "gmail.com", gmail.Host)

	acme, _ := table.Lookup("c@acme.io")
	assert.False(t, acme.IsPublicProvider, "unknown domain is a new organizational host, not an error")
	assert.Equal(t, "acme.io", acme.Host)
}

func TestResolveDisplayNamePolicy(t *testing.T) {
	testCases := []struct {
		name     string
		records  []models.CommitRecord
		expected string
	}{
		{
			name: "Most commits wins",
			records: []models.CommitRecord{
				record("2017-01-01", "jane doe", "jane@co.com", "a1"),
				record("2017-01-02", "jane doe", "jane@co.com", "a2"),
				record("2017-01-03", "j. doe", "jane@co.com", "a3"),
			},
			expected: "jane doe",
		},
		{
			name: "Commit-count tie goes to most recent activity",
			records: []models.CommitRecord{
				record("2017-01-01", "old name", "jane@co.com", "a1"),
				record("2017-06-01", "new name", "jane@co.com", "a2"),
			},
			expected: "new name",
		},
		{
			name: "Full tie goes to lexicographically smallest name",
			records: []models.CommitRecord{
				record("2017-01-01", "zeta", "jane@co.com", "a1"),
				record("2017-01-01", "alpha", "jane@co.com", "a2"),
			},
			expected: "alpha",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			table, err := NewResolver(nil).Resolve(tc.records)
			require.NoError(t, err)

			resolved, ok := table.Lookup("jane@co.com")
			require.True(t, ok)
			assert.Equal(t, tc.expected, resolved.DisplayName)
		})
	}
}

func TestResolveIdempotence(t *testing.T) {
	rules := DefaultRuleset()
	rules.EmailOverrides = map[string]string{"alt@co.com": "main@co.com"}
	require.NoError(t, rules.Validate())

	records := []models.CommitRecord{
		record("2017-01-01", "main", "main@co.com", "a1"),
		record("2017-01-02", "alias", "alt@co.com", "a2"),
		record("2017-02-01", "drifter", "d@gmail.com", "a3"),
	}

	first, err := NewResolver(rules).Resolve(records)
	require.NoError(t, err)
	second, err := NewResolver(rules).Resolve(records)
	require.NoError(t, err)

	assert.Equal(t, first.Identities(), second.Identities())
	assert.Equal(t, first.Groups(), second.Groups())
}

func TestResolveAmbiguousAuthorshipIsFatal(t *testing.T) {
	// The same commit id attributed to two different emails means the
	// dataset or the override list is inconsistent.
	records := []models.CommitRecord{
		record("2017-01-01", "jane", "jane@co.com", "dup1"),
		record("2017-01-01", "jane", "other@co.com", "dup1"),
		record("2017-01-02", "jane", "jane@co.com", "ok1"),
	}

	_, err := NewResolver(nil).Resolve(records)
	require.Error(t, err)

	var ambiguous *AmbiguousAuthorshipError
	require.True(t, errors.As(err, &ambiguous))
	assert.Equal(t, []string{"dup1"}, ambiguous.CommitSHAs)
}

func TestResolveOverrideRepairsAmbiguity(t *testing.T) {
	// An override linking the two emails makes the duplicate rows agree.
	rules := DefaultRuleset()
	rules.EmailOverrides = map[string]string{"other@co.com": "jane@co.com"}
	require.NoError(t, rules.Validate())

	records := []models.CommitRecord{
		record("2017-01-01", "jane", "jane@co.com", "dup1"),
		record("2017-01-01", "jane", "other@co.com", "dup1"),
	}

	table, err := NewResolver(rules).Resolve(records)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Size())
}

func TestResolveEmptyInput(t *testing.T) {
	table, err := NewResolver(nil).Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Size())
	assert.Empty(t, table.Groups())
}

func TestResolveGroupAggregation(t *testing.T) {
	records := []models.CommitRecord{
		record("2017-01-01", "jane doe", "jane@co.com", "a1"),
		record("2017-03-01", "jane doe", "jane@co.com", "a2"),
		record("2017-02-01", "j. doe", "jane@co.com", "a3"),
	}

	table, err := NewResolver(nil).Resolve(records)
	require.NoError(t, err)

	groups := table.Groups()
	require.Len(t, groups, 2)

	// Sorted by email then name
	assert.Equal(t, "j. doe", groups[0].Name)
	assert.Equal(t, 1, groups[0].Commits)
	assert.Equal(t, "jane doe", groups[1].Name)
	assert.Equal(t, 2, groups[1].Commits)
	assert.Equal(t, record("2017-03-01", "", "", "").Date, groups[1].LastCommit)
}
