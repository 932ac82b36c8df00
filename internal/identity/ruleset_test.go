package identity

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuleset(t *testing.T) {
	content := `email_overrides:
  alt@co.com: main@co.com
  Old@Co.com: main@co.com
name_overrides:
  "j. doe": "jane doe"
provider_domains:
  - gmail.com
  - users.noreply.github.com
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	rules, err := LoadRuleset(path)
	require.NoError(t, err)

	assert.Equal(t, "main@co.com", rules.CanonicalEmail("alt@co.com"))
	assert.Equal(t, "main@co.com", rules.CanonicalEmail("old@co.com"), "override keys are lower-cased")
	assert.Equal(t, "jane doe", rules.CanonicalName("j. doe"))
	assert.Equal(t, "untouched@co.com", rules.CanonicalEmail("untouched@co.com"))

	assert.True(t, rules.IsProviderDomain("gmail.com"))
	assert.True(t, rules.IsProviderDomain("users.noreply.github.com"))
	assert.False(t, rules.IsProviderDomain("acme.io"))
}

func TestLoadRulesetMissingFile(t *testing.T) {
	_, err := LoadRuleset("does/not/exist.yaml")
	assert.Error(t, err)
}

func TestRulesetValidate(t *testing.T) {
	testCases := []struct {
		name    string
		rules   *Ruleset
		wantErr string
	}{
		{
			name:  "Empty ruleset is valid",
			rules: &Ruleset{},
		},
		{
			name: "Self mapping rejected",
			rules: &Ruleset{
				EmailOverrides: map[string]string{"a@co.com": "a@co.com"},
			},
			wantErr: "maps to itself",
		},
		{
			name: "Override chain rejected",
			rules: &Ruleset{
				EmailOverrides: map[string]string{
					"a@co.com": "b@co.com",
					"b@co.com": "c@co.com",
				},
			},
			wantErr: "chain",
		},
		{
			name: "Empty source rejected",
			rules: &Ruleset{
				EmailOverrides: map[string]string{"  ": "a@co.com"},
			},
			wantErr: "empty",
		},
		{
			name: "Name self mapping rejected",
			rules: &Ruleset{
				NameOverrides: map[string]string{"jane": "jane"},
			},
			wantErr: "maps to itself",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rules.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestRulesetDefaultProviderDomains(t *testing.T) {
	rules := &Ruleset{}
	require.NoError(t, rules.Validate())

	// Missing provider_domains falls back to the default set
	assert.True(t, rules.IsProviderDomain("gmail.com"))
	assert.True(t, rules.IsProviderDomain("users.noreply.github.com"))

	// Case-insensitive lookup
	assert.True(t, rules.IsProviderDomain("GMail.com"))
}
