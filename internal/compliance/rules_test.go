package compliance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"lexbill/internal/compliance"
)

func TestRestrictionRule_Matches(t *testing.T) {
	rules := compliance.PartyAndPartyRestrictions()

	cases := []struct {
		name        string
		description string
		want        bool
	}{
		{"case_insensitive", "PHOTOCOPYING of the trial bundle", true},
		{"substring", "Telephone attendance on opponent's attorney", true},
		{"telcon_shorthand", "Telcon with client re settlement", true},
		{"no_match", "Drafting heads of argument", false},
		{"empty_description", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matched := false
			for i := range rules {
				if rules[i].Matches(tc.description) {
					matched = true
					break
				}
			}
			assert.Equal(t, tc.want, matched)
		})
	}
}

func TestRestrictionRules_Metadata(t *testing.T) {
	lists := map[string][]compliance.RestrictionRule{
		"party_and_party": compliance.PartyAndPartyRestrictions(),
		"attorney_client": compliance.AttorneyClientRestrictions(),
		"own_client":      compliance.OwnClientEthicsRules(),
	}
	for name, rules := range lists {
		t.Run(name, func(t *testing.T) {
			assert.NotEmpty(t, rules)
			seen := map[string]bool{}
			for _, r := range rules {
				assert.NotEmpty(t, r.Key)
				assert.NotEmpty(t, r.Label)
				assert.NotEmpty(t, r.Reason)
				assert.False(t, seen[r.Key], "duplicate rule key %s", r.Key)
				seen[r.Key] = true
			}
		})
	}
}

func TestOwnClientEthicsRules_AllEthics(t *testing.T) {
	for _, r := range compliance.OwnClientEthicsRules() {
		assert.True(t, r.Ethics, "rule %s should be an ethics rule", r.Key)
	}
}
