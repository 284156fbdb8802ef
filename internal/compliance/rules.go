package compliance

import "strings"

// RestrictionRule is one tagged non-recoverability rule. Rules are
// evaluated as an ordered list; the first match wins and supplies the
// verdict reason.
type RestrictionRule struct {
	Key      string
	Label    string
	Reason   string
	Ethics   bool
	patterns []string
}

// Matches reports whether the rule applies to the item description.
// Matching is case-insensitive substring over the rule's patterns.
func (r *RestrictionRule) Matches(description string) bool {
	desc := strings.ToLower(description)
	for _, p := range r.patterns {
		if strings.Contains(desc, p) {
			return true
		}
	}
	return false
}

// PartyAndPartyRestrictions are items non-recoverable between parties
// by policy, regardless of necessity flags.
func PartyAndPartyRestrictions() []RestrictionRule {
	return []RestrictionRule{
		{
			Key:      "pp.internal_consultation",
			Label:    "Internal consultations",
			Reason:   "internal consultations between fee earners are not recoverable on a party-and-party basis",
			patterns: []string{"internal consultation", "internal discussion", "discussion with colleague"},
		},
		{
			Key:      "pp.office_conference",
			Label:    "Office conferences",
			Reason:   "office conferences are not recoverable on a party-and-party basis",
			patterns: []string{"office conference", "office meeting", "internal meeting"},
		},
		{
			Key:      "pp.legal_research",
			Label:    "Legal research",
			Reason:   "legal research is part of the attorney's overhead and not recoverable between parties",
			patterns: []string{"legal research", "research on", "researching"},
		},
		{
			Key:      "pp.administrative",
			Label:    "Administrative costs",
			Reason:   "administrative and secretarial costs are not recoverable between parties",
			patterns: []string{"administrative", "admin fee", "secretarial", "filing and indexing"},
		},
		{
			Key:      "pp.local_travel",
			Label:    "Local travel",
			Reason:   "local travel is not recoverable on a party-and-party basis",
			patterns: []string{"local travel", "travel to office", "parking"},
		},
		{
			Key:      "pp.photocopying",
			Label:    "Photocopying",
			Reason:   "photocopying charges are not recoverable between parties unless ordered",
			patterns: []string{"photocop", "copies made", "copying charges"},
		},
		{
			Key:      "pp.telephone",
			Label:    "Telephone calls",
			Reason:   "telephone calls are not recoverable on a party-and-party basis",
			patterns: []string{"telephone", "phone call", "telcon"},
		},
	}
}

// AttorneyClientRestrictions is the narrower prohibited list on an
// attorney-and-client basis.
func AttorneyClientRestrictions() []RestrictionRule {
	return []RestrictionRule{
		{
			Key:      "ac.referral_fee",
			Label:    "Referral fees",
			Reason:   "referral fees and kickbacks may not be charged to the client",
			Ethics:   true,
			patterns: []string{"referral fee", "kickback", "introduction fee"},
		},
		{
			Key:      "ac.personal_expense",
			Label:    "Personal expenses",
			Reason:   "personal expenses of the attorney are not chargeable",
			patterns: []string{"personal expense", "personal travel", "entertainment"},
		},
		{
			Key:      "ac.contingency",
			Label:    "Contingency fees",
			Reason:   "contingency-style success fees outside a registered contingency agreement are unlawful",
			Ethics:   true,
			patterns: []string{"contingency", "success fee", "percentage of award", "no win no fee"},
		},
	}
}

// OwnClientEthicsRules detect fee-sharing and contingency language that
// is blocked even on a contractual own-client basis.
func OwnClientEthicsRules() []RestrictionRule {
	return []RestrictionRule{
		{
			Key:      "oc.fee_sharing",
			Label:    "Fee sharing",
			Reason:   "fee-sharing or commission arrangements with non-practitioners are prohibited",
			Ethics:   true,
			patterns: []string{"referral fee", "commission", "fee sharing", "fee-sharing", "introduction fee", "kickback"},
		},
		{
			Key:      "oc.contingency",
			Label:    "Contingency fees",
			Reason:   "contingency or success-fee arrangements outside the Contingency Fees Act are prohibited",
			Ethics:   true,
			patterns: []string{"contingency", "success fee", "percentage of award", "no win no fee"},
		},
	}
}

func matchRestriction(rules []RestrictionRule, description string) *RestrictionRule {
	for i := range rules {
		if rules[i].Matches(description) {
			return &rules[i]
		}
	}
	return nil
}
