// Package domain contains the core entities of the election consolidation
// engine: parties, poll records, ridings, and the report value objects
// derived from them. The package has no infrastructure dependencies and
// every operation in it is deterministic.
package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
)

// Party is a closed enumeration of political affiliations. The declaration
// order defines a total ordering over parties, which is used both as a sort
// key when fusing polls and as the deterministic tie-break when two
// candidates in a riding have equal vote counts.
type Party int

// Party variants in enumeration order. The major parties come first,
// followed by the long tail of minor and historical parties. PartyOther
// is the catch-all for labels no alias recognizes and must stay last.
const (
	PartyLiberal Party = iota
	PartyConservative
	PartyNDP
	PartyBloc
	PartyGreen
	PartyPeoples
	PartyCommunist
	PartyIndependent
	PartyChristianHeritage
	PartyLibertarian
	PartyMarxistLeninist
	PartyRhinoceros
	PartyFree
	PartyMaverick
	PartyProgressiveConservative
	PartyReform
	PartyCanadianAlliance
	PartySocialCredit
	PartyOther
)

// partyNames holds the canonical English name for each variant.
var partyNames = map[Party]string{
	PartyLiberal:                 "Liberal",
	PartyConservative:            "Conservative",
	PartyNDP:                     "NDP-New Democratic Party",
	PartyBloc:                    "Bloc Québécois",
	PartyGreen:                   "Green Party",
	PartyPeoples:                 "People's Party",
	PartyCommunist:               "Communist",
	PartyIndependent:             "Independent",
	PartyChristianHeritage:       "Christian Heritage Party",
	PartyLibertarian:             "Libertarian",
	PartyMarxistLeninist:         "Marxist-Leninist",
	PartyRhinoceros:              "Rhinoceros Party",
	PartyFree:                    "Free Party Canada",
	PartyMaverick:                "Maverick Party",
	PartyProgressiveConservative: "Progressive Conservative",
	PartyReform:                  "Reform",
	PartyCanadianAlliance:        "Canadian Alliance",
	PartySocialCredit:            "Social Credit",
	PartyOther:                   "Other",
}

// partyLabels maps each variant to every raw label observed for it across
// election years, including the French dataset labels and historical
// spellings. The canonical name itself is always a valid label.
var partyLabels = map[Party][]string{
	PartyLiberal:                 {"Liberal", "Libéral", "Liberal Party of Canada"},
	PartyConservative:            {"Conservative", "Conservateur", "Conservative Party of Canada"},
	PartyNDP:                     {"NDP-New Democratic Party", "NPD-Nouveau Parti démocratique", "New Democratic Party", "N.D.P.", "NDP"},
	PartyBloc:                    {"Bloc Québécois", "Bloc Quebecois"},
	PartyGreen:                   {"Green Party", "Parti Vert", "Green Party of Canada"},
	PartyPeoples:                 {"People's Party", "Parti populaire", "People's Party of Canada", "PPC"},
	PartyCommunist:               {"Communist", "Communiste", "Communist Party of Canada"},
	PartyIndependent:             {"Independent", "Indépendant", "No Affiliation", "Aucune appartenance"},
	PartyChristianHeritage:       {"Christian Heritage Party", "Parti de l'Héritage Chrétien", "CHP Canada"},
	PartyLibertarian:             {"Libertarian", "Libertarien"},
	PartyMarxistLeninist:         {"Marxist-Leninist", "Marxiste-Léniniste", "ML"},
	PartyRhinoceros:              {"Rhinoceros Party", "Parti Rhinocéros Party", "Rhinocéros"},
	PartyFree:                    {"Free Party Canada", "Parti Libre Canada"},
	PartyMaverick:                {"Maverick Party"},
	PartyProgressiveConservative: {"Progressive Conservative", "Progressiste-Conservateur", "PC Party"},
	PartyReform:                  {"Reform", "Réformiste", "Reform Party of Canada"},
	PartyCanadianAlliance:        {"Canadian Alliance", "Alliance canadienne", "Canadian Reform Conservative Alliance"},
	PartySocialCredit:            {"Social Credit", "Crédit social", "Ralliement créditiste"},
	PartyOther:                   {"Other", "Autre"},
}

// foldCaser is a package-level Unicode case folder so alias lookups do not
// allocate a new caser per label.
var foldCaser = cases.Fold()

// partyAliases is the normalized label index built from partyLabels.
// Keys are case-folded, whitespace-trimmed labels.
var partyAliases = buildAliasIndex()

func buildAliasIndex() map[string]Party {
	idx := make(map[string]Party)
	for _, p := range Parties() {
		for _, label := range partyLabels[p] {
			idx[normalizeLabel(label)] = p
		}
	}
	return idx
}

func normalizeLabel(label string) string {
	return foldCaser.String(strings.TrimSpace(label))
}

// Parties returns every variant in enumeration order, ending with
// PartyOther. Iterating this slice instead of ranging over maps keeps
// report output deterministic.
func Parties() []Party {
	parties := make([]Party, 0, int(PartyOther)+1)
	for p := PartyLiberal; p <= PartyOther; p++ {
		parties = append(parties, p)
	}
	return parties
}

// ParseParty maps a raw affiliation label onto its canonical variant.
// Matching is Unicode-case-folded and tolerant of surrounding whitespace.
// A label no alias recognizes maps to PartyOther; parsing never fails,
// so a misspelled affiliation costs one catch-all bucket, not a dropped row.
func ParseParty(label string) Party {
	if p, ok := partyAliases[normalizeLabel(label)]; ok {
		return p
	}
	return PartyOther
}

// Known reports whether the label is recognized by the alias table.
// Callers use this to distinguish a deliberate "Other" affiliation from
// an unknown label worth a diagnostic.
func Known(label string) bool {
	_, ok := partyAliases[normalizeLabel(label)]
	return ok
}

// suggestionThreshold is the minimum normalized similarity for SuggestParty
// to consider a known label close enough to offer as a correction.
const suggestionThreshold = 0.75

// SuggestParty returns the known label closest to the given unrecognized
// one by Levenshtein distance, together with its party, when the normalized
// similarity clears the threshold. It exists purely to enrich diagnostics;
// binding always goes through ParseParty.
func SuggestParty(label string) (Party, string, bool) {
	needle := normalizeLabel(label)

	var (
		bestParty Party
		bestLabel string
		bestScore float64
	)
	for _, p := range Parties() {
		for _, candidate := range partyLabels[p] {
			folded := normalizeLabel(candidate)
			distance := levenshtein.ComputeDistance(needle, folded)

			maxLen := utf8.RuneCountInString(needle)
			if n := utf8.RuneCountInString(folded); n > maxLen {
				maxLen = n
			}
			if maxLen == 0 {
				continue
			}

			score := 1.0 - float64(distance)/float64(maxLen)
			if score > bestScore {
				bestScore = score
				bestParty = p
				bestLabel = candidate
			}
		}
	}

	if bestScore < suggestionThreshold {
		return PartyOther, "", false
	}
	return bestParty, bestLabel, true
}

// String returns the canonical English name of the party.
func (p Party) String() string {
	if name, ok := partyNames[p]; ok {
		return name
	}
	return partyNames[PartyOther]
}

// MarshalText renders the party as its canonical name so report records
// serialize with readable affiliations instead of enum ordinals.
func (p Party) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a party from any known label, falling back to
// PartyOther for unrecognized input.
func (p *Party) UnmarshalText(text []byte) error {
	*p = ParseParty(string(text))
	return nil
}
