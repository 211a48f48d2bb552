package ingest

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// field identifies one of the logical columns the pipeline needs from a
// results file. Raw header labels vary by election year and language; the
// alias table below maps every observed variant onto the same field.
type field int

const (
	fieldRiding field = iota
	fieldParty
	fieldLastName
	fieldFirstName
	fieldVotes
)

var fieldNames = map[field]string{
	fieldRiding:    "riding",
	fieldParty:     "party",
	fieldLastName:  "last_name",
	fieldFirstName: "first_name",
	fieldVotes:     "votes",
}

func (f field) String() string { return fieldNames[f] }

// fieldAliases lists the raw header labels observed across election years
// for each logical field. The long bilingual labels are the Elections
// Canada poll-by-poll export headers; the short forms appear in older and
// preprocessed datasets. Both typographic and ASCII apostrophes occur in
// the wild.
var fieldAliases = map[field][]string{
	fieldRiding: {
		"Electoral District Name_English/Nom de circonscription_Anglais",
		"Electoral District Name",
		"Riding",
	},
	fieldParty: {
		"Political Affiliation Name_English/Appartenance politique_Anglais",
		"Political Affiliation",
		"Party",
	},
	fieldLastName: {
		"Candidate’s Family Name/Nom de famille du candidat",
		"Candidate's Family Name/Nom de famille du candidat",
		"Candidate Family Name",
		"Last Name",
	},
	fieldFirstName: {
		"Candidate’s First Name/Prénom du candidat",
		"Candidate's First Name/Prénom du candidat",
		"Candidate First Name",
		"First Name",
	},
	fieldVotes: {
		"Candidate Poll Votes Count/Votes du candidat pour le bureau",
		"Candidate Poll Votes Count",
		"Votes",
	},
}

// foldCaser normalizes header cells for alias comparison.
var foldCaser = cases.Fold()

// headerAliasIndex is built once from fieldAliases with folded keys.
var headerAliasIndex = buildHeaderIndex()

func buildHeaderIndex() map[string]field {
	idx := make(map[string]field)
	for f, labels := range fieldAliases {
		for _, label := range labels {
			idx[foldCaser.String(strings.TrimSpace(label))] = f
		}
	}
	return idx
}

// columnMap locates each logical field's column index in a header row.
type columnMap map[field]int

// resolveHeader maps a raw CSV header onto the logical fields. Every
// logical field must be present exactly for ingestion to proceed; a file
// missing any of them is skipped by the caller. When a label matches more
// than one column the first occurrence wins.
func resolveHeader(header []string) (columnMap, error) {
	cols := make(columnMap)
	for i, cell := range header {
		f, ok := headerAliasIndex[foldCaser.String(strings.TrimSpace(cell))]
		if !ok {
			continue
		}
		if _, seen := cols[f]; !seen {
			cols[f] = i
		}
	}

	var missing []string
	for f := fieldRiding; f <= fieldVotes; f++ {
		if _, ok := cols[f]; !ok {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("header missing required fields: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}
