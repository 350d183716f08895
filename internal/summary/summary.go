// Package summary renders a one-line English description of a result set.
package summary

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/worklens/internal/model"
)

// NoResults is returned for an empty result set.
const NoResults = "No results found."

type noun struct{ one, many string }

var nouns = map[model.Kind]noun{
	model.KindWorkSession:  {"work session", "work sessions"},
	model.KindMeeting:      {"meeting", "meetings"},
	model.KindProject:      {"project", "projects"},
	model.KindClient:       {"client", "clients"},
	model.KindPerson:       {"person", "people"},
	model.KindEmployer:     {"employer", "employers"},
	model.KindNote:         {"note", "notes"},
	model.KindReminder:     {"reminder", "reminders"},
	model.KindDailyTotal:   {"daily total", "daily totals"},
	model.KindProjectTotal: {"project total", "project totals"},
}

var printer = message.NewPrinter(language.English)

type tally struct {
	count int
	hours float64
}

// Summarize groups records by kind in model.Kinds order and describes each
// group by its count. Time-entry kinds also report their total hours to one
// decimal place.
func Summarize(records []model.Record) string {
	if len(records) == 0 {
		return NoResults
	}

	tallies := make(map[model.Kind]*tally)
	for _, r := range records {
		k := r.RecordKind()
		t, ok := tallies[k]
		if !ok {
			t = &tally{}
			tallies[k] = t
		}
		t.count++
		if te, ok := r.(model.TimeEntry); ok {
			t.hours += te.Hours()
		}
	}

	var clauses []string
	for _, k := range model.Kinds {
		t, ok := tallies[k]
		if !ok {
			continue
		}
		clauses = append(clauses, clause(k, t))
	}

	return "Found " + join(clauses) + "."
}

func clause(k model.Kind, t *tally) string {
	n := nouns[k]
	name := n.many
	if t.count == 1 {
		name = n.one
	}
	if k.IsTimeEntry() {
		return printer.Sprintf("%d %s (%.1f hours)", t.count, name, t.hours)
	}
	return printer.Sprintf("%d %s", t.count, name)
}

// join applies English list conjunction: "a", "a and b", "a, b, and c".
func join(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
}
