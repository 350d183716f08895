package schema

import (
	"sync"

	"github.com/roach88/worklens/internal/model"
)

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from Definitions.
// It panics if the built-in definitions are inconsistent.
func Default() *Registry {
	defaultOnce.Do(func() {
		r, err := New(Definitions())
		if err != nil {
			panic(err)
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

type via = []model.EntityType

// Definitions returns the built-in entity definitions.
func Definitions() []Definition {
	return []Definition{
		{
			Entity: model.EntityWorkSession,
			Table:  "work_sessions",
			Fields: []Field{
				{"id", KindText},
				{"date", KindDate},
				{"start_time", KindTimestamp},
				{"duration_hours", KindReal},
				{"project_id", KindRef},
				{"on_behalf_of_id", KindRef},
				{"description", KindText},
				{"billable", KindBool},
				{"tags", KindTags},
			},
			Relations: []Relation{
				{"project", model.EntityProject, "project_id"},
				{"on_behalf_of", model.EntityPerson, "on_behalf_of_id"},
			},
			Paths: PathTable{
				"project":                 via{model.EntityProject},
				"project.client":          via{model.EntityProject, model.EntityClient},
				"project.client.employer": via{model.EntityProject, model.EntityClient, model.EntityEmployer},
				"on_behalf_of":            via{model.EntityPerson},
				"on_behalf_of.employer":   via{model.EntityPerson, model.EntityEmployer},
			},
		},
		{
			Entity: model.EntityMeeting,
			Table:  "meetings",
			Fields: []Field{
				{"id", KindText},
				{"title", KindText},
				{"date", KindDate},
				{"start_time", KindTimestamp},
				{"duration_hours", KindReal},
				{"project_id", KindRef},
				{"organizer_id", KindRef},
				{"location", KindText},
				{"attendees", KindTags},
				{"tags", KindTags},
			},
			Relations: []Relation{
				{"project", model.EntityProject, "project_id"},
				{"organizer", model.EntityPerson, "organizer_id"},
			},
			Paths: PathTable{
				"project":            via{model.EntityProject},
				"project.client":     via{model.EntityProject, model.EntityClient},
				"organizer":          via{model.EntityPerson},
				"organizer.employer": via{model.EntityPerson, model.EntityEmployer},
			},
		},
		{
			Entity: model.EntityProject,
			Table:  "projects",
			Fields: []Field{
				{"id", KindText},
				{"name", KindText},
				{"client_id", KindRef},
				{"status", KindText},
				{"hourly_rate", KindReal},
				{"start_date", KindDate},
				{"end_date", KindDate},
				{"tags", KindTags},
				{"created_at", KindTimestamp},
			},
			Relations: []Relation{
				{"client", model.EntityClient, "client_id"},
			},
			Paths: PathTable{
				"client":          via{model.EntityClient},
				"client.employer": via{model.EntityClient, model.EntityEmployer},
			},
		},
		{
			Entity: model.EntityClient,
			Table:  "clients",
			Fields: []Field{
				{"id", KindText},
				{"name", KindText},
				{"type", KindText},
				{"employer_id", KindRef},
				{"status", KindText},
				{"tags", KindTags},
				{"created_at", KindTimestamp},
			},
			Relations: []Relation{
				{"employer", model.EntityEmployer, "employer_id"},
			},
			Renames: map[string]string{"client_type": "type"},
			Paths: PathTable{
				"employer": via{model.EntityEmployer},
			},
		},
		{
			Entity: model.EntityPerson,
			Table:  "people",
			Fields: []Field{
				{"id", KindText},
				{"name", KindText},
				{"email", KindText},
				{"role", KindText},
				{"employer_id", KindRef},
				{"client_id", KindRef},
				{"tags", KindTags},
				{"created_at", KindTimestamp},
			},
			Relations: []Relation{
				{"employer", model.EntityEmployer, "employer_id"},
				{"client", model.EntityClient, "client_id"},
			},
			Paths: PathTable{
				"employer":        via{model.EntityEmployer},
				"client":          via{model.EntityClient},
				"client.employer": via{model.EntityClient, model.EntityEmployer},
			},
		},
		{
			Entity: model.EntityEmployer,
			Table:  "employers",
			Fields: []Field{
				{"id", KindText},
				{"name", KindText},
				{"is_current", KindBool},
				{"start_date", KindDate},
				{"end_date", KindDate},
			},
		},
		{
			Entity: model.EntityNote,
			Table:  "notes",
			Fields: []Field{
				{"id", KindText},
				{"title", KindText},
				{"body", KindText},
				{"project_id", KindRef},
				{"person_id", KindRef},
				{"tags", KindTags},
				{"created_at", KindTimestamp},
			},
			Relations: []Relation{
				{"project", model.EntityProject, "project_id"},
				{"person", model.EntityPerson, "person_id"},
			},
			Renames: map[string]string{"content": "body"},
			Paths: PathTable{
				"project":        via{model.EntityProject},
				"project.client": via{model.EntityProject, model.EntityClient},
				"person":         via{model.EntityPerson},
			},
		},
		{
			Entity: model.EntityReminder,
			Table:  "reminders",
			Fields: []Field{
				{"id", KindText},
				{"title", KindText},
				{"remind_at", KindTimestamp},
				{"recurrence_rule", KindText},
				{"completed", KindBool},
				{"project_id", KindRef},
				{"tags", KindTags},
				{"created_at", KindTimestamp},
			},
			Relations: []Relation{
				{"project", model.EntityProject, "project_id"},
			},
			Renames: map[string]string{
				"remind_time": "remind_at",
				"recurrence":  "recurrence_rule",
			},
			Paths: PathTable{
				"project":        via{model.EntityProject},
				"project.client": via{model.EntityProject, model.EntityClient},
			},
		},
	}
}
