package convert

import (
	"github.com/roach88/worklens/internal/model"
)

// rule converts one raw row into a record.
type rule func(model.RawRecord) model.Record

var rules = map[model.EntityType]rule{
	model.EntityWorkSession: workSession,
	model.EntityMeeting:     meeting,
	model.EntityProject:     project,
	model.EntityClient:      client,
	model.EntityPerson:      person,
	model.EntityEmployer:    employer,
	model.EntityNote:        note,
	model.EntityReminder:    reminder,
}

// Records converts raw rows of one entity type. The result has one record
// per row in input order. An unknown entity type yields an empty slice.
func Records(et model.EntityType, raws []model.RawRecord) []model.Record {
	out := make([]model.Record, 0, len(raws))
	r, ok := rules[et]
	if !ok {
		return out
	}
	for _, raw := range raws {
		out = append(out, r(raw))
	}
	return out
}

func workSession(raw model.RawRecord) model.Record {
	return model.WorkSession{
		Kind:          model.KindWorkSession,
		ID:            text(raw["id"]),
		Date:          text(raw["date"]),
		StartTime:     timestamp(raw["start_time"]),
		DurationHours: number(raw["duration_hours"]),
		ProjectID:     optText(raw["project_id"]),
		OnBehalfOf:    optText(raw["on_behalf_of_id"]),
		Description:   text(raw["description"]),
		Billable:      flag(raw["billable"]),
		Tags:          tags(raw["tags"]),
	}
}

func meeting(raw model.RawRecord) model.Record {
	m := model.Meeting{
		Kind:          model.KindMeeting,
		ID:            text(raw["id"]),
		Title:         text(raw["title"]),
		Date:          text(raw["date"]),
		StartTime:     timestamp(raw["start_time"]),
		DurationHours: number(raw["duration_hours"]),
		ProjectID:     optText(raw["project_id"]),
		Organizer:     optText(raw["organizer_id"]),
		Location:      text(raw["location"]),
		Attendees:     tags(raw["attendees"]),
		Tags:          tags(raw["tags"]),
	}
	if m.StartTime != nil {
		end := m.StartTime.Add(hoursDuration(m.DurationHours))
		m.EndTime = &end
	}
	return m
}

func project(raw model.RawRecord) model.Record {
	return model.Project{
		Kind:       model.KindProject,
		ID:         text(raw["id"]),
		Name:       text(raw["name"]),
		ClientID:   optText(raw["client_id"]),
		Status:     text(raw["status"]),
		HourlyRate: optNumber(raw["hourly_rate"]),
		StartDate:  text(raw["start_date"]),
		EndDate:    text(raw["end_date"]),
		Tags:       tags(raw["tags"]),
		CreatedAt:  timestamp(raw["created_at"]),
	}
}

func client(raw model.RawRecord) model.Record {
	return model.Client{
		Kind:       model.KindClient,
		ID:         text(raw["id"]),
		Name:       text(raw["name"]),
		ClientType: text(raw["type"]),
		EmployerID: optText(raw["employer_id"]),
		Status:     text(raw["status"]),
		Tags:       tags(raw["tags"]),
		CreatedAt:  timestamp(raw["created_at"]),
	}
}

func person(raw model.RawRecord) model.Record {
	return model.Person{
		Kind:       model.KindPerson,
		ID:         text(raw["id"]),
		Name:       text(raw["name"]),
		Email:      text(raw["email"]),
		Role:       text(raw["role"]),
		EmployerID: optText(raw["employer_id"]),
		ClientID:   optText(raw["client_id"]),
		Tags:       tags(raw["tags"]),
		CreatedAt:  timestamp(raw["created_at"]),
	}
}

func employer(raw model.RawRecord) model.Record {
	return model.Employer{
		Kind:      model.KindEmployer,
		ID:        text(raw["id"]),
		Name:      text(raw["name"]),
		IsCurrent: flag(raw["is_current"]),
		StartDate: text(raw["start_date"]),
		EndDate:   text(raw["end_date"]),
	}
}

func note(raw model.RawRecord) model.Record {
	return model.Note{
		Kind:      model.KindNote,
		ID:        text(raw["id"]),
		Title:     text(raw["title"]),
		Content:   text(raw["body"]),
		ProjectID: optText(raw["project_id"]),
		PersonID:  optText(raw["person_id"]),
		Tags:      tags(raw["tags"]),
		CreatedAt: timestamp(raw["created_at"]),
	}
}

func reminder(raw model.RawRecord) model.Record {
	return model.Reminder{
		Kind:       model.KindReminder,
		ID:         text(raw["id"]),
		Title:      text(raw["title"]),
		RemindTime: timestamp(raw["remind_at"]),
		Recurrence: text(raw["recurrence_rule"]),
		Completed:  flag(raw["completed"]),
		ProjectID:  optText(raw["project_id"]),
		Tags:       tags(raw["tags"]),
		CreatedAt:  timestamp(raw["created_at"]),
	}
}
