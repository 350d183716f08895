package model

import "time"

// Record is a converted, discriminator-tagged result record.
type Record interface {
	RecordKind() Kind
}

// TimeEntry is implemented by records that carry a duration in hours.
type TimeEntry interface {
	Record
	Hours() float64
}

// WorkSession is a block of tracked work.
type WorkSession struct {
	Kind          Kind       `json:"kind"`
	ID            string     `json:"id"`
	Date          string     `json:"date,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	DurationHours float64    `json:"duration_hours"`
	ProjectID     *string    `json:"project_id,omitempty"`
	OnBehalfOf    *string    `json:"on_behalf_of,omitempty"`
	Description   string     `json:"description"`
	Billable      bool       `json:"billable"`
	Tags          []string   `json:"tags"`
}

func (WorkSession) RecordKind() Kind { return KindWorkSession }
func (w WorkSession) Hours() float64 { return w.DurationHours }

// Meeting is a scheduled meeting. EndTime is derived from StartTime and DurationHours.
type Meeting struct {
	Kind          Kind       `json:"kind"`
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Date          string     `json:"date,omitempty"`
	StartTime     *time.Time `json:"start_time,omitempty"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationHours float64    `json:"duration_hours"`
	ProjectID     *string    `json:"project_id,omitempty"`
	Organizer     *string    `json:"organizer,omitempty"`
	Location      string     `json:"location"`
	Attendees     []string   `json:"attendees"`
	Tags          []string   `json:"tags"`
}

func (Meeting) RecordKind() Kind { return KindMeeting }
func (m Meeting) Hours() float64 { return m.DurationHours }

// Project is a unit of client work.
type Project struct {
	Kind       Kind       `json:"kind"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ClientID   *string    `json:"client_id,omitempty"`
	Status     string     `json:"status"`
	HourlyRate *float64   `json:"hourly_rate,omitempty"`
	StartDate  string     `json:"start_date,omitempty"`
	EndDate    string     `json:"end_date,omitempty"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (Project) RecordKind() Kind { return KindProject }

// Client is a customer organization.
type Client struct {
	Kind       Kind       `json:"kind"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ClientType string     `json:"client_type"`
	EmployerID *string    `json:"employer_id,omitempty"`
	Status     string     `json:"status"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (Client) RecordKind() Kind { return KindClient }

// Person is a contact.
type Person struct {
	Kind       Kind       `json:"kind"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	EmployerID *string    `json:"employer_id,omitempty"`
	ClientID   *string    `json:"client_id,omitempty"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (Person) RecordKind() Kind { return KindPerson }

// Employer is an organization the user works or worked for.
type Employer struct {
	Kind      Kind   `json:"kind"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
}

func (Employer) RecordKind() Kind { return KindEmployer }

// Note is free text attached to a project or person.
type Note struct {
	Kind      Kind       `json:"kind"`
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	ProjectID *string    `json:"project_id,omitempty"`
	PersonID  *string    `json:"person_id,omitempty"`
	Tags      []string   `json:"tags"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

func (Note) RecordKind() Kind { return KindNote }

// Reminder is a scheduled prompt.
type Reminder struct {
	Kind       Kind       `json:"kind"`
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	RemindTime *time.Time `json:"remind_time,omitempty"`
	Recurrence string     `json:"recurrence,omitempty"`
	Completed  bool       `json:"completed"`
	ProjectID  *string    `json:"project_id,omitempty"`
	Tags       []string   `json:"tags"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

func (Reminder) RecordKind() Kind { return KindReminder }

// DailyTotal is a read-only report row: hours worked on one day.
type DailyTotal struct {
	Kind     Kind    `json:"kind"`
	Date     string  `json:"date"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

func (DailyTotal) RecordKind() Kind { return KindDailyTotal }

// ProjectTotal is a read-only report row: hours worked on one project.
type ProjectTotal struct {
	Kind     Kind    `json:"kind"`
	Project  string  `json:"project"`
	Hours    float64 `json:"hours"`
	Sessions int     `json:"sessions"`
}

func (ProjectTotal) RecordKind() Kind { return KindProjectTotal }

// RawRecord is an untyped storage row keyed by storage column name.
type RawRecord map[string]any

// AggregateRow is an untyped aggregate row. GroupValues follow group_by order.
type AggregateRow struct {
	GroupValues []any
	Result      any
}
