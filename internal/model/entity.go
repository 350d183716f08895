package model

// EntityType is one of the closed set of queryable domain kinds.
type EntityType string

const (
	EntityWorkSession EntityType = "work_session"
	EntityMeeting     EntityType = "meeting"
	EntityProject     EntityType = "project"
	EntityClient      EntityType = "client"
	EntityPerson      EntityType = "person"
	EntityEmployer    EntityType = "employer"
	EntityNote        EntityType = "note"
	EntityReminder    EntityType = "reminder"
)

// EntityTypes lists every entity type in registry order.
var EntityTypes = []EntityType{
	EntityWorkSession,
	EntityMeeting,
	EntityProject,
	EntityClient,
	EntityPerson,
	EntityEmployer,
	EntityNote,
	EntityReminder,
}

// Valid reports whether t is one of the closed set.
func (t EntityType) Valid() bool {
	for _, et := range EntityTypes {
		if et == t {
			return true
		}
	}
	return false
}

// ParseEntityType validates s as an entity type name.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", NewUnsupportedEntityTypeError(s)
	}
	return t, nil
}

func (t EntityType) String() string { return string(t) }

// Kind is the discriminator carried by converted result records.
// Every EntityType is a Kind; the derived kinds are read-only report rows.
type Kind string

const (
	KindWorkSession  Kind = Kind(EntityWorkSession)
	KindMeeting      Kind = Kind(EntityMeeting)
	KindProject      Kind = Kind(EntityProject)
	KindClient       Kind = Kind(EntityClient)
	KindPerson       Kind = Kind(EntityPerson)
	KindEmployer     Kind = Kind(EntityEmployer)
	KindNote         Kind = Kind(EntityNote)
	KindReminder     Kind = Kind(EntityReminder)
	KindDailyTotal   Kind = "daily_total"
	KindProjectTotal Kind = "project_total"
)

// Kinds lists every discriminator in reporting order.
var Kinds = []Kind{
	KindWorkSession,
	KindMeeting,
	KindProject,
	KindClient,
	KindPerson,
	KindEmployer,
	KindNote,
	KindReminder,
	KindDailyTotal,
	KindProjectTotal,
}

// IsTimeEntry reports whether records of this kind carry a duration in hours.
func (k Kind) IsTimeEntry() bool {
	return k == KindWorkSession || k == KindMeeting
}

// KindOf returns the discriminator for an entity type.
func KindOf(t EntityType) Kind {
	return Kind(t)
}

func (k Kind) String() string { return string(k) }
