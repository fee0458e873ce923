package dhis2

// Wire types for the tracker API. Field names follow the registry's JSON
// contract exactly.

// Attribute is a tracked entity attribute value.
type Attribute struct {
	Attribute string `json:"attribute"`
	Value     string `json:"value"`
}

// DataValue is a single data element value on an event.
type DataValue struct {
	DataElement string `json:"dataElement"`
	Value       string `json:"value"`
}

// Event is a program stage event.
type Event struct {
	Event        string      `json:"event,omitempty"`
	ProgramStage string      `json:"programStage,omitempty"`
	Program      string      `json:"program,omitempty"`
	OrgUnit      string      `json:"orgUnit,omitempty"`
	Status       string      `json:"status,omitempty"`
	OccurredAt   string      `json:"occurredAt,omitempty"`
	CompletedAt  string      `json:"completedAt,omitempty"`
	DataValues   []DataValue `json:"dataValues,omitempty"`
}

// Enrollment is a program enrollment with its events.
type Enrollment struct {
	Enrollment    string  `json:"enrollment,omitempty"`
	TrackedEntity string  `json:"trackedEntity,omitempty"`
	Program       string  `json:"program,omitempty"`
	Status        string  `json:"status,omitempty"`
	OrgUnit       string  `json:"orgUnit,omitempty"`
	EnrolledAt    string  `json:"enrolledAt,omitempty"`
	Events        []Event `json:"events,omitempty"`
}

// TrackedEntity is a registry person record.
type TrackedEntity struct {
	TrackedEntity     string       `json:"trackedEntity,omitempty"`
	TrackedEntityType string       `json:"trackedEntityType,omitempty"`
	OrgUnit           string       `json:"orgUnit,omitempty"`
	Attributes        []Attribute  `json:"attributes,omitempty"`
	Enrollments       []Enrollment `json:"enrollments,omitempty"`
}

// AttributeMap indexes the entity's attribute values by attribute ID.
func (t *TrackedEntity) AttributeMap() map[string]string {
	m := make(map[string]string, len(t.Attributes))
	for _, a := range t.Attributes {
		m[a.Attribute] = a.Value
	}
	return m
}

// TrackerPayload is the body of a tracker upsert.
type TrackerPayload struct {
	TrackedEntities []TrackedEntity `json:"trackedEntities"`
}

// searchResponse is the envelope of a tracked entity query.
type searchResponse struct {
	Instances []TrackedEntity `json:"instances"`
}

// idResponse is the envelope of an identifier reservation.
type idResponse struct {
	Codes []string `json:"codes"`
}

// OptionGroup is a named set of coded options.
type OptionGroup struct {
	Name    string   `json:"name"`
	Options []Option `json:"options"`
}

// Option is one coded choice in an option set or group.
type Option struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	SortOrder int    `json:"sortOrder,omitempty"`
}

// OptionSet carries the options of a data element.
type OptionSet struct {
	Options []Option `json:"options"`
}

// DataElement is the metadata of a single data element.
type DataElement struct {
	ID        string     `json:"id"`
	FormName  string     `json:"formName"`
	ValueType string     `json:"valueType"`
	OptionSet *OptionSet `json:"optionSet,omitempty"`
}

// ProgramStageDataElement binds a data element into a program stage.
type ProgramStageDataElement struct {
	DataElement DataElement `json:"dataElement"`
	SortOrder   int         `json:"sortOrder"`
	Compulsory  bool        `json:"compulsory"`
}

// ProgramStage is the metadata of a program stage.
type ProgramStage struct {
	Name                     string                    `json:"name"`
	ProgramStageDataElements []ProgramStageDataElement `json:"programStageDataElements"`
}
