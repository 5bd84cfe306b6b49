package models

// Tag is one person's nametag as imported from a roster row.
// JSON names match the roster headers so persisted data stays readable.
type Tag struct {
	ID          string `json:"id"`
	Name1       string `json:"Name1"`
	Name2       string `json:"Name2"`
	Yr          string `json:"Yr"`
	Child       string `json:"Child"`
	USEAdvanced string `json:"USE_Advanced"`
	AcadOrgs    string `json:"Acad_Orgs"`
	Selected    bool   `json:"selected"`
}

// TagField names a string field of a Tag.
type TagField string

const (
	FieldID          TagField = "id"
	FieldName1       TagField = "Name1"
	FieldName2       TagField = "Name2"
	FieldYr          TagField = "Yr"
	FieldChild       TagField = "Child"
	FieldUSEAdvanced TagField = "USE_Advanced"
	FieldAcadOrgs    TagField = "Acad_Orgs"
)

// EditableFields lists the fields a user may change inline. The id is not one of them.
var EditableFields = []TagField{
	FieldName1,
	FieldName2,
	FieldYr,
	FieldChild,
	FieldUSEAdvanced,
	FieldAcadOrgs,
}

// IsEditable reports whether f is one of EditableFields.
func (f TagField) IsEditable() bool {
	for _, e := range EditableFields {
		if e == f {
			return true
		}
	}
	return false
}

// Get returns the value of field, or "" for an unknown field.
func (t Tag) Get(field TagField) string {
	switch field {
	case FieldID:
		return t.ID
	case FieldName1:
		return t.Name1
	case FieldName2:
		return t.Name2
	case FieldYr:
		return t.Yr
	case FieldChild:
		return t.Child
	case FieldUSEAdvanced:
		return t.USEAdvanced
	case FieldAcadOrgs:
		return t.AcadOrgs
	}
	return ""
}

// Set assigns value to field and reports whether the field exists.
func (t *Tag) Set(field TagField, value string) bool {
	switch field {
	case FieldID:
		t.ID = value
	case FieldName1:
		t.Name1 = value
	case FieldName2:
		t.Name2 = value
	case FieldYr:
		t.Yr = value
	case FieldChild:
		t.Child = value
	case FieldUSEAdvanced:
		t.USEAdvanced = value
	case FieldAcadOrgs:
		t.AcadOrgs = value
	default:
		return false
	}
	return true
}
