package roster

import "ms-nametags/internal/models"

// FieldAlias lists the roster headers accepted for one tag field, in priority order.
type FieldAlias struct {
	Field   models.TagField
	Headers []string
}

// FieldAliases is the static header table. Matching is case-exact and the
// first header present in a row wins. Each list ends with the canonical name
// so an exported roster re-imports cleanly.
var FieldAliases = []FieldAlias{
	{Field: models.FieldID, Headers: []string{"ConstituentId", "Common Id", "CUID", "id"}},
	{Field: models.FieldName1, Headers: []string{"First Name", "FirstName", "Preferred Name", "Name1"}},
	{Field: models.FieldName2, Headers: []string{"Last Name", "LastName", "Surname", "Name2"}},
	{Field: models.FieldYr, Headers: []string{"Class Year", "Year", "Class", "Yr"}},
	{Field: models.FieldChild, Headers: []string{"Child Name", "Child", "Student"}},
	{Field: models.FieldUSEAdvanced, Headers: []string{"USE Advanced", "Advanced", "USE_Advanced"}},
	{Field: models.FieldAcadOrgs, Headers: []string{"Academic Orgs", "Academic Organizations", "Organizations", "Acad_Orgs"}},
}

// Resolve maps a parsed roster row onto a Tag. Fields with no matching
// header stay empty; unknown headers are ignored. Selected is always false.
func Resolve(row map[string]string) models.Tag {
	var tag models.Tag
	for _, alias := range FieldAliases {
		for _, header := range alias.Headers {
			if value, ok := row[header]; ok {
				tag.Set(alias.Field, value)
				break
			}
		}
	}
	return tag
}
