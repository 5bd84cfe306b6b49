package roster

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"ms-nametags/internal/models"
)

// rosterRecord is the CSV shape of an exported tag. Headers are the canonical
// field names, which are part of FieldAliases.
type rosterRecord struct {
	ID          string `csv:"id"`
	Name1       string `csv:"Name1"`
	Name2       string `csv:"Name2"`
	Yr          string `csv:"Yr"`
	Child       string `csv:"Child"`
	USEAdvanced string `csv:"USE_Advanced"`
	AcadOrgs    string `csv:"Acad_Orgs"`
}

// WriteCSV writes tags as a roster that Import accepts back.
func WriteCSV(w io.Writer, tags []models.Tag) error {
	records := make([]*rosterRecord, 0, len(tags))
	for _, t := range tags {
		records = append(records, &rosterRecord{
			ID:          t.ID,
			Name1:       t.Name1,
			Name2:       t.Name2,
			Yr:          t.Yr,
			Child:       t.Child,
			USEAdvanced: t.USEAdvanced,
			AcadOrgs:    t.AcadOrgs,
		})
	}
	if err := gocsv.Marshal(&records, w); err != nil {
		return fmt.Errorf("failed to write roster: %w", err)
	}
	return nil
}
