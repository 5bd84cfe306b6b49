package roster

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"ms-nametags/internal/models"
	"ms-nametags/internal/prompt"
	"ms-nametags/internal/utils"
)

// AppendPrompt is the question asked before importing into a non-empty list.
const AppendPrompt = "Append the imported tags to the current list? Choose cancel to replace the current list."

// backtickReplacer fixes the backtick some roster exports write in place of an apostrophe.
var backtickReplacer = strings.NewReplacer("`", "'")

// Result is the outcome of one import.
type Result struct {
	Tags   []models.Tag
	Added  int
	Append bool
}

// Mode names the merge mode for logs and metrics.
func (r Result) Mode() string {
	if r.Append {
		return "append"
	}
	return "replace"
}

// ParseCSV reads a roster with a header row into one map per data row.
// Blank lines are skipped. Short rows simply lack the trailing keys, extra
// cells beyond the header are dropped and a row with broken quoting is kept
// as far as it parsed. Only read errors from r are returned.
func ParseCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var header []string
	rows := []map[string]string{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read roster: %w", err)
			}
			if len(record) == 0 {
				continue
			}
		}

		if header == nil {
			header = make([]string, len(record))
			copy(header, record)
			header[0] = strings.TrimPrefix(header[0], "\uFEFF")
			continue
		}
		if isBlank(record) {
			continue
		}

		row := make(map[string]string, len(header))
		for i, value := range record {
			if i >= len(header) {
				break
			}
			if _, dup := row[header[i]]; dup {
				continue
			}
			row[header[i]] = backtickReplacer.Replace(value)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func isBlank(record []string) bool {
	return len(record) == 0 || (len(record) == 1 && record[0] == "")
}

// Merge turns parsed rows into tags and combines them with existing.
// Rows without an id get one from their position, offset by len(existing)
// when appending so they cannot collide with the tags already loaded.
func Merge(existing []models.Tag, rows []map[string]string, appendMode bool) Result {
	offset := 0
	if appendMode {
		offset = len(existing)
	}

	imported := make([]models.Tag, 0, len(rows))
	for i, row := range rows {
		tag := Resolve(row)
		tag.Selected = false
		if tag.ID == "" {
			tag.ID = utils.FallbackTagID(i + offset)
		}
		imported = append(imported, tag)
	}

	var tags []models.Tag
	if appendMode {
		tags = make([]models.Tag, 0, len(existing)+len(imported))
		tags = append(tags, existing...)
		tags = append(tags, imported...)
	} else {
		tags = imported
	}

	return Result{Tags: tags, Added: len(imported), Append: appendMode}
}

// Import decides the merge mode, parses the roster and merges it.
// The user is only asked when existing is non-empty; an empty list is always replaced.
func Import(r io.Reader, existing []models.Tag, d prompt.Decider) (Result, error) {
	appendMode := false
	if len(existing) > 0 {
		appendMode = d.Confirm(AppendPrompt)
	}

	rows, err := ParseCSV(r)
	if err != nil {
		return Result{}, err
	}
	return Merge(existing, rows, appendMode), nil
}
