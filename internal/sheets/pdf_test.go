package sheets

import (
	"bytes"
	"testing"

	"ms-nametags/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExporter_OnePagePerThreeTags(t *testing.T) {
	exporter := NewPDFExporter(newTestRenderer(t, false))
	tags := []models.Tag{
		{ID: "1", Name1: "Ada"}, {ID: "2", Name1: "Grace"}, {ID: "3", Name1: "Edsger"},
		{ID: "4", Name1: "Barbara"},
	}

	var buf bytes.Buffer
	pages, err := exporter.Export(&buf, tags)

	require.NoError(t, err)
	assert.Equal(t, 2, pages)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFExporter_EmptyList(t *testing.T) {
	exporter := NewPDFExporter(newTestRenderer(t, false))

	var buf bytes.Buffer
	_, err := exporter.Export(&buf, nil)

	assert.ErrorIs(t, err, models.ErrNothingToExport)
	assert.Zero(t, buf.Len())
}
