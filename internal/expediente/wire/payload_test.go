package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expediente/internal/expediente/models"
	"expediente/internal/fusion/sanitize"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "iso", input: "2025-01-15", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "compact", input: "20250115", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "padded", input: " 2025-01-15 ", want: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)},
		{name: "blank", input: "  "},
		{name: "annotation", input: "No se cuenta"},
		{name: "impossible day", input: "2025-02-30", wantErr: true},
		{name: "slashes", input: "15/01/2025", wantErr: true},
		{name: "with time", input: "2025-01-15T10:00:00Z", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestRecordPayload_ToRecord(t *testing.T) {
	p := RecordPayload{
		CaseNumber:    "123/2025",
		TaxID:         "ABC850101XY9",
		ReceptionDate: "20250115",
		DueDate:       "N/A",
		Parties: []PartyPayload{
			{Name: "Juan", TaxID: "PEGJ800101AB1"},
			{Role: "Autoridad", Name: "SAT"},
		},
	}

	rec, dropped := p.ToRecord()
	assert.Empty(t, dropped)

	assert.Equal(t, "123/2025", rec.CaseNumber)
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), rec.ReceptionDate)
	assert.True(t, rec.DueDate.IsZero())
	require.Len(t, rec.Parties, 2)
	assert.Equal(t, models.RoleTitular, rec.Parties[0].Role, "first party defaults to titleholder")
	assert.Equal(t, "Autoridad", rec.Parties[1].Role)
}

func TestRecordPayload_ToRecordDropsOnlyBadDates(t *testing.T) {
	tests := []struct {
		name        string
		payload     RecordPayload
		wantDropped []string
	}{
		{
			name:        "ocr letter in reception date",
			payload:     RecordPayload{CaseNumber: "123/2025", TaxID: "PEGJ800101AB1", ReceptionDate: "2O250115", DueDate: "2025-03-01"},
			wantDropped: []string{"reception_date"},
		},
		{
			name:        "impossible month and slashed day",
			payload:     RecordPayload{CaseNumber: "123/2025", TaxID: "PEGJ800101AB1", FilingDate: "2025-13-01", DueDate: "01/03/2025"},
			wantDropped: []string{"filing_date", "due_date"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, dropped := tt.payload.ToRecord()

			assert.Equal(t, tt.wantDropped, dropped)
			assert.Equal(t, "123/2025", rec.CaseNumber)
			assert.Equal(t, "PEGJ800101AB1", rec.TaxID)
			assert.True(t, rec.ReceptionDate.IsZero())
			assert.True(t, rec.FilingDate.IsZero())
		})
	}
}

func TestRecordPayload_ToRecordWithAnnotations(t *testing.T) {
	p := RecordPayload{DueDate: "Pendiente de captura", FilingDate: "2025-01-10"}

	_, dropped := p.ToRecord()
	assert.Equal(t, []string{"due_date"}, dropped, "unknown annotation is a malformed date")

	rec, dropped := p.ToRecordWith(sanitize.New("pendiente de captura"))
	assert.Empty(t, dropped)
	assert.True(t, rec.DueDate.IsZero())
	assert.Equal(t, time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC), rec.FilingDate)
}

func TestFromRecord(t *testing.T) {
	rec := models.Record{
		Court:         "Juzgado Primero",
		ReceptionDate: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Parties:       []models.Party{{Role: models.RoleTitular, Name: "Juan"}},
	}

	p := FromRecord(rec)

	assert.Equal(t, "2025-01-15", p.ReceptionDate)
	assert.Empty(t, p.FilingDate)
	require.Len(t, p.Parties, 1)
	assert.Equal(t, "Juan", p.Parties[0].Name)

	back, dropped := p.ToRecord()
	assert.Empty(t, dropped)
	assert.Equal(t, rec, back)
}
