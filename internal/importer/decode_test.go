package importer

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/christopherklint97/pontaj/internal/timesheet"
)

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"pontaj.csv":                          CSV,
		"/tmp/Export.JSON":                    JSON,
		"rows.yml":                            YAML,
		"rows.yaml":                           YAML,
		"book.xlsx":                           XLSX,
		"shifts.ics":                          ICS,
		"https://example.com/a/rows.csv?x=1":  CSV,
		"https://example.com/cal/feed.ics#me": ICS,
	}
	for src, want := range tests {
		got, err := FormatOf(src)
		require.NoError(t, err, src)
		assert.Equal(t, want, got, src)
	}

	_, err := FormatOf("notes.txt")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "notes.txt")
}

func TestDecodeCSV(t *testing.T) {
	in := "\ufeffdate,start,end,breakMin,notes\n" +
		"2025-09-01,08:00,16:00,30,\"client, on site\"\n" +
		"\n" +
		"2025-09-02,22:00,02:00\n"
	raw, err := Decode(strings.NewReader(in), CSV, nil)
	require.NoError(t, err)
	require.Len(t, raw, 2)
	assert.Equal(t, "client, on site", raw[0]["notes"])
	assert.Equal(t, "", raw[1]["breakMin"])

	rows := Sanitize(raw)
	require.Len(t, rows, 2)
	assert.Equal(t, 30, rows[0].BreakMin)
	assert.Equal(t, "2025-09-02", rows[1].Date)
}

func TestDecodeCSV_HeaderOnly(t *testing.T) {
	raw, err := Decode(strings.NewReader("date,start,end\n"), CSV, nil)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecodeJSON(t *testing.T) {
	list := `[{"date":"2025-09-01","start":"08:00","end":"12:00","breakMin":15}]`
	wrapped := `{"meta":{"worker":"Alice"},"rows":` + list + `}`

	for _, doc := range []string{list, wrapped} {
		raw, err := Decode(strings.NewReader(doc), JSON, nil)
		require.NoError(t, err)
		rows := Sanitize(raw)
		require.Len(t, rows, 1)
		assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "12:00", BreakMin: 15}, rows[0])
	}

	_, err := Decode(strings.NewReader(`{"shifts":[]}`), JSON, nil)
	require.Error(t, err)

	_, err = Decode(strings.NewReader(`[{`), JSON, nil)
	require.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	doc := `
rows:
  - data: "05/09/2025"
    inceput: "07:00"
    sfarsit: "15:00"
    pauza: 20
    ziUrmatoare: false
`
	raw, err := Decode(strings.NewReader(doc), YAML, nil)
	require.NoError(t, err)
	rows := Sanitize(raw)
	require.Len(t, rows, 1)
	assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-05", Start: "07:00", End: "15:00", BreakMin: 20}, rows[0])

	raw, err = Decode(strings.NewReader(""), YAML, nil)
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Data", "Start", "End", "Break(min)", "Next day"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{45900, "08:00", "16:00", 30, ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"02/09/2025", 0.9166666666666666, 0.25, 0, "da"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	raw, err := Decode(bytes.NewReader(buf.Bytes()), XLSX, nil)
	require.NoError(t, err)
	rows := Sanitize(raw)
	require.Len(t, rows, 2)
	assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "16:00", BreakMin: 30}, rows[0])
	assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-02", Start: "22:00", End: "06:00", NextDay: true}, rows[1])
}

const sampleICS = "BEGIN:VCALENDAR\r\n" +
	"VERSION:2.0\r\n" +
	"PRODID:-//pontaj//test//EN\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:day-shift\r\n" +
	"DTSTAMP:20250901T000000Z\r\n" +
	"DTSTART:20250901T080000Z\r\n" +
	"DTEND:20250901T163000Z\r\n" +
	"SUMMARY:Tura de zi\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:night-shift\r\n" +
	"DTSTAMP:20250901T000000Z\r\n" +
	"DTSTART:20250902T220000Z\r\n" +
	"DTEND:20250903T060000Z\r\n" +
	"SUMMARY:Tura de noapte\r\n" +
	"END:VEVENT\r\n" +
	"BEGIN:VEVENT\r\n" +
	"UID:holiday\r\n" +
	"DTSTAMP:20250901T000000Z\r\n" +
	"DTSTART;VALUE=DATE:20250905\r\n" +
	"DTEND;VALUE=DATE:20250906\r\n" +
	"SUMMARY:Concediu\r\n" +
	"END:VEVENT\r\n" +
	"END:VCALENDAR\r\n"

func TestDecodeICS(t *testing.T) {
	raw, err := Decode(strings.NewReader(sampleICS), ICS, time.UTC)
	require.NoError(t, err)
	rows := Sanitize(raw)
	require.Len(t, rows, 2)
	assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-01", Start: "08:00", End: "16:30", Notes: "Tura de zi"}, rows[0])
	assert.Equal(t, timesheet.ShiftRow{Date: "2025-09-02", Start: "22:00", End: "06:00", NextDay: true, Notes: "Tura de noapte"}, rows[1])
}

func TestDecodeICS_Location(t *testing.T) {
	loc := time.FixedZone("EEST", 3*60*60)
	raw, err := Decode(strings.NewReader(sampleICS), ICS, loc)
	require.NoError(t, err)
	rows := Sanitize(raw)
	require.Len(t, rows, 2)
	assert.Equal(t, "11:00", rows[0].Start)
	assert.Equal(t, "2025-09-03", rows[1].Date)
	assert.Equal(t, "01:00", rows[1].Start)
	assert.False(t, rows[1].NextDay)
}
