package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV(t *testing.T) {
	input := "\ufeffbuilding_id,title,title_en,lat,lng,completion_years,likes\n" +
		"1,東京駅,Tokyo Station,35.681236,139.767125,1914年,3\n" +
		"2,迎賓館,,,,1909,\n"

	records, err := parseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"building_id", "title", "title_en", "lat", "lng", "completion_years", "likes"}, records.columns)
	assert.True(t, records.hasID)
	require.Len(t, records.rows, 2)
	assert.Equal(t, []any{int64(1), "東京駅", "Tokyo Station", 35.681236, 139.767125, "1914年", int64(3)}, records.rows[0])
	assert.Equal(t, []any{int64(2), "迎賓館", nil, nil, nil, "1909", nil}, records.rows[1])
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{name: "empty file", input: "", wantErr: "failed to read header"},
		{name: "unknown column", input: "title,height\nA,3\n", wantErr: `unknown column "height"`},
		{name: "missing title column", input: "slug\na\n", wantErr: "header must include a title column"},
		{name: "blank title", input: "title,slug\n,a\n", wantErr: "line 2: title is required"},
		{name: "short record", input: "title,slug\nA\n", wantErr: "line 2: invalid record length"},
		{name: "bad latitude", input: "title,lat\nA,north\n", wantErr: "line 2: invalid lat"},
		{name: "NaN longitude", input: "title,lng\nA,NaN\n", wantErr: "not a finite number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportCommandRequiresFile(t *testing.T) {
	err := newApp().Run([]string{"importer", "import"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")
}
