package results

import (
	"encoding/json"
	"testing"

	"transmute/core/featureset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Adds(t *testing.T) {
	resp := &EditResponse{
		AddResults: []EditResult{
			{ObjectID: 2, Success: false, Error: &EditError{Description: "x"}},
			{ObjectID: 1, Success: true},
		},
	}

	lines, err := NewReport(resp).Adds()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Success - OID: 1",
		"Failure - OID: 2, 'x'",
	}, lines)
}

func TestReport_MissingCategory(t *testing.T) {
	report := NewReport(&EditResponse{AddResults: []EditResult{{ObjectID: 1, Success: true}}})

	_, err := report.Updates()
	assert.ErrorIs(t, err, ErrMissingResultCategory)
	assert.Contains(t, err.Error(), "updateResults")

	_, err = report.Deletes()
	assert.ErrorIs(t, err, ErrMissingResultCategory)

	_, err = NewReport(nil).Adds()
	assert.ErrorIs(t, err, ErrMissingResultCategory)
}

func TestReport_EmptyCategoryIsNotMissing(t *testing.T) {
	var resp EditResponse
	require.NoError(t, json.Unmarshal([]byte(`{"addResults": [], "deleteResults": []}`), &resp))

	lines, err := NewReport(&resp).Adds()
	assert.NoError(t, err)
	assert.Empty(t, lines)

	_, err = NewReport(&resp).Updates()
	assert.ErrorIs(t, err, ErrMissingResultCategory)
}

func TestReport_Tally(t *testing.T) {
	resp := &EditResponse{
		DeleteResults: []EditResult{
			{ObjectID: 1, Success: true},
			{ObjectID: 2, Success: true},
			{ObjectID: 3, Success: false, Error: &EditError{Code: 1000, Description: "locked"}},
		},
	}

	tally, err := NewReport(resp).Tally(CategoryDeletes)
	require.NoError(t, err)
	assert.Equal(t, Tally{Succeeded: 2, Failed: 1}, tally)

	lines, err := NewReport(resp).Deletes()
	require.NoError(t, err)
	assert.Equal(t, "Failure - OID: 3, 'locked (code 1000)'", lines[2])
}

func TestEditError_Decode(t *testing.T) {
	payload := `{
		"addResults": [
			{"objectId": 7, "success": false, "error": {"code": 1019, "description": "Invalid geometry."}},
			{"objectId": 8, "success": false, "error": "plain message"}
		]
	}`

	var resp EditResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))
	require.Len(t, resp.AddResults, 2)
	assert.Equal(t, &EditError{Code: 1019, Description: "Invalid geometry."}, resp.AddResults[0].Error)
	assert.Equal(t, &EditError{Description: "plain message"}, resp.AddResults[1].Error)
}

func TestEditResponse_DeletedObjectIDs(t *testing.T) {
	resp := &EditResponse{DeleteResults: []EditResult{
		{ObjectID: 1, Success: true},
		{ObjectID: 2, Success: false},
	}}
	assert.Equal(t, map[int64]struct{}{1: {}}, resp.DeletedObjectIDs())

	var none *EditResponse
	assert.Empty(t, none.DeletedObjectIDs())
}

func TestFormatFeatures(t *testing.T) {
	features := []featureset.Feature{
		{Attributes: map[string]any{"OBJECTID": json.Number("4")}, Geometry: json.RawMessage(`{"x":1,"y":2}`)},
		{Attributes: map[string]any{"NAME": "no id"}},
	}

	out := FormatFeatures(features, "OBJECTID")
	assert.Equal(t, "\tOID: 4, Geometry: {\"x\":1,\"y\":2}\n\tOID: -, Geometry: None", out)
}
