package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullableID_UnmarshalJSON(t *testing.T) {
	type body struct {
		AuthorID NullableID `json:"authorId"`
	}

	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantValue *uint
	}{
		{name: "absent", input: `{}`, wantSet: false},
		{name: "null", input: `{"authorId":null}`, wantSet: true},
		{name: "value", input: `{"authorId":3}`, wantSet: true, wantValue: ptr(uint(3))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b body
			require.NoError(t, json.Unmarshal([]byte(tt.input), &b))
			assert.Equal(t, tt.wantSet, b.AuthorID.Set)
			assert.Equal(t, tt.wantValue, b.AuthorID.Value)
		})
	}
}

func TestNullableID_RejectsNonNumber(t *testing.T) {
	var n NullableID
	assert.Error(t, json.Unmarshal([]byte(`"three"`), &n))
}

func TestBookPatch_Columns(t *testing.T) {
	title := "Distributed Systems"
	pages := 300

	cols := BookPatch{Title: &title, Pages: &pages, AuthorID: NullableID{Set: true}}.Columns()

	assert.Equal(t, map[string]any{
		"title":     "Distributed Systems",
		"pages":     300,
		"author_id": (*uint)(nil),
	}, cols)
	assert.Empty(t, BookPatch{}.Columns())
}

func ptr[T any](v T) *T { return &v }
