package entities

import (
	"bytes"
	"encoding/json"
)

// NullableID is an optional JSON id that tells apart a missing key, an
// explicit null and a value.
type NullableID struct {
	Set   bool
	Value *uint
}

func (n *NullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// BookPatch carries the book columns a partial update may touch. Nil
// fields are left as they are.
type BookPatch struct {
	Title       *string
	Subtitle    *string
	Published   *string
	Publisher   *string
	Pages       *int
	Description *string
	Website     *string
	AuthorID    NullableID
}

// Columns returns the column/value pairs to write.
func (p BookPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Subtitle != nil {
		cols["subtitle"] = *p.Subtitle
	}
	if p.Published != nil {
		cols["published"] = *p.Published
	}
	if p.Publisher != nil {
		cols["publisher"] = *p.Publisher
	}
	if p.Pages != nil {
		cols["pages"] = *p.Pages
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Website != nil {
		cols["website"] = *p.Website
	}
	if p.AuthorID.Set {
		cols["author_id"] = p.AuthorID.Value
	}
	return cols
}
