package onepassword

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The codec below hand-walks JSON objects instead of relying on struct
// tags because encoding/json drops unknown members. Recognized keys are
// decoded into typed fields; everything else lands in Extra, in document
// order, and is merged back verbatim on marshal. Marshaling is
// deterministic: recognized keys first in a fixed order, then Extra.

// walkObject decodes a JSON object, handing each member's raw value to
// visit in document order.
func walkObject(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// objectWriter assembles a JSON object, collecting the first error.
type objectWriter struct {
	buf   bytes.Buffer
	wrote bool
	err   error
}

func (w *objectWriter) raw(key string, raw json.RawMessage) {
	if w.err != nil {
		return
	}
	keyBytes, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return
	}
	if w.wrote {
		w.buf.WriteByte(',')
	}
	w.buf.Write(keyBytes)
	w.buf.WriteByte(':')
	w.buf.Write(raw)
	w.wrote = true
}

func (w *objectWriter) field(key string, v interface{}) {
	if w.err != nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = err
		return
	}
	w.raw(key, data)
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	return append([]byte{'{'}, append(w.buf.Bytes(), '}')...), nil
}

// UnmarshalJSON decodes an item, routing unknown members into Extra.
func (it *Item) UnmarshalJSON(data []byte) error {
	*it = Item{}
	return walkObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "id":
			return json.Unmarshal(raw, &it.ID)
		case "title":
			return json.Unmarshal(raw, &it.Title)
		case "category":
			return json.Unmarshal(raw, &it.Category)
		case "sections":
			if isNull(raw) {
				return nil
			}
			return json.Unmarshal(raw, &it.Sections)
		case "fields":
			if isNull(raw) {
				return nil
			}
			return json.Unmarshal(raw, &it.Fields)
		default:
			it.Extra = append(it.Extra, Attr{Key: key, Value: raw})
			return nil
		}
	})
}

// MarshalJSON serializes the item deterministically. Sections and Fields
// are emitted only when present, so an item without a `fields` key
// round-trips without one.
func (it Item) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", it.ID)
	w.field("title", it.Title)
	w.field("category", it.Category)
	if it.Sections != nil {
		w.field("sections", it.Sections)
	}
	if it.Fields != nil {
		w.field("fields", it.Fields)
	}
	for _, attr := range it.Extra {
		w.raw(attr.Key, attr.Value)
	}
	return w.finish()
}

func (s *Section) UnmarshalJSON(data []byte) error {
	*s = Section{}
	return walkObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "id":
			return json.Unmarshal(raw, &s.ID)
		case "label":
			if isNull(raw) {
				return nil
			}
			return json.Unmarshal(raw, &s.Label)
		default:
			s.Extra = append(s.Extra, Attr{Key: key, Value: raw})
			return nil
		}
	})
}

func (s Section) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", s.ID)
	if s.Label != nil {
		w.field("label", *s.Label)
	}
	for _, attr := range s.Extra {
		w.raw(attr.Key, attr.Value)
	}
	return w.finish()
}

func (f *Field) UnmarshalJSON(data []byte) error {
	*f = Field{}
	return walkObject(data, func(key string, raw json.RawMessage) error {
		switch key {
		case "id":
			return json.Unmarshal(raw, &f.ID)
		case "section":
			if isNull(raw) {
				return nil
			}
			f.Section = &SectionRef{}
			return json.Unmarshal(raw, f.Section)
		case "type":
			return json.Unmarshal(raw, &f.Type)
		case "label":
			if isNull(raw) {
				return nil
			}
			return json.Unmarshal(raw, &f.Label)
		case "value":
			if isNull(raw) {
				return nil
			}
			return json.Unmarshal(raw, &f.Value)
		case "reference":
			return json.Unmarshal(raw, &f.Reference)
		default:
			f.Extra = append(f.Extra, Attr{Key: key, Value: raw})
			return nil
		}
	})
}

func (f Field) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", f.ID)
	if f.Section != nil {
		w.field("section", *f.Section)
	}
	if f.Type != "" {
		w.field("type", f.Type)
	}
	if f.Label != nil {
		w.field("label", *f.Label)
	}
	if f.Value != nil {
		w.field("value", *f.Value)
	}
	if f.Reference != "" {
		w.field("reference", f.Reference)
	}
	for _, attr := range f.Extra {
		w.raw(attr.Key, attr.Value)
	}
	return w.finish()
}

func (r *SectionRef) UnmarshalJSON(data []byte) error {
	*r = SectionRef{}
	return walkObject(data, func(key string, raw json.RawMessage) error {
		if key == "id" {
			return json.Unmarshal(raw, &r.ID)
		}
		r.Extra = append(r.Extra, Attr{Key: key, Value: raw})
		return nil
	})
}

func (r SectionRef) MarshalJSON() ([]byte, error) {
	var w objectWriter
	w.field("id", r.ID)
	for _, attr := range r.Extra {
		w.raw(attr.Key, attr.Value)
	}
	return w.finish()
}
