package property

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// sectionHeader holds the fields every stored section carries next to its content.
type sectionHeader struct {
	ID            string          `json:"id"`
	Type          SectionType     `json:"type"`
	Style         *SectionStyle   `json:"style,omitempty"`
	FloatingTexts []DraggableText `json:"floatingTexts,omitempty"`
}

// MarshalJSON writes the flat stored form: header fields and content fields in one object.
func (s Section) MarshalJSON() ([]byte, error) {
	if s.Content == nil {
		return nil, fmt.Errorf("%w: section %q has no content", ErrUnknownSectionType, s.ID)
	}

	body, err := json.Marshal(s.Content)
	if err != nil {
		return nil, fmt.Errorf("encoding %s content: %w", s.Content.Type(), err)
	}

	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("flattening %s content: %w", s.Content.Type(), err)
	}

	header, err := json.Marshal(sectionHeader{
		ID:            s.ID,
		Type:          s.Content.Type(),
		Style:         s.Style,
		FloatingTexts: s.FloatingTexts,
	})
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(header, &fields); err != nil {
		return nil, err
	}

	for k, v := range s.Extra {
		if _, known := fields[k]; known {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding section %q field %q: %w", s.ID, k, err)
		}
		fields[k] = raw
	}

	return json.Marshal(fields)
}

// UnmarshalJSON reads the flat stored form, selecting the content kind by "type".
func (s *Section) UnmarshalJSON(data []byte) error {
	var header sectionHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return err
	}

	content, err := decodeContent(header.Type, data)
	if err != nil {
		return fmt.Errorf("section %q: %w", header.ID, err)
	}

	*s = Section{
		ID:            header.ID,
		Style:         header.Style,
		FloatingTexts: header.FloatingTexts,
		Content:       content,
	}

	extra, err := unknownFields(*s, data)
	if err != nil {
		return fmt.Errorf("section %q: %w", header.ID, err)
	}
	s.Extra = extra
	return nil
}

// unknownFields returns the keys of data that s does not encode itself.
// A key counts as known when re-encoding s produces it.
func unknownFields(s Section, data []byte) (map[string]any, error) {
	var stored map[string]json.RawMessage
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}

	encoded, err := s.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var known map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &known); err != nil {
		return nil, err
	}
	for _, k := range []string{"id", "type", "style", "floatingTexts"} {
		known[k] = nil
	}

	var extra map[string]any
	for k, raw := range stored {
		if _, ok := known[k]; ok {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	return extra, nil
}

func decodeContent(t SectionType, data []byte) (Content, error) {
	switch t {
	case TypeHero:
		return decodeAs[Hero](data)
	case TypeImageWithFeatures:
		return decodeAs[ImageWithFeatures](data)
	case TypeGallery:
		return decodeAs[Gallery](data)
	case TypeAmenities:
		return decodeAs[Amenities](data)
	case TypePricing:
		return decodeAs[Pricing](data)
	case TypeContact:
		return decodeAs[Contact](data)
	case TypeLocation:
		return decodeAs[Location](data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
}

func decodeAs[T Content](data []byte) (Content, error) {
	var c T
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return c, nil
}

// DecodeCollection parses a stored property collection and validates it.
func DecodeCollection(data []byte) ([]Property, error) {
	var props []Property
	if err := json.Unmarshal(data, &props); err != nil {
		return nil, fmt.Errorf("decoding properties: %w", err)
	}
	if err := ValidateCollection(props); err != nil {
		return nil, err
	}
	if props == nil {
		props = []Property{}
	}
	return props, nil
}

// EncodeCollection serialises a property collection for storage.
func EncodeCollection(props []Property) (string, error) {
	if props == nil {
		props = []Property{}
	}
	data, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("encoding properties: %w", err)
	}
	return string(data), nil
}
