package element

import (
	"github.com/viahogar/viahogar-core/internal/property"
)

// Reserved element keys.
const (
	KeySectionStyle  = "sectionStyle"
	KeyFloatingTexts = "floatingTexts"
)

// Kind is the type of a resolved element.
type Kind string

// Element kinds.
const (
	KindStyledText    Kind = "styledText"
	KindDraggableText Kind = "draggableText"
	KindSectionStyle  Kind = "sectionStyle"
)

// Ref addresses one element of a property. It is transient editor state and
// is never persisted with the document.
type Ref struct {
	SectionID    string `json:"sectionId"`
	ElementKey   string `json:"elementKey"`
	SubElementID string `json:"subElementId,omitempty"`
}

// Selection is a resolved element. Data is a property.StyledText,
// property.DraggableText or property.SectionStyle according to Kind.
type Selection struct {
	Kind Kind `json:"type"`
	Data any  `json:"data"`
}

// Resolve looks up the element addressed by ref.
func Resolve(p property.Property, ref Ref) (Selection, bool) {
	i := p.SectionIndex(ref.SectionID)
	if i < 0 {
		return Selection{}, false
	}
	s := p.Sections[i]

	switch ref.ElementKey {
	case KeySectionStyle:
		style := property.SectionStyle{}
		if s.Style != nil {
			style = *s.Style
		}
		return Selection{Kind: KindSectionStyle, Data: style}, true

	case KeyFloatingTexts:
		if ref.SubElementID == "" {
			return Selection{}, false
		}
		for _, t := range s.FloatingTexts {
			if t.ID == ref.SubElementID {
				return Selection{Kind: KindDraggableText, Data: t}, true
			}
		}
		return Selection{}, false
	}

	if s.Content == nil {
		return Selection{}, false
	}
	el, ok := s.Content.Element(ref.ElementKey)
	if !ok {
		return Selection{}, false
	}
	switch v := el.(type) {
	case property.DraggableText:
		return Selection{Kind: KindDraggableText, Data: v}, true
	case property.StyledText:
		return Selection{Kind: KindStyledText, Data: v}, true
	}
	return Selection{}, false
}

// Apply merges patch into the element addressed by ref and returns the new
// property. Only the addressed section is rebuilt; the others are shared
// with p, which is left unchanged. When ref does not resolve Apply returns
// p and false.
func Apply(p property.Property, ref Ref, patch Patch) (property.Property, bool) {
	i := p.SectionIndex(ref.SectionID)
	if i < 0 {
		return p, false
	}
	s := p.Sections[i]

	switch ref.ElementKey {
	case KeySectionStyle:
		style := property.SectionStyle{}
		if s.Style != nil {
			style = *s.Style
		}
		style = patch.applyStyle(style)
		s.Style = &style
		return p.WithSection(i, s), true

	case KeyFloatingTexts:
		if ref.SubElementID == "" {
			return p, false
		}
		for j, t := range s.FloatingTexts {
			if t.ID != ref.SubElementID {
				continue
			}
			texts := make([]property.DraggableText, len(s.FloatingTexts))
			copy(texts, s.FloatingTexts)
			texts[j] = patch.applyDraggable(t)
			s.FloatingTexts = texts
			return p.WithSection(i, s), true
		}
		return p, false
	}

	if s.Content == nil {
		return p, false
	}
	el, ok := s.Content.Element(ref.ElementKey)
	if !ok {
		return p, false
	}

	var next property.Element
	switch v := el.(type) {
	case property.DraggableText:
		next = patch.applyDraggable(v)
	case property.StyledText:
		next = patch.applyStyled(v)
	default:
		return p, false
	}

	content, ok := s.Content.WithElement(ref.ElementKey, next)
	if !ok {
		return p, false
	}
	s.Content = content
	return p.WithSection(i, s), true
}
