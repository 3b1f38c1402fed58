package property

import "strconv"

// MapStrings returns a copy of p with every string field passed through fn.
//
// The path passed to fn locates the field from root, for example
// "properties[0].sections[2].backgroundImage". Every string is visited,
// identifiers included, and fn must return the value unchanged for fields it
// does not rewrite. New slices are built along the way, so p is never
// modified even when fn changes nothing.
func (p Property) MapStrings(root string, fn StringFunc) Property {
	out := Property{
		ID:          fn(root+".id", p.ID),
		Name:        fn(root+".name", p.Name),
		Address:     fn(root+".address", p.Address),
		Coordinates: p.Coordinates,
	}
	if p.Sections != nil {
		out.Sections = make([]Section, len(p.Sections))
		for i, s := range p.Sections {
			out.Sections[i] = s.MapStrings(indexPath(root+".sections", i), fn)
		}
	}
	return out
}

// MapStrings returns a copy of s with every string field passed through fn.
func (s Section) MapStrings(root string, fn StringFunc) Section {
	out := Section{ID: fn(root+".id", s.ID)}

	if s.Style != nil {
		out.Style = &SectionStyle{
			BackgroundColor: fn(root+".style.backgroundColor", s.Style.BackgroundColor),
			BackgroundImage: fn(root+".style.backgroundImage", s.Style.BackgroundImage),
			TextColor:       fn(root+".style.textColor", s.Style.TextColor),
		}
	}

	if s.FloatingTexts != nil {
		out.FloatingTexts = make([]DraggableText, len(s.FloatingTexts))
		for i, t := range s.FloatingTexts {
			out.FloatingTexts[i] = t.mapStrings(indexPath(root+".floatingTexts", i), fn)
		}
	}

	if s.Content != nil {
		out.Content = s.Content.mapStrings(root, fn)
	}

	if s.Extra != nil {
		out.Extra = make(map[string]any, len(s.Extra))
		for k, v := range s.Extra {
			out.Extra[k] = mapValue(root+"."+k, v, fn)
		}
	}
	return out
}

// mapValue rewrites the strings inside a generic JSON value.
func mapValue(path string, v any, fn StringFunc) any {
	switch t := v.(type) {
	case string:
		return fn(path, t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = mapValue(path+"."+k, e, fn)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = mapValue(indexPath(path, i), e, fn)
		}
		return out
	default:
		return v
	}
}

// Clone returns a deep copy of p.
func (p Property) Clone() Property {
	return p.MapStrings("", keep)
}

// MapCollection applies MapStrings to each property under the "properties" root.
func MapCollection(props []Property, fn StringFunc) []Property {
	if props == nil {
		return nil
	}
	out := make([]Property, len(props))
	for i, p := range props {
		out[i] = p.MapStrings(indexPath("properties", i), fn)
	}
	return out
}

func keep(_, v string) string { return v }

func indexPath(prefix string, i int) string {
	return prefix + "[" + strconv.Itoa(i) + "]"
}

func (t TextStyle) mapStrings(path string, fn StringFunc) TextStyle {
	return TextStyle{
		FontFamily: fn(path+".fontFamily", t.FontFamily),
		FontSize:   fn(path+".fontSize", t.FontSize),
		FontWeight: fn(path+".fontWeight", t.FontWeight),
		Color:      fn(path+".color", t.Color),
		TextAlign:  fn(path+".textAlign", t.TextAlign),
	}
}

func (s StyledText) mapStrings(path string, fn StringFunc) StyledText {
	return StyledText{
		Text:      fn(path+".text", s.Text),
		TextStyle: s.TextStyle.mapStrings(path, fn),
	}
}

func (d DraggableText) mapStrings(path string, fn StringFunc) DraggableText {
	return DraggableText{
		ID:        fn(path+".id", d.ID),
		Text:      fn(path+".text", d.Text),
		Position:  d.Position,
		TextStyle: d.TextStyle.mapStrings(path, fn),
	}
}

func mapFeatures(path string, in []Feature, fn StringFunc) []Feature {
	if in == nil {
		return nil
	}
	out := make([]Feature, len(in))
	for i, f := range in {
		p := indexPath(path, i)
		out[i] = Feature{
			ID:   fn(p+".id", f.ID),
			Icon: Icon(fn(p+".icon", string(f.Icon))),
			Text: fn(p+".text", f.Text),
		}
	}
	return out
}

// WithSection returns a copy of p with the section at index i replaced.
// The sections slice is copied; the sections themselves are shared.
func (p Property) WithSection(i int, s Section) Property {
	sections := make([]Section, len(p.Sections))
	copy(sections, p.Sections)
	sections[i] = s
	p.Sections = sections
	return p
}

// SectionIndex returns the index of the section with the given id, or -1.
func (p Property) SectionIndex(id string) int {
	for i, s := range p.Sections {
		if s.ID == id {
			return i
		}
	}
	return -1
}
