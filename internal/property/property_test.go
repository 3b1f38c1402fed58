package property

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewSection_AllTypes(t *testing.T) {
	for _, st := range SectionTypes {
		t.Run(string(st), func(t *testing.T) {
			s, err := NewSection(st, "abc")
			if err != nil {
				t.Fatalf("NewSection() error = %v", err)
			}
			if s.ID != string(st)+"-abc" {
				t.Errorf("ID = %q", s.ID)
			}
			if s.Type() != st {
				t.Errorf("Type() = %q, want %q", s.Type(), st)
			}
			for _, key := range s.Content.ElementKeys() {
				if _, ok := s.Content.Element(key); !ok {
					t.Errorf("Element(%q) not found", key)
				}
			}
		})
	}
}

func TestNewSection_UnknownType(t *testing.T) {
	_, err := NewSection("carousel", "x")
	if !errors.Is(err, ErrUnknownSectionType) {
		t.Errorf("NewSection() error = %v, want ErrUnknownSectionType", err)
	}
}

func TestSection_JSONFlatForm(t *testing.T) {
	s, _ := NewSection(TypeHero, "1")
	s.Style = &SectionStyle{BackgroundColor: "#fff"}
	s.FloatingTexts = []DraggableText{{ID: "ft-1", Text: "Oferta", Position: Position{X: 10, Y: 20}}}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var flat map[string]any
	if err := json.Unmarshal(data, &flat); err != nil {
		t.Fatalf("Unmarshal() into map error = %v", err)
	}
	for _, key := range []string{"id", "type", "style", "floatingTexts", "title", "subtitle", "buttonText", "backgroundImage"} {
		if _, ok := flat[key]; !ok {
			t.Errorf("flat form missing %q: %s", key, data)
		}
	}
	if flat["type"] != "hero" {
		t.Errorf("type = %v, want hero", flat["type"])
	}
	title := flat["title"].(map[string]any)
	if _, ok := title["position"]; !ok {
		t.Error("draggable title has no position")
	}
	if title["fontFamily"] != headingStyle.FontFamily {
		t.Errorf("text style not flattened: %v", title)
	}

	var back Section
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(back, s) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, s)
	}
}

func TestSection_KeepsUnknownFields(t *testing.T) {
	data := []byte(`{"id":"hero-9","type":"hero","buttonText":{"text":"Ver"},` +
		`"overlayOpacity":0.35,"badge":{"label":"Nuevo","colors":["#fff","#000"]}}`)

	var s Section
	if err := json.Unmarshal(data, &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(s.Extra) != 2 {
		t.Fatalf("Extra = %v, want overlayOpacity and badge", s.Extra)
	}
	if _, ok := s.Extra["buttonText"]; ok {
		t.Error("known field buttonText kept as extra")
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"overlayOpacity":0.35`, `"badge":{"colors":["#fff","#000"],"label":"Nuevo"}`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("encoded section missing %s: %s", want, out)
		}
	}
}

func TestSection_MapStringsVisitsExtra(t *testing.T) {
	s, err := NewSection(TypeGallery, "1")
	if err != nil {
		t.Fatalf("NewSection() error = %v", err)
	}
	s.Extra = map[string]any{
		"cover": "data:image/png;base64,AAAA",
		"slides": []any{
			map[string]any{"src": "data:image/png;base64,BBBB"},
		},
	}

	var paths []string
	out := s.MapStrings("p.sections[0]", func(path, v string) string {
		if strings.HasPrefix(v, "data:image") {
			paths = append(paths, path)
			return "img-x"
		}
		return v
	})

	want := map[string]bool{"p.sections[0].cover": true, "p.sections[0].slides[0].src": true}
	if len(paths) != len(want) {
		t.Fatalf("visited %v", paths)
	}
	for _, p := range paths {
		if !want[p] {
			t.Errorf("unexpected path %q", p)
		}
	}
	if out.Extra["cover"] != "img-x" {
		t.Errorf("cover = %v", out.Extra["cover"])
	}
	if s.Extra["cover"] != "data:image/png;base64,AAAA" {
		t.Error("MapStrings modified the input section")
	}
}

func TestNewProperty_NoPlacesEncodesEmptyList(t *testing.T) {
	p := NewProperty("Calle Mayor 1, Madrid", Coordinates{}, nil)
	out, err := EncodeCollection([]Property{p})
	if err != nil {
		t.Fatalf("EncodeCollection() error = %v", err)
	}
	if !strings.Contains(out, `"nearbyPlaces":[]`) {
		t.Errorf("encoded property lacks an empty nearbyPlaces list")
	}
}

func TestSection_UnmarshalUnknownType(t *testing.T) {
	var s Section
	err := json.Unmarshal([]byte(`{"id":"x-1","type":"carousel"}`), &s)
	if !errors.Is(err, ErrUnknownSectionType) {
		t.Errorf("Unmarshal() error = %v, want ErrUnknownSectionType", err)
	}
}

func TestCollection_RoundTrip(t *testing.T) {
	seed := SeedProperties()

	encoded, err := EncodeCollection(seed)
	if err != nil {
		t.Fatalf("EncodeCollection() error = %v", err)
	}
	decoded, err := DecodeCollection([]byte(encoded))
	if err != nil {
		t.Fatalf("DecodeCollection() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, seed) {
		t.Error("decoded collection differs from the encoded one")
	}
}

func TestDecodeCollection_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"duplicate property id", `[{"id":"a","sections":[]},{"id":"a","sections":[]}]`, ErrInvalidProperty},
		{"missing property id", `[{"name":"x","sections":[]}]`, ErrInvalidProperty},
		{"duplicate section id", `[{"id":"a","sections":[{"id":"s","type":"gallery"},{"id":"s","type":"pricing"}]}]`, ErrInvalidProperty},
		{"unknown section type", `[{"id":"a","sections":[{"id":"s","type":"video"}]}]`, ErrUnknownSectionType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeCollection([]byte(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("DecodeCollection() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := DecodeCollection([]byte("not json")); err == nil {
		t.Error("DecodeCollection() accepted malformed JSON")
	}
}

func TestContent_WithElement(t *testing.T) {
	s, _ := NewSection(TypeHero, "1")
	hero := s.Content.(Hero)

	t.Run("replaces matching kind", func(t *testing.T) {
		next, ok := hero.WithElement(KeyButtonText, StyledText{Text: "Llamar"})
		if !ok {
			t.Fatal("WithElement() = false")
		}
		if next.(Hero).ButtonText.Text != "Llamar" {
			t.Errorf("ButtonText = %q", next.(Hero).ButtonText.Text)
		}
		if hero.ButtonText.Text == "Llamar" {
			t.Error("receiver was modified")
		}
	})

	t.Run("rejects wrong kind", func(t *testing.T) {
		next, ok := hero.WithElement(KeyTitle, StyledText{Text: "x"})
		if ok {
			t.Fatal("WithElement() accepted StyledText for a draggable field")
		}
		if !reflect.DeepEqual(next, hero) {
			t.Error("failed WithElement did not return the receiver")
		}
	})

	t.Run("rejects unknown key", func(t *testing.T) {
		if _, ok := hero.WithElement("backgroundImage", StyledText{}); ok {
			t.Error("WithElement() accepted a non-element field")
		}
	})
}

func TestMapStrings_VisitsAndCopies(t *testing.T) {
	props := SeedProperties()
	before, _ := EncodeCollection(props)

	var paths []string
	out := MapCollection(props, func(path, v string) string {
		paths = append(paths, path)
		return strings.ToUpper(v)
	})

	after, _ := EncodeCollection(props)
	if before != after {
		t.Fatal("MapCollection modified its input")
	}

	for _, want := range []string{
		"properties[0].id",
		"properties[0].sections[0].backgroundImage",
		"properties[0].sections[0].title.text",
		"properties[0].sections[1].features[0].icon",
		"properties[0].sections[5].agentPhoto",
		"properties[0].sections[6].nearbyPlaces[2].text",
	} {
		found := false
		for _, p := range paths {
			if p == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("path %q not visited", want)
		}
	}

	hero := out[0].Sections[0].Content.(Hero)
	if hero.Title.Text != strings.ToUpper(props[0].Name) {
		t.Errorf("hero title = %q", hero.Title.Text)
	}
}

func TestClone_Independent(t *testing.T) {
	p := SeedProperties()[0]
	c := p.Clone()

	loc := c.Sections[6].Content.(Location)
	loc.NearbyPlaces[0].Text = "changed"

	if p.Sections[6].Content.(Location).NearbyPlaces[0].Text == "changed" {
		t.Error("clone shares nearby places with the original")
	}
}

func TestNewProperty(t *testing.T) {
	places := []NearbyPlace{NewNearbyPlace("Gym", "Gimnasio a 500 m")}
	p := NewProperty("Avenida del Sol 4, Sevilla", Coordinates{Lat: 37.38, Lng: -5.98}, places)

	if !strings.HasPrefix(p.ID, "prop-") {
		t.Errorf("ID = %q", p.ID)
	}
	if p.Name != "Avenida del Sol 4" {
		t.Errorf("Name = %q", p.Name)
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	var loc Location
	for _, s := range p.Sections {
		if l, ok := s.Content.(Location); ok {
			loc = l
		}
	}
	if len(loc.NearbyPlaces) != 1 || loc.NearbyPlaces[0].Icon != IconGym {
		t.Errorf("nearby places = %+v", loc.NearbyPlaces)
	}

	other := NewProperty("Avenida del Sol 4, Sevilla", Coordinates{}, nil)
	if other.ID == p.ID {
		t.Error("NewProperty() reused an id")
	}
}

func TestIconForCategory(t *testing.T) {
	tests := []struct {
		category string
		want     Icon
	}{
		{"supermarket", IconStore},
		{"Store", IconStore},
		{"GYM", IconGym},
		{"school", IconSchool},
		{"park", IconPark},
		{"transport", IconBus},
		{"hospital", IconGenericFeature},
		{"", IconGenericFeature},
	}

	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			if got := IconForCategory(tt.category); got != tt.want {
				t.Errorf("IconForCategory(%q) = %q, want %q", tt.category, got, tt.want)
			}
		})
	}
}

func TestSeedProperties_Valid(t *testing.T) {
	if err := ValidateCollection(SeedProperties()); err != nil {
		t.Fatalf("seed collection invalid: %v", err)
	}
}
