package property

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Default typography for new sections.
var (
	headingStyle = TextStyle{FontFamily: "Playfair Display", FontSize: "3rem", FontWeight: "700"}
	bodyStyle    = TextStyle{FontFamily: "Inter", FontSize: "1rem", FontWeight: "400"}
	buttonStyle  = TextStyle{FontFamily: "Inter", FontSize: "1rem", FontWeight: "600"}
)

const placeholderImage = "https://images.unsplash.com/photo-1600585154340-be6161a56a0c?w=1600"

// NewSection builds a section of kind t with placeholder content and id "<t>-<suffix>".
func NewSection(t SectionType, suffix string) (Section, error) {
	id := string(t) + "-" + suffix

	var content Content
	switch t {
	case TypeHero:
		content = Hero{
			Title: DraggableText{
				ID: id + "-title", Text: "Tu nuevo hogar te espera",
				Position: Position{X: 50, Y: 40}, TextStyle: headingStyle,
			},
			Subtitle: DraggableText{
				ID: id + "-subtitle", Text: "Descubre un espacio pensado para ti",
				Position: Position{X: 50, Y: 55}, TextStyle: bodyStyle,
			},
			ButtonText:      StyledText{Text: "Contactar", TextStyle: buttonStyle},
			BackgroundImage: placeholderImage,
		}
	case TypeImageWithFeatures:
		content = ImageWithFeatures{
			Title:       StyledText{Text: "Características principales", TextStyle: headingStyle},
			Description: StyledText{Text: "Una vivienda luminosa con acabados de calidad.", TextStyle: bodyStyle},
			Image:       placeholderImage,
			Features: []Feature{
				{ID: id + "-f1", Icon: IconBed, Text: "3 dormitorios"},
				{ID: id + "-f2", Icon: IconBath, Text: "2 baños"},
				{ID: id + "-f3", Icon: IconArea, Text: "120 m²"},
			},
		}
	case TypeGallery:
		content = Gallery{
			Title:  StyledText{Text: "Galería", TextStyle: headingStyle},
			Images: []GalleryImage{},
		}
	case TypeAmenities:
		content = Amenities{
			Title: StyledText{Text: "Comodidades", TextStyle: headingStyle},
			Amenities: []Feature{
				{ID: id + "-a1", Icon: IconPool, Text: "Piscina comunitaria"},
				{ID: id + "-a2", Icon: IconParking, Text: "Plaza de garaje"},
				{ID: id + "-a3", Icon: IconGarden, Text: "Jardín privado"},
			},
		}
	case TypePricing:
		content = Pricing{
			Title:   StyledText{Text: "Precio", TextStyle: headingStyle},
			Price:   StyledText{Text: "Consultar", TextStyle: TextStyle{FontSize: "2.5rem", FontWeight: "700"}},
			Details: StyledText{Text: "Gastos de comunidad incluidos.", TextStyle: bodyStyle},
		}
	case TypeContact:
		content = Contact{
			Title: DraggableText{
				ID: id + "-title", Text: "¿Te interesa esta propiedad?",
				Position: Position{X: 50, Y: 20}, TextStyle: headingStyle,
			},
			Subtitle:   StyledText{Text: "Escríbenos y te responderemos en menos de 24 horas.", TextStyle: bodyStyle},
			ButtonText: StyledText{Text: "Enviar mensaje", TextStyle: buttonStyle},
			AgentName:  StyledText{Text: "Agente Vía Hogar", TextStyle: bodyStyle},
			AgentPhoto: "",
		}
	case TypeLocation:
		content = Location{
			Title:        StyledText{Text: "Ubicación", TextStyle: headingStyle},
			Description:  StyledText{Text: "Una zona tranquila y bien comunicada.", TextStyle: bodyStyle},
			NearbyPlaces: []NearbyPlace{},
		}
	default:
		return Section{}, fmt.Errorf("%w: %q", ErrUnknownSectionType, t)
	}

	return Section{ID: id, Content: content}, nil
}

// mustSection is NewSection for kinds known to be valid.
func mustSection(t SectionType, suffix string) Section {
	s, err := NewSection(t, suffix)
	if err != nil {
		panic(err)
	}
	return s
}

// NewProperty builds a property page for address with the default section set.
// The location section lists places; nil is stored as an empty list.
func NewProperty(address string, coords Coordinates, places []NearbyPlace) Property {
	id := "prop-" + uuid.NewString()
	suffix := id[len("prop-"):][:8]

	if places == nil {
		places = []NearbyPlace{}
	}

	sections := make([]Section, 0, len(SectionTypes))
	for _, t := range []SectionType{
		TypeHero, TypeImageWithFeatures, TypeGallery, TypeAmenities,
		TypePricing, TypeLocation, TypeContact,
	} {
		s := mustSection(t, suffix)
		switch c := s.Content.(type) {
		case Hero:
			c.Title.Text = nameFromAddress(address)
			c.Subtitle.Text = address
			s.Content = c
		case Location:
			c.NearbyPlaces = append(make([]NearbyPlace, 0, len(places)), places...)
			s.Content = c
		}
		sections = append(sections, s)
	}

	return Property{
		ID:          id,
		Name:        nameFromAddress(address),
		Address:     address,
		Coordinates: coords,
		Sections:    sections,
	}
}

// NewNearbyPlace builds a nearby place entry from a generator category.
func NewNearbyPlace(category, description string) NearbyPlace {
	return NearbyPlace{
		ID:   "place-" + uuid.NewString(),
		Icon: IconForCategory(category),
		Text: description,
	}
}

// nameFromAddress uses the first comma-separated part of the address.
func nameFromAddress(address string) string {
	name, _, _ := strings.Cut(address, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return strings.TrimSpace(address)
	}
	return name
}

// IconForCategory maps a place-generator category to an icon, case-insensitively.
func IconForCategory(category string) Icon {
	switch strings.ToLower(category) {
	case "supermarket", "store":
		return IconStore
	case "gym":
		return IconGym
	case "school":
		return IconSchool
	case "park":
		return IconPark
	case "transport":
		return IconBus
	default:
		return IconGenericFeature
	}
}

// SeedProperties returns the collection shown before anything has been saved.
func SeedProperties() []Property {
	villa := Property{
		ID:          "prop-1",
		Name:        "Villa Mediterránea",
		Address:     "Calle del Mar 12, Marbella, España",
		Coordinates: Coordinates{Lat: 36.5101, Lng: -4.8824},
	}
	for _, t := range SectionTypes {
		villa.Sections = append(villa.Sections, mustSection(t, "1"))
	}
	villa = seedText(villa)

	return []Property{villa}
}

func seedText(p Property) Property {
	for i, s := range p.Sections {
		switch c := s.Content.(type) {
		case Hero:
			c.Title.Text = p.Name
			c.Subtitle.Text = "Vistas al mar a cinco minutos de la playa"
			p.Sections[i].Content = c
		case Pricing:
			c.Price.Text = "850.000 €"
			p.Sections[i].Content = c
		case Location:
			c.NearbyPlaces = []NearbyPlace{
				{ID: "place-1", Icon: IconStore, Text: "Supermercado a 300 m"},
				{ID: "place-2", Icon: IconSchool, Text: "Colegio internacional a 1 km"},
				{ID: "place-3", Icon: IconBus, Text: "Parada de autobús a 200 m"},
			}
			p.Sections[i].Content = c
		}
	}
	return p
}
