package property

// SectionType names a section kind. The values are the stored "type" strings.
type SectionType string

// Section kinds.
const (
	TypeHero              SectionType = "hero"
	TypeImageWithFeatures SectionType = "imageWithFeatures"
	TypeGallery           SectionType = "gallery"
	TypeAmenities         SectionType = "amenities"
	TypePricing           SectionType = "pricing"
	TypeContact           SectionType = "contact"
	TypeLocation          SectionType = "location"
)

// SectionTypes lists every kind in catalogue order.
var SectionTypes = []SectionType{
	TypeHero,
	TypeImageWithFeatures,
	TypeGallery,
	TypeAmenities,
	TypePricing,
	TypeContact,
	TypeLocation,
}

// Valid reports whether t is one of the seven section kinds.
func (t SectionType) Valid() bool {
	for _, known := range SectionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Property is one listing page.
type Property struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Address     string      `json:"address"`
	Coordinates Coordinates `json:"coordinates"`
	Sections    []Section   `json:"sections"`
}

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Section is one block of a property page. Content holds the kind-specific fields.
//
// Extra keeps stored keys the section schema does not know, decoded as
// generic JSON values. They are written back unchanged on save and their
// strings are visited by MapStrings like any other field.
type Section struct {
	ID            string
	Style         *SectionStyle
	FloatingTexts []DraggableText
	Content       Content
	Extra         map[string]any
}

// Type returns the kind of the section's content.
func (s Section) Type() SectionType {
	if s.Content == nil {
		return ""
	}
	return s.Content.Type()
}

// TextStyle is the optional typography shared by text elements.
type TextStyle struct {
	FontFamily string `json:"fontFamily,omitempty"`
	FontSize   string `json:"fontSize,omitempty"`
	FontWeight string `json:"fontWeight,omitempty"`
	Color      string `json:"color,omitempty"`
	TextAlign  string `json:"textAlign,omitempty"`
}

// StyledText is a text element with typography.
type StyledText struct {
	Text string `json:"text"`
	TextStyle
}

// Position is an element offset inside its section, in percent.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DraggableText is a StyledText that the editor can move.
type DraggableText struct {
	ID       string   `json:"id,omitempty"`
	Text     string   `json:"text"`
	Position Position `json:"position"`
	TextStyle
}

// SectionStyle overrides the section background and text colour.
type SectionStyle struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	BackgroundImage string `json:"backgroundImage,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

// Icon names a glyph known to the rendering layer.
type Icon string

// Icons used for features and nearby places.
const (
	IconStore          Icon = "store"
	IconGym            Icon = "gym"
	IconSchool         Icon = "school"
	IconPark           Icon = "park"
	IconBus            Icon = "bus"
	IconGenericFeature Icon = "generic-feature"
	IconBed            Icon = "bed"
	IconBath           Icon = "bath"
	IconArea           Icon = "area"
	IconPool           Icon = "pool"
	IconParking        Icon = "parking"
	IconGarden         Icon = "garden"
)

// Feature is an icon and label in a feature or amenity list.
type Feature struct {
	ID   string `json:"id"`
	Icon Icon   `json:"icon"`
	Text string `json:"text"`
}

// GalleryImage is one gallery entry. URL is a blob reference.
type GalleryImage struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// NearbyPlace is a point of interest listed in a location section.
type NearbyPlace struct {
	ID   string `json:"id"`
	Icon Icon   `json:"icon"`
	Text string `json:"text"`
}

// Element is an addressable text element: StyledText or DraggableText.
type Element interface {
	isElement()
}

func (StyledText) isElement()    {}
func (DraggableText) isElement() {}

// StringFunc receives the path and value of a visited string and returns its replacement.
type StringFunc func(path, value string) string
