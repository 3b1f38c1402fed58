package property

// Content is the kind-specific part of a Section. The seven implementations
// in this file are the only ones; the unexported method closes the set.
type Content interface {
	// Type returns the stored "type" string of the section kind.
	Type() SectionType

	// ElementKeys lists the named text elements in field order.
	ElementKeys() []string

	// Element returns the named text element.
	Element(key string) (Element, bool)

	// WithElement returns a copy with the named element replaced. When the
	// key is unknown or el is not the element's kind it returns the receiver
	// and false.
	WithElement(key string, el Element) (Content, bool)

	mapStrings(path string, fn StringFunc) Content
}

// Element keys shared by several section kinds.
const (
	KeyTitle       = "title"
	KeySubtitle    = "subtitle"
	KeyButtonText  = "buttonText"
	KeyDescription = "description"
	KeyPrice       = "price"
	KeyDetails     = "details"
	KeyAgentName   = "agentName"
)

// Hero is the full-width banner at the top of a page.
type Hero struct {
	Title           DraggableText `json:"title"`
	Subtitle        DraggableText `json:"subtitle"`
	ButtonText      StyledText    `json:"buttonText"`
	BackgroundImage string        `json:"backgroundImage"`
}

func (Hero) Type() SectionType { return TypeHero }

func (Hero) ElementKeys() []string { return []string{KeyTitle, KeySubtitle, KeyButtonText} }

func (h Hero) Element(key string) (Element, bool) {
	switch key {
	case KeyTitle:
		return h.Title, true
	case KeySubtitle:
		return h.Subtitle, true
	case KeyButtonText:
		return h.ButtonText, true
	}
	return nil, false
}

func (h Hero) WithElement(key string, el Element) (Content, bool) {
	next := h
	var ok bool
	switch key {
	case KeyTitle:
		next.Title, ok = el.(DraggableText)
	case KeySubtitle:
		next.Subtitle, ok = el.(DraggableText)
	case KeyButtonText:
		next.ButtonText, ok = el.(StyledText)
	}
	if !ok {
		return h, false
	}
	return next, true
}

func (h Hero) mapStrings(path string, fn StringFunc) Content {
	h.Title = h.Title.mapStrings(path+"."+KeyTitle, fn)
	h.Subtitle = h.Subtitle.mapStrings(path+"."+KeySubtitle, fn)
	h.ButtonText = h.ButtonText.mapStrings(path+"."+KeyButtonText, fn)
	h.BackgroundImage = fn(path+".backgroundImage", h.BackgroundImage)
	return h
}

// ImageWithFeatures pairs a picture with a feature list.
type ImageWithFeatures struct {
	Title       StyledText `json:"title"`
	Description StyledText `json:"description"`
	Image       string     `json:"image"`
	Features    []Feature  `json:"features"`
}

func (ImageWithFeatures) Type() SectionType { return TypeImageWithFeatures }

func (ImageWithFeatures) ElementKeys() []string { return []string{KeyTitle, KeyDescription} }

func (c ImageWithFeatures) Element(key string) (Element, bool) {
	switch key {
	case KeyTitle:
		return c.Title, true
	case KeyDescription:
		return c.Description, true
	}
	return nil, false
}

func (c ImageWithFeatures) WithElement(key string, el Element) (Content, bool) {
	next := c
	var ok bool
	switch key {
	case KeyTitle:
		next.Title, ok = el.(StyledText)
	case KeyDescription:
		next.Description, ok = el.(StyledText)
	}
	if !ok {
		return c, false
	}
	return next, true
}

func (c ImageWithFeatures) mapStrings(path string, fn StringFunc) Content {
	c.Title = c.Title.mapStrings(path+"."+KeyTitle, fn)
	c.Description = c.Description.mapStrings(path+"."+KeyDescription, fn)
	c.Image = fn(path+".image", c.Image)
	c.Features = mapFeatures(path+".features", c.Features, fn)
	return c
}

// Gallery is a grid of captioned images.
type Gallery struct {
	Title  StyledText     `json:"title"`
	Images []GalleryImage `json:"images"`
}

func (Gallery) Type() SectionType { return TypeGallery }

func (Gallery) ElementKeys() []string { return []string{KeyTitle} }

func (g Gallery) Element(key string) (Element, bool) {
	if key == KeyTitle {
		return g.Title, true
	}
	return nil, false
}

func (g Gallery) WithElement(key string, el Element) (Content, bool) {
	if key != KeyTitle {
		return g, false
	}
	next := g
	var ok bool
	next.Title, ok = el.(StyledText)
	if !ok {
		return g, false
	}
	return next, true
}

func (g Gallery) mapStrings(path string, fn StringFunc) Content {
	g.Title = g.Title.mapStrings(path+"."+KeyTitle, fn)
	if g.Images != nil {
		images := make([]GalleryImage, len(g.Images))
		for i, img := range g.Images {
			p := indexPath(path+".images", i)
			images[i] = GalleryImage{
				ID:      fn(p+".id", img.ID),
				URL:     fn(p+".url", img.URL),
				Caption: fn(p+".caption", img.Caption),
			}
		}
		g.Images = images
	}
	return g
}

// Amenities lists the facilities of the property.
type Amenities struct {
	Title     StyledText `json:"title"`
	Amenities []Feature  `json:"amenities"`
}

func (Amenities) Type() SectionType { return TypeAmenities }

func (Amenities) ElementKeys() []string { return []string{KeyTitle} }

func (a Amenities) Element(key string) (Element, bool) {
	if key == KeyTitle {
		return a.Title, true
	}
	return nil, false
}

func (a Amenities) WithElement(key string, el Element) (Content, bool) {
	if key != KeyTitle {
		return a, false
	}
	next := a
	var ok bool
	next.Title, ok = el.(StyledText)
	if !ok {
		return a, false
	}
	return next, true
}

func (a Amenities) mapStrings(path string, fn StringFunc) Content {
	a.Title = a.Title.mapStrings(path+"."+KeyTitle, fn)
	a.Amenities = mapFeatures(path+".amenities", a.Amenities, fn)
	return a
}

// Pricing shows the asking price.
type Pricing struct {
	Title   StyledText `json:"title"`
	Price   StyledText `json:"price"`
	Details StyledText `json:"details"`
}

func (Pricing) Type() SectionType { return TypePricing }

func (Pricing) ElementKeys() []string { return []string{KeyTitle, KeyPrice, KeyDetails} }

func (p Pricing) Element(key string) (Element, bool) {
	switch key {
	case KeyTitle:
		return p.Title, true
	case KeyPrice:
		return p.Price, true
	case KeyDetails:
		return p.Details, true
	}
	return nil, false
}

func (p Pricing) WithElement(key string, el Element) (Content, bool) {
	next := p
	var ok bool
	switch key {
	case KeyTitle:
		next.Title, ok = el.(StyledText)
	case KeyPrice:
		next.Price, ok = el.(StyledText)
	case KeyDetails:
		next.Details, ok = el.(StyledText)
	}
	if !ok {
		return p, false
	}
	return next, true
}

func (p Pricing) mapStrings(path string, fn StringFunc) Content {
	p.Title = p.Title.mapStrings(path+"."+KeyTitle, fn)
	p.Price = p.Price.mapStrings(path+"."+KeyPrice, fn)
	p.Details = p.Details.mapStrings(path+"."+KeyDetails, fn)
	return p
}

// Contact introduces the agent and opens the contact form.
type Contact struct {
	Title      DraggableText `json:"title"`
	Subtitle   StyledText    `json:"subtitle"`
	ButtonText StyledText    `json:"buttonText"`
	AgentName  StyledText    `json:"agentName"`
	AgentPhoto string        `json:"agentPhoto"`
}

func (Contact) Type() SectionType { return TypeContact }

func (Contact) ElementKeys() []string {
	return []string{KeyTitle, KeySubtitle, KeyButtonText, KeyAgentName}
}

func (c Contact) Element(key string) (Element, bool) {
	switch key {
	case KeyTitle:
		return c.Title, true
	case KeySubtitle:
		return c.Subtitle, true
	case KeyButtonText:
		return c.ButtonText, true
	case KeyAgentName:
		return c.AgentName, true
	}
	return nil, false
}

func (c Contact) WithElement(key string, el Element) (Content, bool) {
	next := c
	var ok bool
	switch key {
	case KeyTitle:
		next.Title, ok = el.(DraggableText)
	case KeySubtitle:
		next.Subtitle, ok = el.(StyledText)
	case KeyButtonText:
		next.ButtonText, ok = el.(StyledText)
	case KeyAgentName:
		next.AgentName, ok = el.(StyledText)
	}
	if !ok {
		return c, false
	}
	return next, true
}

func (c Contact) mapStrings(path string, fn StringFunc) Content {
	c.Title = c.Title.mapStrings(path+"."+KeyTitle, fn)
	c.Subtitle = c.Subtitle.mapStrings(path+"."+KeySubtitle, fn)
	c.ButtonText = c.ButtonText.mapStrings(path+"."+KeyButtonText, fn)
	c.AgentName = c.AgentName.mapStrings(path+"."+KeyAgentName, fn)
	c.AgentPhoto = fn(path+".agentPhoto", c.AgentPhoto)
	return c
}

// Location shows the map pin and what is nearby.
type Location struct {
	Title        StyledText    `json:"title"`
	Description  StyledText    `json:"description"`
	NearbyPlaces []NearbyPlace `json:"nearbyPlaces"`
}

func (Location) Type() SectionType { return TypeLocation }

func (Location) ElementKeys() []string { return []string{KeyTitle, KeyDescription} }

func (l Location) Element(key string) (Element, bool) {
	switch key {
	case KeyTitle:
		return l.Title, true
	case KeyDescription:
		return l.Description, true
	}
	return nil, false
}

func (l Location) WithElement(key string, el Element) (Content, bool) {
	next := l
	var ok bool
	switch key {
	case KeyTitle:
		next.Title, ok = el.(StyledText)
	case KeyDescription:
		next.Description, ok = el.(StyledText)
	}
	if !ok {
		return l, false
	}
	return next, true
}

func (l Location) mapStrings(path string, fn StringFunc) Content {
	l.Title = l.Title.mapStrings(path+"."+KeyTitle, fn)
	l.Description = l.Description.mapStrings(path+"."+KeyDescription, fn)
	if l.NearbyPlaces != nil {
		places := make([]NearbyPlace, len(l.NearbyPlaces))
		for i, np := range l.NearbyPlaces {
			p := indexPath(path+".nearbyPlaces", i)
			places[i] = NearbyPlace{
				ID:   fn(p+".id", np.ID),
				Icon: Icon(fn(p+".icon", string(np.Icon))),
				Text: fn(p+".text", np.Text),
			}
		}
		l.NearbyPlaces = places
	}
	return l
}
