package element

import "github.com/viahogar/viahogar-core/internal/property"

// Patch is a partial update. Nil fields leave the element untouched; set
// fields replace the current value. Fields that do not apply to the
// addressed kind are ignored: Position only moves draggable texts, and the
// background and text colour fields only apply to section styles.
type Patch struct {
	Text       *string `json:"text,omitempty"`
	FontFamily *string `json:"fontFamily,omitempty"`
	FontSize   *string `json:"fontSize,omitempty"`
	FontWeight *string `json:"fontWeight,omitempty"`
	Color      *string `json:"color,omitempty"`
	TextAlign  *string `json:"textAlign,omitempty"`

	Position *property.Position `json:"position,omitempty"`

	BackgroundColor *string `json:"backgroundColor,omitempty"`
	BackgroundImage *string `json:"backgroundImage,omitempty"`
	TextColor       *string `json:"textColor,omitempty"`
}

// Empty reports whether the patch sets no field.
func (p Patch) Empty() bool {
	return p == Patch{}
}

// MapImages returns a copy with BackgroundImage passed through fn when set.
func (p Patch) MapImages(fn func(string) (string, error)) (Patch, error) {
	if p.BackgroundImage == nil {
		return p, nil
	}
	v, err := fn(*p.BackgroundImage)
	if err != nil {
		return p, err
	}
	p.BackgroundImage = &v
	return p, nil
}

func set(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func (p Patch) applyTextStyle(t property.TextStyle) property.TextStyle {
	set(&t.FontFamily, p.FontFamily)
	set(&t.FontSize, p.FontSize)
	set(&t.FontWeight, p.FontWeight)
	set(&t.Color, p.Color)
	set(&t.TextAlign, p.TextAlign)
	return t
}

func (p Patch) applyStyled(s property.StyledText) property.StyledText {
	set(&s.Text, p.Text)
	s.TextStyle = p.applyTextStyle(s.TextStyle)
	return s
}

func (p Patch) applyDraggable(d property.DraggableText) property.DraggableText {
	set(&d.Text, p.Text)
	d.TextStyle = p.applyTextStyle(d.TextStyle)
	if p.Position != nil {
		d.Position = *p.Position
	}
	return d
}

func (p Patch) applyStyle(s property.SectionStyle) property.SectionStyle {
	set(&s.BackgroundColor, p.BackgroundColor)
	set(&s.BackgroundImage, p.BackgroundImage)
	set(&s.TextColor, p.TextColor)
	return s
}
