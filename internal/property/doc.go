// Package property defines the listing document model.
//
// A Property is an ordered list of Sections. Each Section carries an id, an
// optional SectionStyle, optional free-floating DraggableTexts and exactly
// one Content value. Content is a closed union of seven section kinds:
//
//	hero, imageWithFeatures, gallery, amenities, pricing, contact, location
//
// Named text elements inside a Content are either StyledText (text plus
// typography) or DraggableText (StyledText plus a position). They are the
// elements an editor can address through internal/element.
//
// Values are immutable by convention. Helpers that change a document
// (Content.WithElement, Property.MapStrings, Property.WithSection) return new
// values and never write through shared slices.
//
// JSON encoding is flat, matching the stored documents:
//
//	{"id":"hero-1","type":"hero","style":{...},"title":{...},"subtitle":{...}}
package property
