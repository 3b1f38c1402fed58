// Package element addresses and edits individual text elements and section
// styles inside a property document.
//
// A Ref names a section, an element key inside it and, for floating texts,
// the id of one entry. Resolve turns a Ref into a Selection the rendering
// layer can show in its toolbar; Apply merges a Patch into the addressed
// element and returns a new Property. Both are pure: nothing is persisted
// and the input document is never modified.
//
// Resolution order for a Ref:
//  1. ElementKey "sectionStyle" selects the section style.
//  2. ElementKey "floatingTexts" with a SubElementID selects that floating text.
//  3. Any other key selects the named content element, as a draggable text
//     when it carries a position and a styled text otherwise.
//
// An unknown section id, element key or floating text id resolves to
// nothing; it is never an error.
package element
