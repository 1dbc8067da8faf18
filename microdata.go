package webmeta

// MicroItem is a microdata item as produced by a DocumentParser.
type MicroItem struct {
	// Type is the item type, usually a vocabulary URL such as
	// "http://schema.org/Product". Empty when the item declares no type.
	Type string

	// Properties in document order. Names are unique within an item;
	// repeated properties are grouped into one Property whose value is
	// a slice.
	Properties []Property
}

// Property is a named microdata property.
//
// Value is a scalar (string, bool or number), a nested *MicroItem, or a
// []any of those. Parsers in this module always produce a []any with one
// entry per occurrence.
type Property struct {
	Name  string
	Value any
}

// Property returns the value of the named property.
func (i *MicroItem) Property(name string) (any, bool) {
	for _, p := range i.Properties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}
