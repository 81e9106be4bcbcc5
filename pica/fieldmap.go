package pica

// FieldMap is an insertion-ordered multimap from field tags to raw,
// unparsed content strings. It is the accumulator used by the raw-fields
// stream adapter and the unit a record database stores per ppn.
type FieldMap struct {
	contents map[string][]string
	order    []string
}

func NewFieldMap() *FieldMap {
	return &FieldMap{contents: make(map[string][]string)}
}

// Add appends content under tag, keeping the tag's first-seen position.
func (m *FieldMap) Add(tag, content string) {
	if _, ok := m.contents[tag]; !ok {
		m.order = append(m.order, tag)
	}
	m.contents[tag] = append(m.contents[tag], content)
}

// Get returns the contents stored under tag in insertion order, nil when
// the tag is absent.
func (m *FieldMap) Get(tag string) []string {
	return m.contents[tag]
}

// Has reports whether the tag is present.
func (m *FieldMap) Has(tag string) bool {
	_, ok := m.contents[tag]
	return ok
}

// Tags returns the distinct tags in order of first insertion.
func (m *FieldMap) Tags() []string {
	return m.order
}

// Len returns the number of distinct tags.
func (m *FieldMap) Len() int {
	return len(m.order)
}
