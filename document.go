package bdoc

// OffsetType identifies the unit convention used to interpret annotation
// start/end integers.
type OffsetType string

const (
	// OffsetCodepoint counts Unicode code points ("python" offsets).
	OffsetCodepoint OffsetType = "p"

	// OffsetJava counts UTF-16 code units (the Java/JavaScript convention).
	OffsetJava OffsetType = "j"
)

// Annotation is a typed, offset-addressed range over a document's text.
// Fields are immutable by convention once the annotation is in a set.
type Annotation struct {
	ID       int
	Type     string
	Start    int
	End      int
	Features map[string]any
}

// AnnotationSet owns a collection of annotations with ids unique within the
// set. Iteration follows insertion order.
type AnnotationSet struct {
	name   string
	anns   map[int]*Annotation
	order  []int
	nextID int
}

// newAnnotationSet creates an empty set with the given name.
func newAnnotationSet(name string) *AnnotationSet {
	return &AnnotationSet{
		name: name,
		anns: make(map[int]*Annotation),
	}
}

// Name returns the set's name. The default set has the empty name.
func (s *AnnotationSet) Name() string { return s.name }

// Len returns the number of annotations in the set.
func (s *AnnotationSet) Len() int { return len(s.anns) }

// NextID returns the id the next call to Add will assign.
func (s *AnnotationSet) NextID() int { return s.nextID }

// Add creates an annotation with the next free id and returns it.
func (s *AnnotationSet) Add(start, end int, anntype string, features map[string]any) *Annotation {
	ann := &Annotation{
		ID:       s.nextID,
		Type:     anntype,
		Start:    start,
		End:      end,
		Features: features,
	}
	s.put(ann)
	return ann
}

// put inserts an annotation under its own id, advancing nextID past it.
// Loaders use this to honor ids carried by the input.
func (s *AnnotationSet) put(ann *Annotation) {
	if _, exists := s.anns[ann.ID]; !exists {
		s.order = append(s.order, ann.ID)
	}
	s.anns[ann.ID] = ann
	if ann.ID >= s.nextID {
		s.nextID = ann.ID + 1
	}
}

// setNextID overrides the next-id counter, used when a loader carries an
// explicit counter value.
func (s *AnnotationSet) setNextID(n int) { s.nextID = n }

// Get returns the annotation with the given id, or nil.
func (s *AnnotationSet) Get(id int) *Annotation { return s.anns[id] }

// Annotations returns the set's annotations in insertion order.
func (s *AnnotationSet) Annotations() []*Annotation {
	out := make([]*Annotation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.anns[id])
	}
	return out
}

// Document is immutable text plus document-level features plus named
// annotation sets. The codec layer never mutates a document except while
// incrementally constructing one during load.
type Document struct {
	text       string
	name       string
	offsetType OffsetType
	features   map[string]any
	sets       map[string]*AnnotationSet
	setOrder   []string
}

// NewDocument creates a document over the given text with codepoint offsets,
// no features and no annotation sets.
func NewDocument(text string) *Document {
	return &Document{
		text:       text,
		offsetType: OffsetCodepoint,
		features:   make(map[string]any),
		sets:       make(map[string]*AnnotationSet),
	}
}

// Text returns the document text.
func (d *Document) Text() string { return d.text }

// Name returns the document name, usually empty.
func (d *Document) Name() string { return d.name }

// SetName sets the document name.
func (d *Document) SetName(name string) { d.name = name }

// OffsetType returns the unit convention the document's offsets use.
func (d *Document) OffsetType() OffsetType { return d.offsetType }

// Features returns the document-level feature map. The returned map is the
// live map; callers may populate it before saving.
func (d *Document) Features() map[string]any { return d.features }

// AnnSet returns the annotation set with the given name, creating it if it
// does not exist. The empty name addresses the default set.
func (d *Document) AnnSet(name string) *AnnotationSet {
	if s, ok := d.sets[name]; ok {
		return s
	}
	s := newAnnotationSet(name)
	d.sets[name] = s
	d.setOrder = append(d.setOrder, name)
	return s
}

// SetNames returns the annotation set names in insertion order.
func (d *Document) SetNames() []string {
	out := make([]string, len(d.setOrder))
	copy(out, d.setOrder)
	return out
}

// Copy returns a deep copy of the document. Feature values are shared when
// they are not maps or slices; container values are copied recursively.
func (d *Document) Copy() *Document {
	out := NewDocument(d.text)
	out.name = d.name
	out.offsetType = d.offsetType
	out.features = copyFeatures(d.features)
	for _, name := range d.setOrder {
		src := d.sets[name]
		dst := out.AnnSet(name)
		for _, ann := range src.Annotations() {
			dst.put(&Annotation{
				ID:       ann.ID,
				Type:     ann.Type,
				Start:    ann.Start,
				End:      ann.End,
				Features: copyFeatures(ann.Features),
			})
		}
		dst.setNextID(src.nextID)
	}
	return out
}

// copyFeatures deep-copies a feature map, recursing into nested maps and
// slices. A nil map copies to nil.
func copyFeatures(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyFeatureValue(v)
	}
	return out
}

func copyFeatureValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return copyFeatures(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyFeatureValue(e)
		}
		return out
	default:
		return v
	}
}
