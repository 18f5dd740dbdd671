package bdoc

import "sort"

// Dictionary representation of a document, shared by the JSON and YAML
// codecs. Field names follow the bdoc interchange layout, so files written
// here are readable by other bdoc implementations and vice versa.

type annDict struct {
	Type     string         `json:"type" yaml:"type"`
	Start    int            `json:"start" yaml:"start"`
	End      int            `json:"end" yaml:"end"`
	ID       int            `json:"id" yaml:"id"`
	Features map[string]any `json:"features" yaml:"features"`
}

type setDict struct {
	Name        string    `json:"name" yaml:"name"`
	Annotations []annDict `json:"annotations" yaml:"annotations"`
	NextAnnID   int       `json:"next_annid" yaml:"next_annid"`
}

type docDict struct {
	AnnotationSets map[string]setDict `json:"annotation_sets" yaml:"annotation_sets"`
	Text           string             `json:"text" yaml:"text"`
	Features       map[string]any     `json:"features" yaml:"features"`
	OffsetType     OffsetType         `json:"offset_type" yaml:"offset_type"`
	Name           string             `json:"name" yaml:"name"`
}

// toDict converts a document to its dictionary representation. When
// offsetType is non-empty and differs from the document's stored convention,
// annotation offsets are converted on the way out; the document itself is
// untouched.
func toDict(d *Document, offsetType OffsetType) (*docDict, error) {
	target := d.offsetType
	var mapper *offsetMapper
	if offsetType != "" && offsetType != d.offsetType {
		target = offsetType
		mapper = newOffsetMapper(d.text)
	}

	sets := make(map[string]setDict, len(d.setOrder))
	for _, name := range d.setOrder {
		s := d.sets[name]
		anns := make([]annDict, 0, s.Len())
		for _, ann := range s.Annotations() {
			start, end := ann.Start, ann.End
			if mapper != nil {
				var err error
				start, end, err = mapper.convertRange(start, end, d.offsetType, target)
				if err != nil {
					return nil, err
				}
			}
			anns = append(anns, annDict{
				Type:     ann.Type,
				Start:    start,
				End:      end,
				ID:       ann.ID,
				Features: ann.Features,
			})
		}
		sets[name] = setDict{Name: name, Annotations: anns, NextAnnID: s.nextID}
	}

	return &docDict{
		AnnotationSets: sets,
		Text:           d.text,
		Features:       d.features,
		OffsetType:     target,
		Name:           d.name,
	}, nil
}

// fromDict reconstructs a document from its dictionary representation.
// Offsets are taken as stored; no validation is performed.
func fromDict(dd *docDict) *Document {
	doc := NewDocument(dd.Text)
	doc.name = dd.Name
	if dd.OffsetType != "" {
		doc.offsetType = dd.OffsetType
	}
	if dd.Features != nil {
		doc.features = dd.Features
	}
	names := make([]string, 0, len(dd.AnnotationSets))
	for name := range dd.AnnotationSets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		// The map key wins over the embedded name field.
		sd := dd.AnnotationSets[name]
		set := doc.AnnSet(name)
		for _, ad := range sd.Annotations {
			set.put(&Annotation{
				ID:       ad.ID,
				Type:     ad.Type,
				Start:    ad.Start,
				End:      ad.End,
				Features: ad.Features,
			})
		}
		if sd.NextAnnID > 0 {
			set.setNextID(sd.NextAnnID)
		}
	}
	return doc
}
