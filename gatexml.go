package bdoc

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/antchfx/xmlquery"
)

// Java class names declaring GATE feature value types.
const (
	gateClassString  = "java.lang.String"
	gateClassInteger = "java.lang.Integer"
	gateClassLong    = "java.lang.Long"
	gateClassDecimal = "java.math.BigDecimal"
	gateClassBoolean = "java.lang.Boolean"
)

// parseGateFeatures converts GATE Feature elements into a feature map.
// Unknown declared value types are fatal unless lenient is set, in which
// case the feature is dropped with a diagnostic.
func parseGateFeatures(ctx context.Context, feats []*xmlquery.Node, lenient bool) (map[string]any, error) {
	features := make(map[string]any, len(feats))
	for _, feat := range feats {
		var name string
		var value any
		var haveName, haveValue bool
		for el := feat.FirstChild; el != nil; el = el.NextSibling {
			if el.Type != xmlquery.ElementNode {
				continue
			}
			switch el.Data {
			case "Name":
				if cls := el.SelectAttr("className"); cls != gateClassString {
					return nil, newStreamError(ErrUnsupportedType,
						"feature name of type "+cls, nil)
				}
				name = el.InnerText()
				haveName = true
			case "Value":
				cls := el.SelectAttr("className")
				text := el.InnerText()
				switch cls {
				case gateClassString:
					value = text
				case gateClassInteger, gateClassLong:
					n, err := strconv.Atoi(text)
					if err != nil {
						return nil, newStreamError(ErrCorruptStream, "integer feature value", err)
					}
					value = n
				case gateClassDecimal:
					f, err := strconv.ParseFloat(text, 64)
					if err != nil {
						return nil, newStreamError(ErrCorruptStream, "decimal feature value", err)
					}
					value = f
				case gateClassBoolean:
					b, err := strconv.ParseBool(text)
					if err != nil {
						return nil, newStreamError(ErrCorruptStream, "boolean feature value", err)
					}
					value = b
				default:
					if lenient {
						emitFeatureDropped(ctx, name, cls)
						continue
					}
					return nil, newStreamError(ErrUnsupportedType,
						"feature value of type "+cls, nil)
				}
				haveValue = true
			}
		}
		if haveName && haveValue {
			features[name] = value
		}
	}
	return features, nil
}

// loadGateXML parses a GATE stand-off annotation exchange document: text
// split around zero-width Node markers assigned running offsets, plus
// annotation sets whose elements reference start and end node ids.
func loadGateXML(ctx context.Context, src *source, o *options) (*Document, error) {
	data, err := src.readAll(o.gzip)
	if err != nil {
		return nil, err
	}
	root, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, newStreamError(ErrCorruptStream, "parsing xml", err)
	}
	gateDoc := xmlquery.FindOne(root, "/GateDocument")
	if gateDoc == nil {
		return nil, newStreamError(ErrCorruptStream, "no GateDocument root element", nil)
	}
	if v := gateDoc.SelectAttr("version"); v != "3" {
		return nil, newStreamError(ErrCorruptStream, "unsupported GateDocument version "+strconv.Quote(v), nil)
	}

	docFeatures, err := parseGateFeatures(ctx,
		xmlquery.Find(gateDoc, "./GateDocumentFeatures/Feature"), o.lenientTypes)
	if err != nil {
		return nil, err
	}

	// Concatenate the text segments in document order, assigning each Node
	// marker the running code point offset.
	var text strings.Builder
	nodeOffsets := make(map[string]int)
	curoff := 0
	for _, twn := range xmlquery.Find(gateDoc, "./TextWithNodes") {
		for c := twn.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case xmlquery.TextNode, xmlquery.CharDataNode:
				text.WriteString(c.Data)
				curoff += utf8.RuneCountInString(c.Data)
			case xmlquery.ElementNode:
				if c.Data == "Node" {
					nodeOffsets[c.SelectAttr("id")] = curoff
				}
			}
		}
	}

	doc := NewDocument(text.String())
	doc.features = docFeatures

	for _, setEl := range xmlquery.Find(gateDoc, "./AnnotationSet") {
		set := doc.AnnSet(setEl.SelectAttr("Name"))
		maxID := -1
		for _, annEl := range xmlquery.Find(setEl, "./Annotation") {
			id, err := strconv.Atoi(annEl.SelectAttr("Id"))
			if err != nil {
				return nil, newStreamError(ErrCorruptStream, "annotation id", err)
			}
			startNode := annEl.SelectAttr("StartNode")
			endNode := annEl.SelectAttr("EndNode")
			start, ok := nodeOffsets[startNode]
			if !ok {
				return nil, newStreamError(ErrUnresolvedReference,
					"start node "+startNode, nil)
			}
			end, ok := nodeOffsets[endNode]
			if !ok {
				return nil, newStreamError(ErrUnresolvedReference,
					"end node "+endNode, nil)
			}
			features, err := parseGateFeatures(ctx,
				xmlquery.Find(annEl, "./Feature"), o.lenientTypes)
			if err != nil {
				return nil, err
			}
			if len(features) == 0 {
				features = nil
			}
			set.put(&Annotation{
				ID:       id,
				Type:     annEl.SelectAttr("Type"),
				Start:    start,
				End:      end,
				Features: features,
			})
			if id > maxID {
				maxID = id
			}
		}
		set.setNextID(maxID + 1)
	}
	return doc, nil
}
