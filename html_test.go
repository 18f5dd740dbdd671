package bdoc

import (
	"context"
	"strings"
	"testing"
)

// loadHTMLString parses markup from a string through the html loader.
func loadHTMLString(t *testing.T, markup string) *Document {
	t.Helper()
	doc, err := loadHTML(context.Background(), memSource([]byte(markup)), &options{})
	if err != nil {
		t.Fatalf("loadHTML() error: %v", err)
	}
	return doc
}

// annsOfType filters a set's annotations by type.
func annsOfType(set *AnnotationSet, anntype string) []*Annotation {
	var out []*Annotation
	for _, ann := range set.Annotations() {
		if ann.Type == anntype {
			out = append(out, ann)
		}
	}
	return out
}

func TestMarkupNestedBlocks(t *testing.T) {
	doc := loadHTMLString(t, "<div><p>A</p><p>B</p></div>")

	if doc.Text() != "A\nB\n" {
		t.Fatalf("text = %q, want %q", doc.Text(), "A\nB\n")
	}
	set := doc.AnnSet(OriginalMarkupsSet)

	divs := annsOfType(set, "div")
	if len(divs) != 1 {
		t.Fatalf("got %d div annotations, want 1", len(divs))
	}
	if divs[0].Start != 0 || divs[0].End != 4 {
		t.Errorf("div = [%d,%d), want [0,4)", divs[0].Start, divs[0].End)
	}

	ps := annsOfType(set, "p")
	if len(ps) != 2 {
		t.Fatalf("got %d p annotations, want 2", len(ps))
	}
	if ps[0].Start != 0 || ps[0].End != 2 {
		t.Errorf("first p = [%d,%d), want [0,2)", ps[0].Start, ps[0].End)
	}
	if ps[1].Start != 2 || ps[1].End != 4 {
		t.Errorf("second p = [%d,%d), want [2,4)", ps[1].Start, ps[1].End)
	}

	// Each p wraps exactly its letter plus the normalized line break.
	if got := doc.Text()[ps[0].Start:ps[0].End]; got != "A\n" {
		t.Errorf("first p covers %q, want %q", got, "A\n")
	}
}

func TestMarkupNoDoubledNewlines(t *testing.T) {
	doc := loadHTMLString(t, "<p>A</p><p>B</p><p>C</p>")
	if strings.Contains(doc.Text(), "\n\n") {
		t.Errorf("text %q contains a doubled newline", doc.Text())
	}
}

func TestMarkupZeroLengthElement(t *testing.T) {
	doc := loadHTMLString(t, "<p>x</p><br>")
	set := doc.AnnSet(OriginalMarkupsSet)
	brs := annsOfType(set, "br")
	if len(brs) != 1 {
		t.Fatalf("got %d br annotations, want 1", len(brs))
	}
	if brs[0].Start != brs[0].End {
		t.Errorf("br = [%d,%d), want zero length", brs[0].Start, brs[0].End)
	}
}

func TestMarkupAttributesBecomeFeatures(t *testing.T) {
	doc := loadHTMLString(t, `<div id="main" class="wide">text</div>`)
	set := doc.AnnSet(OriginalMarkupsSet)
	divs := annsOfType(set, "div")
	if len(divs) != 1 {
		t.Fatalf("got %d div annotations, want 1", len(divs))
	}
	if divs[0].Features["id"] != "main" || divs[0].Features["class"] != "wide" {
		t.Errorf("div features = %v", divs[0].Features)
	}
}

func TestMarkupIDsFollowVisitationOrder(t *testing.T) {
	doc := loadHTMLString(t, "<div><span>a</span><span>b</span></div>")
	set := doc.AnnSet(OriginalMarkupsSet)

	// Ids are assigned in pre-order: html, head, body, div, span, span.
	anns := set.Annotations()
	for i, ann := range anns {
		if ann.ID != i {
			t.Errorf("annotation %d has id %d", i, ann.ID)
		}
	}
	if anns[3].Type != "div" || anns[4].Type != "span" || anns[5].Type != "span" {
		t.Errorf("types = %v %v %v, want div span span", anns[3].Type, anns[4].Type, anns[5].Type)
	}
}

func TestMarkupCommentSkipped(t *testing.T) {
	doc := loadHTMLString(t, "<div>a<!-- hidden -->b</div>")
	if doc.Text() != "ab\n" {
		t.Errorf("text = %q, want %q (comment content must not leak)", doc.Text(), "ab\n")
	}
	set := doc.AnnSet(OriginalMarkupsSet)
	for _, ann := range set.Annotations() {
		if strings.Contains(ann.Type, "comment") {
			t.Errorf("comment produced annotation %+v", ann)
		}
	}
}

func TestMarkupPairingInvariant(t *testing.T) {
	// Malformed but parseable markup still pairs every id exactly once;
	// the parser repairs the tree before we walk it.
	doc := loadHTMLString(t, "<div><p>unclosed<div>again")
	set := doc.AnnSet(OriginalMarkupsSet)
	seen := make(map[int]bool)
	for _, ann := range set.Annotations() {
		if seen[ann.ID] {
			t.Errorf("id %d appears twice", ann.ID)
		}
		seen[ann.ID] = true
	}
}

func TestMarkupUnicodeOffsets(t *testing.T) {
	doc := loadHTMLString(t, "<p>éé</p><p>x</p>")
	set := doc.AnnSet(OriginalMarkupsSet)
	ps := annsOfType(set, "p")
	if len(ps) != 2 {
		t.Fatalf("got %d p annotations, want 2", len(ps))
	}
	// Offsets count code points, not bytes.
	if ps[0].End != 3 {
		t.Errorf("first p end = %d, want 3", ps[0].End)
	}
	if ps[1].Start != 3 || ps[1].End != 5 {
		t.Errorf("second p = [%d,%d), want [3,5)", ps[1].Start, ps[1].End)
	}
}
