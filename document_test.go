package bdoc

import "testing"

func TestAnnSetCreatesOnDemand(t *testing.T) {
	doc := NewDocument("abc")
	s1 := doc.AnnSet("")
	s2 := doc.AnnSet("")
	if s1 != s2 {
		t.Error("AnnSet should return the same set for the same name")
	}
	doc.AnnSet("Other")
	names := doc.SetNames()
	if len(names) != 2 || names[0] != "" || names[1] != "Other" {
		t.Errorf("set names = %q, want insertion order [\"\" \"Other\"]", names)
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	set := NewDocument("abcdef").AnnSet("")
	a := set.Add(0, 1, "A", nil)
	b := set.Add(1, 2, "B", nil)
	if a.ID != 0 || b.ID != 1 {
		t.Errorf("ids = %d, %d; want 0, 1", a.ID, b.ID)
	}
	if set.NextID() != 2 {
		t.Errorf("next id = %d, want 2", set.NextID())
	}
}

func TestPutAdvancesNextID(t *testing.T) {
	set := NewDocument("abcdef").AnnSet("")
	set.put(&Annotation{ID: 41, Type: "X", Start: 0, End: 1})
	added := set.Add(1, 2, "Y", nil)
	if added.ID != 42 {
		t.Errorf("id after put(41) = %d, want 42", added.ID)
	}
}

func TestDocumentCopyIsDeep(t *testing.T) {
	doc := NewDocument("abc")
	doc.Features()["nested"] = map[string]any{"k": "v"}
	doc.AnnSet("").Add(0, 1, "A", map[string]any{"tags": []any{"x"}})

	cp := doc.Copy()
	cp.Features()["nested"].(map[string]any)["k"] = "changed"
	cp.AnnSet("").Get(0).Features["tags"].([]any)[0] = "changed"

	if doc.Features()["nested"].(map[string]any)["k"] != "v" {
		t.Error("copy shares the document feature map")
	}
	if doc.AnnSet("").Get(0).Features["tags"].([]any)[0] != "x" {
		t.Error("copy shares annotation features")
	}
	if cp.Text() != doc.Text() || cp.OffsetType() != doc.OffsetType() {
		t.Error("copy lost text or offset type")
	}
}

func TestAnnotationsInsertionOrder(t *testing.T) {
	set := NewDocument("abcdef").AnnSet("")
	set.put(&Annotation{ID: 5, Type: "B", Start: 0, End: 1})
	set.put(&Annotation{ID: 1, Type: "A", Start: 1, End: 2})
	anns := set.Annotations()
	if anns[0].ID != 5 || anns[1].ID != 1 {
		t.Errorf("iteration order = %d, %d; want insertion order 5, 1", anns[0].ID, anns[1].ID)
	}
}
