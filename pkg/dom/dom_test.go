package dom

import (
	"strings"
	"testing"
)

func TestDataAttr(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"svgName", "data-svg-name"},
		{"svgStatus", "data-svg-status"},
		{"attributeNames", "data-attribute-names"},
		{"x", "data-x"},
	}
	for _, tt := range tests {
		if got := DataAttr(tt.key); got != tt.want {
			t.Errorf("DataAttr(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestAttributes(t *testing.T) {
	el := CreateSVGElement("svg")
	el.SetAttr("viewBox", "0 0 10 10")
	el.SetAttr("aria-busy", "true")
	el.SetAttr("viewBox", "0 0 20 20")

	if v, _ := el.Attr("viewBox"); v != "0 0 20 20" {
		t.Errorf("viewBox = %q, want replaced value", v)
	}
	if got := len(el.Attrs()); got != 2 {
		t.Errorf("len(Attrs()) = %d, want 2", got)
	}
	el.RemoveAttr("aria-busy")
	if el.HasAttr("aria-busy") {
		t.Error("aria-busy should be removed")
	}

	el.SetDataset("svgName", "Foo")
	if v, ok := el.Dataset("svgName"); !ok || v != "Foo" {
		t.Errorf("Dataset(svgName) = %q, %v", v, ok)
	}
	el.RemoveDataset("svgName")
	if _, ok := el.Dataset("svgName"); ok {
		t.Error("svgName should be removed")
	}
}

func TestSetInnerHTMLParsesForeignContent(t *testing.T) {
	el := CreateSVGElement("svg")
	err := el.SetInnerHTML(`<defs><linearGradient id="g"></linearGradient></defs><use xlink:href="#g"/><rect fill="url(#g)"/>`)
	if err != nil {
		t.Fatalf("SetInnerHTML: %v", err)
	}
	children := el.Children()
	if len(children) != 3 {
		t.Fatalf("children = %d, want 3", len(children))
	}
	use := children[1]
	if v, ok := use.Attr("xlink:href"); !ok || v != "#g" {
		t.Errorf("xlink:href = %q, %v", v, ok)
	}
	if grad := el.QuerySelector("#g"); grad == nil {
		t.Error("expected #g descendant")
	}

	if err := el.SetInnerHTML(""); err != nil {
		t.Fatal(err)
	}
	if el.InnerHTML() != "" {
		t.Errorf("InnerHTML() = %q, want empty", el.InnerHTML())
	}
}

func TestPrependAndQuery(t *testing.T) {
	el := CreateSVGElement("svg")
	_ = el.SetInnerHTML(`<path d=""/>`)
	title := CreateSVGElement("title")
	title.SetTextContent("T")
	el.Prepend(title)

	if first := el.Children()[0]; first.TagName() != "title" {
		t.Errorf("first child = %q, want title", first.TagName())
	}
	if got := el.QuerySelector("title"); got == nil || got.TextContent() != "T" {
		t.Error("expected title descendant with text T")
	}
	if el.QuerySelector("svg") != nil {
		t.Error("QuerySelector must not match the element itself")
	}
}

func TestDocument(t *testing.T) {
	doc := NewDocument()
	style := CreateElement("style")
	style.SetAttr("id", "s")
	style.SetTextContent("@keyframes a {}")
	doc.Head().Append(style)

	if got := doc.QuerySelector("#s"); got == nil {
		t.Fatal("expected #s in document")
	}
	svg := CreateSVGElement("svg")
	doc.Body().Append(svg)
	if !svg.Attached() {
		t.Error("svg should be attached")
	}
	svg.Remove()
	if svg.Attached() {
		t.Error("svg should be detached")
	}

	var sb strings.Builder
	if err := doc.Render(&sb); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "@keyframes a {}") {
		t.Errorf("rendered document missing style: %s", sb.String())
	}
}
