package course

import (
	"encoding/json"
	"testing"
)

func TestCodeBlockAcceptsStringOrList(t *testing.T) {
	var ex []CodeExample
	raw := `[{"code":"print(1)"},{"code":["a := 1","b := 2"]}]`
	if err := json.Unmarshal([]byte(raw), &ex); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ex[0].Code) != 1 || ex[0].Code[0] != "print(1)" {
		t.Fatalf("single string not decoded: %v", ex[0].Code)
	}
	if len(ex[1].Code) != 2 {
		t.Fatalf("list not decoded: %v", ex[1].Code)
	}
	out, err := json.Marshal(ex)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != raw {
		t.Fatalf("shape changed:\nwant %s\ngot  %s", raw, out)
	}
}

func TestCodeBlockRejectsObjects(t *testing.T) {
	var ex CodeExample
	if err := json.Unmarshal([]byte(`{"code":{"x":1}}`), &ex); err == nil {
		t.Fatalf("expected error for object code")
	}
}

func TestCourseOutlineRoundTripThroughCourse(t *testing.T) {
	c := &Course{}
	o := CourseOutline{Name: "Go", Level: "Beginner", Chapters: []ChapterOutline{{Name: "Intro"}, {Name: "Loops"}}}
	if err := c.SetOutline(o); err != nil {
		t.Fatalf("SetOutline: %v", err)
	}
	got, err := c.OutlineData()
	if err != nil {
		t.Fatalf("OutlineData: %v", err)
	}
	names := got.ChapterNames()
	if len(names) != 2 || names[0] != "Intro" || names[1] != "Loops" {
		t.Fatalf("unexpected chapters: %v", names)
	}
}

func TestSectionDecodingIsLenient(t *testing.T) {
	raw := `["Just prose",{"title":7,"explanation":"e","code_examples":"x := 1"},{"title":"T","code_examples":["a","b"]},{"title":"U","code_examples":[{"code":{"x":1}},{"code":"ok"}]}]`
	var sections []Section
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sections) != 4 {
		t.Fatalf("sections: %+v", sections)
	}
	if sections[0].Explanation != "Just prose" {
		t.Fatalf("string section: %+v", sections[0])
	}
	if sections[1].Title != "7" || len(sections[1].CodeExamples) != 1 || sections[1].CodeExamples[0].Code[0] != "x := 1" {
		t.Fatalf("scalar fields: %+v", sections[1])
	}
	if len(sections[2].CodeExamples) != 2 {
		t.Fatalf("string list examples: %+v", sections[2])
	}
	if len(sections[3].CodeExamples) != 1 || sections[3].CodeExamples[0].Code[0] != "ok" {
		t.Fatalf("bad example should be skipped: %+v", sections[3])
	}
}

func TestScalarText(t *testing.T) {
	cases := map[string]string{
		`"B"`:      "B",
		`2`:        "2",
		`true`:     "true",
		`null`:     "",
		``:         "",
		`{"a": 1}`: `{"a":1}`,
	}
	for in, want := range cases {
		if got := ScalarText(json.RawMessage(in)); got != want {
			t.Fatalf("ScalarText(%s): want %q got %q", in, want, got)
		}
	}
}
