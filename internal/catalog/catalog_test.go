package catalog

import "testing"

func TestParseSectionIsExact(t *testing.T) {
	for _, s := range Sections {
		if _, ok := ParseSection(string(s)); !ok {
			t.Errorf("expected %q to be allowed", s)
		}
	}
	for _, name := range []string{"", "Profile", "languages ", "recommendations", "widgets"} {
		if _, ok := ParseSection(name); ok {
			t.Errorf("expected %q to be rejected", name)
		}
	}
	if len(Sections) != 12 {
		t.Fatalf("expected twelve sections, got %d", len(Sections))
	}
}

func TestSectionStorage(t *testing.T) {
	if !Profile.Singleton() || !About.Singleton() {
		t.Fatal("profile and about are singletons")
	}
	if Languages.Singleton() {
		t.Fatal("languages is an array section")
	}
	if got := Profile.Collection(); got != SingletonsCollection {
		t.Fatalf("expected singletons collection, got %q", got)
	}
	if got := HonorsAwards.Collection(); got != "honorsAwards" {
		t.Fatalf("unexpected collection %q", got)
	}
	if got := Languages.DataFile("src/data/cv"); got != "src/data/cv/languages.json" {
		t.Fatalf("unexpected data file %q", got)
	}
}

func TestWidgets(t *testing.T) {
	if len(Widgets) != 8 {
		t.Fatalf("expected eight widgets, got %d", len(Widgets))
	}
	space, ok := LookupWidget("space")
	if !ok || space.Shape != ShapeComposite || len(space.Parts) != 4 {
		t.Fatalf("unexpected space widget: %+v", space)
	}
	if _, ok := LookupWidget("radio"); ok {
		t.Fatal("expected unknown widget to be rejected")
	}
}
