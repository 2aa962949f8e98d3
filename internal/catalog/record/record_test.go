package record

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/gamedb/internal/catalog/field"
	apperrors "github.com/Adithya-Monish-Kumar-K/gamedb/pkg/errors"
)

var awesome = strings.Join([]string{
	"Game\tAaaaaAAaaaAAAaaAAAAaAAAAA!!! for the Awesome",
	"Cover\tAaaaaA_for_the_Awesome_Cover.jpg",
	"Engine",
	"Setup",
	"Runtime\tHumblePlay",
	"Store\thttps://www.humblebundle.com/store/aaaaaaaaaaaaaaaaaaaaaaaaa-for-the-awesome",
	"Hints\tDemo on HumbleBundle store page",
	"Genre",
	"Tags",
	"Year\t2011",
	"Dev",
	"Pub",
	"Version",
	"Status",
}, "\n")

func TestSetEveryFieldOfARecord(t *testing.T) {
	g := New("")
	for _, line := range strings.Split(awesome, "\n") {
		f, err := field.Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		if err := g.Set(f); err != nil {
			t.Fatalf("Set(%q): %v", line, err)
		}
	}
	want := &Game{
		Name:    "AaaaaAAaaaAAAaaAAAAaAAAAA!!! for the Awesome",
		Cover:   "AaaaaA_for_the_Awesome_Cover.jpg",
		Runtime: "HumblePlay",
		Store:   []string{"https://www.humblebundle.com/store/aaaaaaaaaaaaaaaaaaaaaaaaa-for-the-awesome"},
		Hints:   "Demo on HumbleBundle store page",
		Year:    "2011",
	}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("game = %+v\nwant  %+v", g, want)
	}
}

func TestSetLastWriteWins(t *testing.T) {
	g := New("x")
	_ = g.Set(field.Single("Engine", "first"))
	_ = g.Set(field.Single("Engine", "second"))
	_ = g.Set(field.Multi("Tags", []string{"a", "b"}))
	_ = g.Set(field.Multi("Tags", []string{"c"}))
	if g.Engine != "second" {
		t.Errorf("Engine = %q", g.Engine)
	}
	if !reflect.DeepEqual(g.Tags, []string{"c"}) {
		t.Errorf("Tags = %v", g.Tags)
	}
}

func TestSetCopiesValues(t *testing.T) {
	values := []string{"a", "b"}
	g := New("x")
	if err := g.Set(field.Multi("Genre", values)); err != nil {
		t.Fatal(err)
	}
	values[0] = "mutated"
	if g.Genres[0] != "a" {
		t.Errorf("game aliases caller slice: %v", g.Genres)
	}
}

func TestEverySchemaKeyHasASlot(t *testing.T) {
	for _, spec := range field.Schema() {
		g := New("")
		var f field.Field
		switch spec.Rule {
		case field.RuleRecordStart:
			f = field.Field{Kind: field.KindSingle, Key: spec.Key, Value: "v"}
		case field.RuleScalar:
			f = field.Single(spec.Key, "v")
		default:
			f = field.Multi(spec.Key, []string{"v"})
		}
		if err := g.Set(f); err != nil {
			t.Errorf("key %q has no slot: %v", spec.Key, err)
		}
		if _, err := g.Field(spec.Attr); err != nil {
			t.Errorf("attribute %q not readable: %v", spec.Attr, err)
		}
	}
}

func TestSetMismatchedKind(t *testing.T) {
	g := New("x")
	err := g.Set(field.Multi("Engine", []string{"a"}))
	if !errors.Is(err, apperrors.ErrInconsistentAssemblerKey) {
		t.Errorf("error = %v, want ErrInconsistentAssemblerKey", err)
	}
	err = g.Set(field.Single("Panic", "Test"))
	if !errors.Is(err, apperrors.ErrUnrecognizedFieldKey) {
		t.Errorf("error = %v, want ErrUnrecognizedFieldKey", err)
	}
}

func TestFieldIsCaseInsensitive(t *testing.T) {
	g := New("x")
	_ = g.Set(field.Single("Year", "2011"))
	_ = g.Set(field.Multi("Store", []string{"ST1", "ST2"}))
	f, err := g.Field("yEaR")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, field.Single("Year", "2011")) {
		t.Errorf("Field(yEaR) = %#v", f)
	}
	f, err = g.Field("store")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(f, field.Multi("Store", []string{"ST1", "ST2"})) {
		t.Errorf("Field(store) = %#v", f)
	}
	if _, err := g.Field("colour"); !errors.Is(err, apperrors.ErrUnknownAttribute) {
		t.Errorf("Field(colour) error = %v", err)
	}
}

func TestAttributeContains(t *testing.T) {
	g := New("Shuggy")
	_ = g.Set(field.Single("Engine", "Microsoft XNA"))
	_ = g.Set(field.Multi("Tags", []string{"puzzle", "indie"}))
	tests := []struct {
		attr, needle string
		want         bool
	}{
		{"engine", "xna", true},
		{"Engine", "XNA", true},
		{"engine", "unity", false},
		{"tags", "PUZ", true},
		{"tags", "indie", true},
		{"tags", "e--i", false},
		{"tags", "puzzleindie", false},
		{"name", "shug", true},
		{"genre", "", false},
	}
	for _, tt := range tests {
		got, err := g.AttributeContains(tt.attr, tt.needle)
		if err != nil {
			t.Fatalf("AttributeContains(%q, %q): %v", tt.attr, tt.needle, err)
		}
		if got != tt.want {
			t.Errorf("AttributeContains(%q, %q) = %v, want %v", tt.attr, tt.needle, got, tt.want)
		}
	}
}

func TestFieldsRenderBack(t *testing.T) {
	g := New("")
	for _, line := range strings.Split(awesome, "\n") {
		f, _ := field.Parse(line)
		_ = g.Set(f)
	}
	var lines []string
	for _, f := range g.Fields() {
		lines = append(lines, field.Render(f))
	}
	want := strings.Split(awesome, "\n")
	for i := range want {
		if !strings.Contains(want[i], "\t") {
			want[i] += "\t"
		}
	}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("rendered:\n%s\nwant:\n%s", strings.Join(lines, "\n"), strings.Join(want, "\n"))
	}
}
