package source

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	input := "Game\tFoo\r\nEngine\tXNA\n\nGame\tBar"
	got, err := ReadLines(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Game\tFoo", "Engine\tXNA", "", "Game\tBar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadLines = %q, want %q", got, want)
	}
}

func TestReadLinesEmpty(t *testing.T) {
	got, err := ReadLines(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("ReadLines(empty) = %q", got)
	}
}

func TestReadLinesTooLong(t *testing.T) {
	long := "Hints\t" + strings.Repeat("x", MaxLineSize+1)
	if _, err := ReadLines(strings.NewReader(long)); err == nil {
		t.Fatal("expected error for oversized line")
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.db")
	if err := os.WriteFile(path, []byte("Game\tFoo\nYear\t2011\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []string{"Game\tFoo", "Year\t2011"}) {
		t.Errorf("ReadFile = %q", got)
	}
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing file")
	}
}
