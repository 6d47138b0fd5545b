package store

import (
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	prev := Run{Declarations: []DeclarationRecord{
		{Name: "A", Fingerprint: "a1"},
		{Name: "B", Fingerprint: "b1"},
		{Name: "C", Fingerprint: "c1"},
	}}
	next := Run{Declarations: []DeclarationRecord{
		{Name: "D", Fingerprint: "d1"},
		{Name: "B", Fingerprint: "b2"},
		{Name: "A", Fingerprint: "a1"},
	}}

	got := Diff(prev, next)
	want := Changes{
		Added:   []string{"D"},
		Removed: []string{"C"},
		Changed: []string{"B"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Diff() = %+v, want %+v", got, want)
	}
	if got.Empty() {
		t.Error("Empty() = true for differing runs")
	}
}

func TestDiff_Identical(t *testing.T) {
	run := Run{Declarations: []DeclarationRecord{{Name: "A", Fingerprint: "a1"}}}
	got := Diff(run, run)
	if !got.Empty() {
		t.Errorf("Diff() of identical runs = %+v", got)
	}
}
