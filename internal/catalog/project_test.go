package catalog

import (
	"reflect"
	"testing"
)

func names(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func TestProjectEmptySearchReturnsAllFavoritesFirst(t *testing.T) {
	in := []Product{
		{Name: "Keyboard"},
		{Name: "Rice", IsFavorite: true},
		{Name: "Shirt"},
		{Name: "Lamp", IsFavorite: true},
	}

	got := Project(in, "")
	want := []string{"Rice", "Lamp", "Keyboard", "Shirt"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("order = %v, want %v", names(got), want)
	}
}

func TestProjectFiltersCaseInsensitively(t *testing.T) {
	in := []Product{
		{Name: "Desk Lamp"},
		{Name: "Floor LAMP", IsFavorite: true},
		{Name: "Rice"},
	}

	got := Project(in, "lamp")
	want := []string{"Floor LAMP", "Desk Lamp"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("order = %v, want %v", names(got), want)
	}
}

func TestProjectNoMatchIsEmpty(t *testing.T) {
	in := []Product{{Name: "Keyboard"}, {Name: "Rice"}}

	got := Project(in, "xyz")
	if len(got) != 0 {
		t.Fatalf("got %v, want empty", names(got))
	}
}

func TestProjectIsStableWithinPartitions(t *testing.T) {
	in := []Product{
		{Name: "a1"},
		{Name: "f1", IsFavorite: true},
		{Name: "a2"},
		{Name: "f2", IsFavorite: true},
		{Name: "a3"},
	}

	got := Project(in, "")
	want := []string{"f1", "f2", "a1", "a2", "a3"}
	if !reflect.DeepEqual(names(got), want) {
		t.Fatalf("order = %v, want %v", names(got), want)
	}
}

func TestProjectDoesNotMutateInput(t *testing.T) {
	in := []Product{
		{Name: "b"},
		{Name: "a", IsFavorite: true},
	}
	orig := make([]Product, len(in))
	copy(orig, in)

	_ = Project(in, "")
	if !reflect.DeepEqual(in, orig) {
		t.Fatalf("input mutated: %v", names(in))
	}
}
