package listview

import (
	"math"
	"reflect"
	"testing"
)

type row struct {
	name  string
	owner string
}

func names(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.name
	}
	return out
}

var rows = []row{
	{"Banco Alfa", "ana"},
	{"Loja Central", "bruno"},
	{"banco beta", "carla"},
	{"Telecom Sul", "BANCO team"},
}

func TestFilterByText(t *testing.T) {
	byName := func(r row) string { return r.name }
	byOwner := func(r row) string { return r.owner }

	tests := []struct {
		name   string
		query  string
		fields []func(row) string
		want   []string
	}{
		{"case insensitive", "BANCO", []func(row) string{byName}, []string{"Banco Alfa", "banco beta"}},
		{"any field", "banco", []func(row) string{byName, byOwner}, []string{"Banco Alfa", "banco beta", "Telecom Sul"}},
		{"no match", "zzz", []func(row) string{byName}, []string{}},
		{"empty query keeps all", "", []func(row) string{byName}, []string{"Banco Alfa", "Loja Central", "banco beta", "Telecom Sul"}},
		{"no fields keeps all", "banco", nil, []string{"Banco Alfa", "Loja Central", "banco beta", "Telecom Sul"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByText(rows, tt.query, tt.fields...)
			if got == nil {
				t.Fatal("Expected non-nil result")
			}
			if !reflect.DeepEqual(names(got), tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, names(got))
			}
		})
	}
}

func TestFilterByText_DoesNotAliasInput(t *testing.T) {
	in := []row{{"a", ""}, {"b", ""}}
	out := FilterByText(in, "")
	out[0].name = "changed"
	if in[0].name != "a" {
		t.Error("Expected input to be untouched")
	}
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	tests := []struct {
		name       string
		index      int
		size       int
		want       []int
		totalPages int
	}{
		{"first page", 1, 3, []int{1, 2, 3}, 3},
		{"last partial page", 3, 3, []int{7}, 3},
		{"past the end", 5, 3, []int{}, 3},
		{"before the start", 0, 3, []int{}, 3},
		{"exact fit", 1, 7, []int{1, 2, 3, 4, 5, 6, 7}, 1},
		{"size clamped", 2, 0, []int{2}, 7},
		{"huge page wrapping to zero offset", math.MaxInt/2 + 2, 4, []int{}, 2},
		{"huge page wrapping negative", (1 << 61) + 2, 4, []int{}, 2},
		{"huge size", 1, math.MaxInt, []int{1, 2, 3, 4, 5, 6, 7}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(items, tt.index, tt.size)
			if !reflect.DeepEqual(p.Items, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, p.Items)
			}
			if p.TotalPages != tt.totalPages {
				t.Errorf("Expected %d pages, got %d", tt.totalPages, p.TotalPages)
			}
			if p.TotalItems != len(items) {
				t.Errorf("Expected %d total items, got %d", len(items), p.TotalItems)
			}
		})
	}
}

func TestPaginate_PagesRebuildInput(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	for _, size := range []int{1, 3, 7, 10, 25} {
		first := Paginate(items, 1, size)
		if want := min(size, len(items)); len(first.Items) != want {
			t.Errorf("size %d: expected first page of %d items, got %d", size, want, len(first.Items))
		}

		var got []int
		for i := 1; i <= first.TotalPages; i++ {
			got = append(got, Paginate(items, i, size).Items...)
		}
		if !reflect.DeepEqual(got, items) {
			t.Errorf("size %d: expected pages to rebuild %v, got %v", size, items, got)
		}
		if extra := Paginate(items, first.TotalPages+1, size); len(extra.Items) != 0 {
			t.Errorf("size %d: expected empty page after the last, got %v", size, extra.Items)
		}
	}
}

func TestPaginate_FilteredPagesRebuildMatches(t *testing.T) {
	matches := FilterByText(rows, "banco", func(r row) string { return r.name }, func(r row) string { return r.owner })

	var got []row
	for i, p := 1, Paginate(matches, 1, 2); i <= p.TotalPages; i++ {
		got = append(got, Paginate(matches, i, 2).Items...)
	}
	if !reflect.DeepEqual(got, matches) {
		t.Errorf("Expected %v, got %v", names(matches), names(got))
	}
}

func TestPaginate_Empty(t *testing.T) {
	p := Paginate([]string{}, 1, 10)
	if p.TotalPages != 0 || p.TotalItems != 0 {
		t.Errorf("Expected no pages, got %+v", p)
	}
	if p.Items == nil || len(p.Items) != 0 {
		t.Errorf("Expected empty non-nil items, got %#v", p.Items)
	}
}

func TestPaginate_DoesNotAliasInput(t *testing.T) {
	in := []int{1, 2, 3}
	p := Paginate(in, 1, 2)
	p.Items[0] = 99
	if in[0] != 1 {
		t.Error("Expected input to be untouched")
	}
}

func TestFilterBy(t *testing.T) {
	got := FilterBy(rows, func(r row) bool { return r.owner == "carla" })
	if len(got) != 1 || got[0].name != "banco beta" {
		t.Errorf("Expected only banco beta, got %v", names(got))
	}
}

func TestMatchField(t *testing.T) {
	owner := func(r row) string { return r.owner }
	if got := FilterBy(rows, MatchField("", owner)); len(got) != len(rows) {
		t.Errorf("Expected empty value to match all, got %d", len(got))
	}
	if got := FilterBy(rows, MatchField("Ana", owner)); len(got) != 1 {
		t.Errorf("Expected case-insensitive exact match, got %d", len(got))
	}
	if got := FilterBy(rows, MatchField("an", owner)); len(got) != 0 {
		t.Errorf("Expected no partial matches, got %d", len(got))
	}
}
