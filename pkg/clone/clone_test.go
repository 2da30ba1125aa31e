package clone

import (
	"reflect"
	"testing"
)

func TestValueDereferencesMapsAndSlices(t *testing.T) {
	original := map[string]any{
		"list":   []any{1, 2, 3},
		"obj":    map[string]any{"one": 1},
		"nested": []any{map[string]any{"hello": false}},
		"name":   "k",
	}
	copied := Value(original).(map[string]any)
	if !reflect.DeepEqual(original, copied) {
		t.Fatalf("expected clone to deep-equal original: %#v vs %#v", original, copied)
	}

	original["list"] = append(original["list"].([]any), 4)
	original["obj"].(map[string]any)["two"] = 2
	original["nested"].([]any)[0].(map[string]any)["hello"] = "world"

	if got := copied["list"].([]any); len(got) != 3 {
		t.Fatalf("expected cloned list to stay at 3 items, got %v", got)
	}
	if _, ok := copied["obj"].(map[string]any)["two"]; ok {
		t.Fatalf("expected cloned map to be detached")
	}
	if copied["nested"].([]any)[0].(map[string]any)["hello"] != false {
		t.Fatalf("expected nested member to remain false")
	}

	copied["obj"].(map[string]any)["three"] = 3
	if _, ok := original["obj"].(map[string]any)["three"]; ok {
		t.Fatalf("expected original to be unaffected by clone mutation")
	}
}

func TestValuePreservesConcreteTypes(t *testing.T) {
	type palette map[string][]string
	src := palette{"warm": {"red", "orange"}}
	out, ok := Value(src).(palette)
	if !ok {
		t.Fatalf("expected palette type, got %T", Value(src))
	}
	out["warm"][0] = "crimson"
	if src["warm"][0] != "red" {
		t.Fatalf("expected nested slice to be duplicated")
	}

	arr := [2][]int{{1}, {2}}
	arrCopy := Value(arr).([2][]int)
	arrCopy[0][0] = 9
	if arr[0][0] != 1 {
		t.Fatalf("expected array elements to be duplicated")
	}

	typed := []map[string]any{{"k": "v"}, nil}
	typedCopy := Value(typed).([]map[string]any)
	typedCopy[0]["k"] = "mutated"
	if typed[0]["k"] != "v" {
		t.Fatalf("expected []map[string]any element to be duplicated")
	}
	if typedCopy[1] != nil {
		t.Fatalf("expected nil element to stay nil")
	}
}

func TestValueSharesScalarsFunctionsAndPointers(t *testing.T) {
	calls := 0
	fn := func() { calls++ }
	n := 3
	members := map[string]any{"fn": fn, "ptr": &n, "nil": nil, "int": 7}
	out := Members(members)
	out["fn"].(func())()
	if calls != 1 {
		t.Fatalf("expected function to be shared")
	}
	if out["ptr"].(*int) != &n {
		t.Fatalf("expected pointer to be shared")
	}
	if out["nil"] != nil || out["int"] != 7 {
		t.Fatalf("unexpected scalar copy: %#v", out)
	}
}

func TestNonStringKeyedMapsAreDuplicated(t *testing.T) {
	intKeyed := map[int]string{1: "a"}
	copied := Value(intKeyed).(map[int]string)
	copied[1] = "mutated"
	if intKeyed[1] != "a" {
		t.Fatalf("expected int keyed map to be duplicated")
	}

	nested := map[string]any{"m": map[int][]int{1: {1}}}
	out := Value(nested).(map[string]any)
	out["m"].(map[int][]int)[1][0] = 99
	if nested["m"].(map[int][]int)[1][0] != 1 {
		t.Fatalf("expected nested int keyed map values to be duplicated")
	}
}

func TestNilContainers(t *testing.T) {
	if Members(nil) != nil {
		t.Fatalf("expected nil members to stay nil")
	}
	var s []any
	if got := Value(s); got.([]any) != nil {
		t.Fatalf("expected nil slice to stay nil")
	}
	if Value(nil) != nil {
		t.Fatalf("expected nil value")
	}
}

func TestIsComposite(t *testing.T) {
	cases := []struct {
		value any
		want  bool
	}{
		{nil, false},
		{"s", false},
		{3, false},
		{[]any{}, true},
		{[]string{"a"}, true},
		{map[string]any{}, true},
		{map[int]int{}, true},
		{[1]int{1}, true},
		{func() {}, false},
	}
	for _, tc := range cases {
		if got := IsComposite(tc.value); got != tc.want {
			t.Fatalf("IsComposite(%#v) = %v, want %v", tc.value, got, tc.want)
		}
	}
}
