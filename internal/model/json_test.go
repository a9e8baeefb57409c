package model

import "testing"

func TestJSONMap_Truthy(t *testing.T) {
	m := JSONMap{
		"yes":   true,
		"no":    false,
		"one":   float64(1),
		"zero":  float64(0),
		"str":   "x",
		"empty": "",
		"null":  nil,
		"obj":   map[string]any{},
	}
	cases := map[string]bool{
		"yes": true, "no": false, "one": true, "zero": false,
		"str": true, "empty": false, "null": false, "obj": true, "missing": false,
	}
	for key, want := range cases {
		if got := m.Truthy(key); got != want {
			t.Errorf("Truthy(%q) = %v; want %v", key, got, want)
		}
	}

	var nilMap JSONMap
	if nilMap.Truthy("published") {
		t.Error("nil map should never be truthy")
	}
}

func TestJSONMap_ScanNull(t *testing.T) {
	m := JSONMap{"a": 1}
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil): %v", err)
	}
	if m != nil {
		t.Errorf("expected nil map, got %v", m)
	}
	if err := m.Scan([]byte(`{"published":true}`)); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !m.Truthy("published") {
		t.Errorf("expected published to be truthy, got %v", m)
	}
	v, err := JSONMap(nil).Value()
	if err != nil || v != nil {
		t.Errorf("Value() of nil map = %v, %v; want nil, nil", v, err)
	}
}
