package main

import "testing"

func TestParsePoint(t *testing.T) {
	p, err := parsePoint("38,2365=21,1351:start_button")
	if err != nil {
		t.Fatal(err)
	}
	if p.PhysicalX != 38 || p.PhysicalY != 2365 || p.LogicalX != 21 || p.LogicalY != 1351 {
		t.Errorf("unexpected coordinates: %+v", p)
	}
	if p.Label != "start_button" {
		t.Errorf("label = %q, want start_button", p.Label)
	}

	p, err = parsePoint(" 3691 , 2332 = 2109 , 1332 ")
	if err != nil {
		t.Fatal(err)
	}
	if p.PhysicalX != 3691 || p.LogicalY != 1332 {
		t.Errorf("unexpected coordinates: %+v", p)
	}
	if p.Label != "" {
		t.Errorf("label = %q, want empty", p.Label)
	}

	bad := []string{
		"",
		"1,2",
		"1,2=3",
		"1=2",
		"a,2=3,4",
		"1,2=3,b",
		"1,2,3=4,5",
	}
	for _, s := range bad {
		if _, err := parsePoint(s); err == nil {
			t.Errorf("parsePoint(%q): expected error", s)
		}
	}
}
