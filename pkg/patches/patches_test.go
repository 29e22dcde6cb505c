package patches

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCatalogParses(t *testing.T) {
	intents, err := Catalog()
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if len(intents) < 2 {
		t.Fatalf("expected at least 2 intents, got %d", len(intents))
	}
	for _, in := range intents {
		if in.ID == "" || in.Marker == "" || in.Intent == "" {
			t.Errorf("incomplete intent: %+v", in)
		}
	}
}

func TestGetStatusWithoutBridge(t *testing.T) {
	statuses, err := GetStatus("")
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}
	for _, s := range statuses {
		if s.Status != StatusCannotCheck {
			t.Errorf("%s: status = %s, want %s", s.ID, s.Status, StatusCannotCheck)
		}
	}
}

func TestGetStatusMarkers(t *testing.T) {
	bridge := t.TempDir()
	src := "def click(x, y, coordinate_system='physical'):\n    pass\n"
	if err := os.WriteFile(filepath.Join(bridge, "main.py"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	statuses, err := GetStatus(bridge)
	if err != nil {
		t.Fatalf("GetStatus failed: %v", err)
	}

	byID := map[string]Status{}
	for _, s := range statuses {
		byID[s.ID] = s
	}

	if got := byID["dpi_awareness"].Status; got != StatusApplied {
		t.Errorf("dpi_awareness: %s, want %s", got, StatusApplied)
	}
	if got := byID["find_and_click"].Status; got != StatusNotApplied {
		t.Errorf("find_and_click: %s, want %s", got, StatusNotApplied)
	}
}
