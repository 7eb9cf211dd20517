package model

import "testing"

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{"Add", CategoryAdd, false},
		{"add", CategoryAdd, false},
		{"ADD", CategoryAdd, false},
		{" Term ", CategoryTerm, false},
		{"update", CategoryUpdate, false},
		{"Other", CategoryOther, false},
		{"Remove", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseCategory(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseCategory(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseCategory(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCategory(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCategories_CanonicalStrings(t *testing.T) {
	want := []string{"Add", "Update", "Term", "Other"}
	if len(Categories) != len(want) {
		t.Fatalf("Categories has %d entries, want %d", len(Categories), len(want))
	}
	for i, s := range want {
		if Categories[i].String() != s {
			t.Errorf("Categories[%d] = %q, want %q", i, Categories[i], s)
		}
	}
}

func TestParseStrategy(t *testing.T) {
	if got, err := ParseStrategy("RULES"); err != nil || got != StrategyRules {
		t.Errorf("ParseStrategy(RULES) = %v, %v", got, err)
	}
	if got, err := ParseStrategy("model"); err != nil || got != StrategyModel {
		t.Errorf("ParseStrategy(model) = %v, %v", got, err)
	}
	if _, err := ParseStrategy("llm"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
