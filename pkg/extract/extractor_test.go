package extract

import (
	"reflect"
	"testing"
)

func TestActionsSegmentation(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "enumeration stays one action",
			text: "Buy groceries: milk, bread, eggs. Also pick up dry cleaning.",
			want: []string{"Buy groceries: milk, bread, eggs", "pick up dry cleaning"},
		},
		{
			name: "and then connective",
			text: "water the plants and then take out the trash",
			want: []string{"water the plants", "take out the trash"},
		},
		{
			name: "single sentence",
			text: "Call the dentist tomorrow",
			want: []string{"Call the dentist tomorrow"},
		},
		{
			name: "semicolons split",
			text: "fix the gate; paint the fence",
			want: []string{"fix the gate", "paint the fence"},
		},
		{
			name: "filler segments dropped",
			text: "Buy stamps. Thanks!",
			want: []string{"Buy stamps"},
		},
		{
			name: "also mid-sentence",
			text: "book flights also reserve the hotel",
			want: []string{"book flights", "reserve the hotel"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Actions(tt.text).Actions
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Actions(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestActionsNeverEmptyForNonBlankInput(t *testing.T) {
	for _, text := range []string{"ok fine", "x y", "do it."} {
		got := Actions(text).Actions
		if len(got) == 0 {
			t.Errorf("Actions(%q) returned no actions, want fallback to input", text)
		}
	}
}

func TestActionsBlankInput(t *testing.T) {
	if got := Actions("   ").Actions; len(got) != 0 {
		t.Errorf("Actions(blank) = %v, want none", got)
	}
}

func TestActionsInferredTitle(t *testing.T) {
	res := Actions("I need to plan the garden. Buy seeds and then rent a tiller.")
	if res.Title != "plan the garden" {
		t.Errorf("Title = %q, want %q", res.Title, "plan the garden")
	}
	want := []string{"plan the garden", "Buy seeds", "rent a tiller"}
	if !reflect.DeepEqual(res.Actions, want) {
		t.Errorf("Actions = %v, want %v", res.Actions, want)
	}
}

func TestProjectHint(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"add milk to my shopping list", "shopping"},
		{"put this in the work project", "work"},
		{"buy cement for the home renovation project", "home renovation"},
		{"call mom tomorrow", ""},
	}

	for _, tt := range tests {
		if got := ProjectHint(tt.text); got != tt.want {
			t.Errorf("ProjectHint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestDateHint(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"buy milk tomorrow", "tomorrow"},
		{"submit the report next week", "next week"},
		{"dentist on friday", "on friday"},
		{"pay rent 2025-02-01", "2025-02-01"},
		{"no schedule here", ""},
	}

	for _, tt := range tests {
		if got := DateHint(tt.text); got != tt.want {
			t.Errorf("DateHint(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestStripProjectHint(t *testing.T) {
	got := StripProjectHint("add milk to my shopping list")
	if got != "add milk" {
		t.Errorf("StripProjectHint = %q, want %q", got, "add milk")
	}
}
