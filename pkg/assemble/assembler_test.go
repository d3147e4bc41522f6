package assemble

import (
	"errors"
	"reflect"
	"testing"
)

func TestBuildTitleBecomesMainTask(t *testing.T) {
	req, err := Build(Input{
		Title:     "plan the garden",
		Actions:   []string{"buy seeds", "rent a tiller"},
		ProjectID: "p1",
		DueDate:   "2025-03-01",
		Priority:  2,
		Labels:    []string{"voice", "ha"},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if req.MainTask != "plan the garden" {
		t.Errorf("MainTask = %q", req.MainTask)
	}
	if !reflect.DeepEqual(req.Subtasks, []string{"buy seeds", "rent a tiller"}) {
		t.Errorf("Subtasks = %v", req.Subtasks)
	}
	if req.Priority != 2 || req.DueDate != "2025-03-01" {
		t.Errorf("carried fields wrong: %+v", req)
	}
}

func TestBuildTitleFromFirstActionNotDuplicated(t *testing.T) {
	req, err := Build(Input{
		Title:     "plan the garden",
		Actions:   []string{"plan the garden", "buy seeds"},
		ProjectID: "p1",
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if req.MainTask != "plan the garden" {
		t.Errorf("MainTask = %q", req.MainTask)
	}
	if !reflect.DeepEqual(req.Subtasks, []string{"buy seeds"}) {
		t.Errorf("Subtasks = %v, want first action folded into main", req.Subtasks)
	}
}

func TestBuildFirstActionFallback(t *testing.T) {
	req, err := Build(Input{
		Actions:   []string{"buy milk", "call mom"},
		ProjectID: "p1",
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if req.MainTask != "buy milk" {
		t.Errorf("MainTask = %q, want first action", req.MainTask)
	}
	if !reflect.DeepEqual(req.Subtasks, []string{"call mom"}) {
		t.Errorf("Subtasks = %v, want remaining actions", req.Subtasks)
	}
}

func TestBuildSingleActionNoSubtasks(t *testing.T) {
	req, err := Build(Input{Actions: []string{"buy milk"}, ProjectID: "p1"})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if req.MainTask != "buy milk" || len(req.Subtasks) != 0 {
		t.Errorf("got %+v, want single main task", req)
	}
}

func TestBuildValidation(t *testing.T) {
	if _, err := Build(Input{ProjectID: "p1"}); !errors.Is(err, ErrNoActions) {
		t.Errorf("err = %v, want ErrNoActions", err)
	}
	if _, err := Build(Input{Actions: []string{"x"}}); !errors.Is(err, ErrNoProject) {
		t.Errorf("err = %v, want ErrNoProject", err)
	}
}

func TestNormalizePriority(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 4}, {1, 1}, {4, 4}, {-2, 1}, {9, 1 + 3},
	}
	for _, tt := range tests {
		if got := NormalizePriority(tt.in); got != tt.want {
			t.Errorf("NormalizePriority(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
