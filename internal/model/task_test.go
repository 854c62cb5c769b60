package model

import "testing"

func TestSetParentKeepsSingleParent(t *testing.T) {
	var task Task

	task.SetParent(ProjectParent("p1"))
	if task.ProjectID == nil || *task.ProjectID != "p1" || task.CategoryID != nil {
		t.Fatalf("project parent not applied: %+v", task)
	}

	task.SetParent(CategoryParent("c1"))
	if task.CategoryID == nil || *task.CategoryID != "c1" {
		t.Fatalf("category parent not applied: %+v", task)
	}
	if task.ProjectID != nil {
		t.Fatal("setting a category must clear the project")
	}

	task.SetParent(NoParent())
	if task.ProjectID != nil || task.CategoryID != nil {
		t.Fatal("NoParent must clear both columns")
	}
}

func TestParentPrefersCategoryColumn(t *testing.T) {
	p, c := "p1", "c1"
	task := Task{ProjectID: &p, CategoryID: &c}
	got := task.Parent()
	if got.Kind() != ParentCategory || got.ID() != "c1" {
		t.Fatalf("Parent() = %s, want category:c1", got)
	}
}

func TestPriorityValid(t *testing.T) {
	for p := Priority(-1); p <= 4; p++ {
		want := p >= 0 && p <= 3
		if p.Valid() != want {
			t.Errorf("Priority(%d).Valid() = %v", p, p.Valid())
		}
	}
}
