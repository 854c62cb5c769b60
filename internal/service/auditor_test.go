package service

import (
	"context"
	"testing"
)

func TestAuditorReportsBrokenLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u1 := f.user(t, "u1@example.com")
	work := f.project(t, u1, "Work")
	sprint := f.category(t, u1, work.ID, "Sprint1")
	task := f.task(t, u1, sprint.ID, "Fix bug", 0)
	f.assertConsistent(t)

	// list the task under the project as well, bypassing the manager
	if err := f.store.Links.AddProjectTask(ctx, work.ID, task.ID); err != nil {
		t.Fatalf("seed link: %v", err)
	}
	// and a link to a task that does not exist
	if err := f.store.Links.AddCategoryTask(ctx, sprint.ID, "6f1c2a8e-5f43-4c1a-9d2e-1a2b3c4d5e6f"); err != nil {
		t.Fatalf("seed link: %v", err)
	}

	report, err := NewAuditor(f.store, f.log).Run(ctx)
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	if report.OK() {
		t.Fatal("expected violations")
	}
	rules := make(map[string]bool)
	for _, v := range report.Violations {
		rules[v.Rule] = true
	}
	for _, rule := range []string{"backlink-symmetry", "orphan-backlink"} {
		if !rules[rule] {
			t.Errorf("missing %s violation in %+v", rule, report.Violations)
		}
	}
	if report.Projects != 1 || report.Categories != 1 || report.Tasks != 1 {
		t.Errorf("counts = %d/%d/%d", report.Projects, report.Categories, report.Tasks)
	}
}
