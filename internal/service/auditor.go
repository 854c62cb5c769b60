package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"todotrek/internal/model"
	"todotrek/internal/repository"
)

// Violation describes one broken relationship found by the auditor.
type Violation struct {
	Rule     string
	EntityID string
	Detail   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %s: %s", v.Rule, v.EntityID, v.Detail)
}

type Report struct {
	Projects   int
	Categories int
	Tasks      int
	Violations []Violation
}

func (r Report) OK() bool { return len(r.Violations) == 0 }

// Auditor scans the whole store for relationship invariant violations. It
// only reports.
type Auditor struct {
	store *repository.Store
	log   *logrus.Entry
}

func NewAuditor(store *repository.Store, log *logrus.Entry) *Auditor {
	return &Auditor{store: store, log: log.WithField("component", "auditor")}
}

func (a *Auditor) Run(ctx context.Context) (Report, error) {
	var report Report
	err := a.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		report, err = audit(ctx, tx)
		return err
	})
	if err != nil {
		return Report{}, err
	}

	entry := a.log.WithFields(logrus.Fields{
		"projects":   report.Projects,
		"categories": report.Categories,
		"tasks":      report.Tasks,
		"violations": len(report.Violations),
	})
	if report.OK() {
		entry.Info("integrity audit passed")
	} else {
		for _, v := range report.Violations {
			a.log.WithField("rule", v.Rule).Warn(v.String())
		}
		entry.Warn("integrity audit found violations")
	}
	return report, nil
}

func audit(ctx context.Context, tx *repository.Store) (Report, error) {
	projects, err := tx.Projects.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}
	categories, err := tx.Categories.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}
	tasks, err := tx.Tasks.ListAll(ctx)
	if err != nil {
		return Report{}, err
	}
	projectCategories, err := tx.Links.AllProjectCategories(ctx)
	if err != nil {
		return Report{}, err
	}
	projectTasks, err := tx.Links.AllProjectTasks(ctx)
	if err != nil {
		return Report{}, err
	}
	categoryTasks, err := tx.Links.AllCategoryTasks(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{Projects: len(projects), Categories: len(categories), Tasks: len(tasks)}
	add := func(rule, id, format string, args ...any) {
		report.Violations = append(report.Violations, Violation{Rule: rule, EntityID: id, Detail: fmt.Sprintf(format, args...)})
	}

	projectByID := make(map[string]model.Project, len(projects))
	for _, p := range projects {
		projectByID[p.ID] = p
	}
	categoryByID := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}
	taskByID := make(map[string]model.Task, len(tasks))
	for _, t := range tasks {
		taskByID[t.ID] = t
	}

	listed := make(map[string]bool)
	for _, l := range projectCategories {
		listed[l.CategoryID] = true
		c, ok := categoryByID[l.CategoryID]
		switch {
		case !ok:
			add("project-containment", l.ProjectID, "lists missing category %s", l.CategoryID)
		case c.ProjectID != l.ProjectID:
			add("project-containment", l.ProjectID, "lists category %s that belongs to %s", l.CategoryID, c.ProjectID)
		}
	}
	for _, c := range categories {
		if _, ok := projectByID[c.ProjectID]; !ok {
			add("project-containment", c.ID, "category project %s does not exist", c.ProjectID)
		} else if !listed[c.ID] {
			add("backlink-symmetry", c.ID, "category missing from project %s list", c.ProjectID)
		}
	}

	projectLinks := make(map[string][]string)
	for _, l := range projectTasks {
		projectLinks[l.TaskID] = append(projectLinks[l.TaskID], l.ProjectID)
		if _, ok := taskByID[l.TaskID]; !ok {
			add("orphan-backlink", l.ProjectID, "project lists missing task %s", l.TaskID)
		}
	}
	categoryLinks := make(map[string][]string)
	for _, l := range categoryTasks {
		categoryLinks[l.TaskID] = append(categoryLinks[l.TaskID], l.CategoryID)
		if _, ok := taskByID[l.TaskID]; !ok {
			add("orphan-backlink", l.CategoryID, "category lists missing task %s", l.TaskID)
		}
	}

	for _, t := range tasks {
		if t.ProjectID != nil && t.CategoryID != nil {
			add("single-parent", t.ID, "task has both project %s and category %s", *t.ProjectID, *t.CategoryID)
			continue
		}
		parent := t.Parent()
		inProjects, inCategories := projectLinks[t.ID], categoryLinks[t.ID]
		switch parent.Kind() {
		case model.ParentProject:
			if len(inProjects) != 1 || inProjects[0] != parent.ID() || len(inCategories) != 0 {
				add("backlink-symmetry", t.ID, "parent %s but listed by projects %v and categories %v", parent, inProjects, inCategories)
			}
			if p, ok := projectByID[parent.ID()]; !ok {
				add("dangling-parent", t.ID, "project %s does not exist", parent.ID())
			} else if p.OwnerID != t.OwnerID {
				add("ownership", t.ID, "owner %s differs from project owner %s", t.OwnerID, p.OwnerID)
			}
		case model.ParentCategory:
			if len(inCategories) != 1 || inCategories[0] != parent.ID() || len(inProjects) != 0 {
				add("backlink-symmetry", t.ID, "parent %s but listed by projects %v and categories %v", parent, inProjects, inCategories)
			}
			if _, ok := categoryByID[parent.ID()]; !ok {
				add("dangling-parent", t.ID, "category %s does not exist", parent.ID())
			}
		default:
			if len(inProjects)+len(inCategories) != 0 {
				add("backlink-symmetry", t.ID, "standalone task listed by projects %v and categories %v", inProjects, inCategories)
			}
		}
	}

	return report, nil
}
