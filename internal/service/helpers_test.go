package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"todotrek/internal/model"
	"todotrek/internal/repository"
)

type fixture struct {
	db         *gorm.DB
	store      *repository.Store
	deps       Deps
	projects   *ProjectService
	categories *CategoryService
	tasks      *TaskService
	log        *logrus.Entry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	log := logrus.NewEntry(logger)

	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"), log)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	store := repository.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	deps := NewDeps(store, 5*time.Second, log)
	return &fixture{
		db:         db,
		store:      store,
		deps:       deps,
		projects:   NewProjectService(deps),
		categories: NewCategoryService(deps),
		tasks:      NewTaskService(deps),
		log:        log,
	}
}

func (f *fixture) user(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{FirstName: "Test", LastName: "User", Email: email, PasswordHash: "x", IsVerified: true}
	if err := f.store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func (f *fixture) project(t *testing.T, owner *model.User, name string) *ProjectView {
	t.Helper()
	p, err := f.projects.Create(context.Background(), owner.ID, ProjectInput{Name: name, Color: "#ff0000"})
	if err != nil {
		t.Fatalf("create project %s: %v", name, err)
	}
	return p
}

func (f *fixture) category(t *testing.T, owner *model.User, projectID, name string) *CategoryView {
	t.Helper()
	c, err := f.categories.Create(context.Background(), owner.ID, projectID, name)
	if err != nil {
		t.Fatalf("create category %s: %v", name, err)
	}
	return c
}

func (f *fixture) task(t *testing.T, owner *model.User, parentID, body string, priority int) *TaskView {
	t.Helper()
	v, err := f.tasks.Create(context.Background(), owner.ID, TaskInput{Body: body, ParentID: parentID, Priority: &priority})
	if err != nil {
		t.Fatalf("create task %s: %v", body, err)
	}
	return v
}

// assertConsistent runs the auditor and fails on any violation.
func (f *fixture) assertConsistent(t *testing.T) {
	t.Helper()
	report, err := NewAuditor(f.store, f.log).Run(context.Background())
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	for _, v := range report.Violations {
		t.Errorf("violation: %s", v)
	}
}

var errDiskFull = errors.New("database or disk is full")

// failStatements makes every create, delete or query statement against
// table fail from now on.
func (f *fixture) failStatements(t *testing.T, op, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(errDiskFull)
		}
	}
	name := "todotrek:fail_" + op + "_" + table
	var err error
	switch op {
	case "create":
		err = f.db.Callback().Create().Before("gorm:create").Register(name, fail)
	case "delete":
		err = f.db.Callback().Delete().Before("gorm:delete").Register(name, fail)
	case "query":
		err = f.db.Callback().Query().Before("gorm:query").Register(name, fail)
	default:
		t.Fatalf("unknown statement op %q", op)
	}
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
}

func ptr[T any](v T) *T { return &v }

func repositoryFilterCategory(id string) repository.TaskFilter {
	return repository.TaskFilter{CategoryID: id}
}
