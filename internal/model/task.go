package model

import "time"

// Priority ranges from 0 (none) to 3 (highest).
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

func (p Priority) Valid() bool {
	return p >= PriorityNone && p <= PriorityHigh
}

// Task represents a single to-do item. The parent columns are only written
// through SetParent so that at most one of them is ever set.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Body        string `gorm:"not null"`
	DueDate     *time.Time
	Priority    Priority `gorm:"not null;check:chk_tasks_priority,priority BETWEEN 0 AND 3"`
	IsCompleted bool     `gorm:"default:false"`
	OwnerID     string   `gorm:"index;not null"`
	ProjectID   *string  `gorm:"index;check:chk_tasks_single_parent,project_id IS NULL OR category_id IS NULL"`
	CategoryID  *string  `gorm:"index"`
	Version     int      `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Parent returns the task's parent as a ParentRef.
func (t *Task) Parent() ParentRef {
	switch {
	case t.CategoryID != nil:
		return CategoryParent(*t.CategoryID)
	case t.ProjectID != nil:
		return ProjectParent(*t.ProjectID)
	default:
		return NoParent()
	}
}

// SetParent points the task at p and clears the other parent column.
func (t *Task) SetParent(p ParentRef) {
	t.ProjectID, t.CategoryID = nil, nil
	id := p.ID()
	switch p.Kind() {
	case ParentProject:
		t.ProjectID = &id
	case ParentCategory:
		t.CategoryID = &id
	}
}

// TaskSummary is a task without owner or parent links, as nested inside
// project and category views.
type TaskSummary struct {
	ID          string     `json:"_id"`
	Body        string     `json:"body"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Priority    Priority   `json:"priority"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t Task) Summary() TaskSummary {
	return TaskSummary{
		ID:          t.ID,
		Body:        t.Body,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
