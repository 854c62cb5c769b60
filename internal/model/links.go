package model

// Child lists are stored one row per (parent, child) pair. Seq preserves
// insertion order; the unique index makes an add a set-add.

type ProjectCategory struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID  string `gorm:"not null;uniqueIndex:idx_project_category"`
	CategoryID string `gorm:"not null;uniqueIndex:idx_project_category;index"`
}

type ProjectTask struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	ProjectID string `gorm:"not null;uniqueIndex:idx_project_task"`
	TaskID    string `gorm:"not null;uniqueIndex:idx_project_task;index"`
}

type CategoryTask struct {
	Seq        uint   `gorm:"primaryKey;autoIncrement"`
	CategoryID string `gorm:"not null;uniqueIndex:idx_category_task"`
	TaskID     string `gorm:"not null;uniqueIndex:idx_category_task;index"`
}
