package model

type ParentKind int

const (
	ParentNone ParentKind = iota
	ParentProject
	ParentCategory
)

func (k ParentKind) String() string {
	switch k {
	case ParentProject:
		return "project"
	case ParentCategory:
		return "category"
	default:
		return "none"
	}
}

// ParentRef is a task's parent: none, a project, or a category.
type ParentRef struct {
	kind ParentKind
	id   string
}

func NoParent() ParentRef { return ParentRef{} }

func ProjectParent(id string) ParentRef { return ParentRef{kind: ParentProject, id: id} }

func CategoryParent(id string) ParentRef { return ParentRef{kind: ParentCategory, id: id} }

func (p ParentRef) Kind() ParentKind { return p.kind }

func (p ParentRef) ID() string { return p.id }

func (p ParentRef) IsNone() bool { return p.kind == ParentNone }

func (p ParentRef) String() string {
	if p.IsNone() {
		return "none"
	}
	return p.kind.String() + ":" + p.id
}
