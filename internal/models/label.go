package models

// LabelClass is the outcome of label normalization.
type LabelClass int

// Label classes. LabelUnrecognized is distinct from both canonical values.
const (
	LabelUnrecognized LabelClass = iota
	LabelTrue
	LabelFalse
)

// Canonical label names.
const (
	NameTrue  = "verdadera"
	NameFalse = "falsa"
)

// String returns the class name.
func (c LabelClass) String() string {
	switch c {
	case LabelTrue:
		return NameTrue
	case LabelFalse:
		return NameFalse
	default:
		return "unrecognized"
	}
}

// Label is a normalized label. Name holds the canonical name for the two
// known classes and the cleaned raw text for unrecognized ones.
type Label struct {
	Name  string
	Class LabelClass
}

// IsCanonical reports whether the label maps to one of the two known classes.
func (l Label) IsCanonical() bool {
	return l.Class == LabelTrue || l.Class == LabelFalse
}
