package entities

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a short-lived message shown to the operator.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}
