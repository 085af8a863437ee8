package model

// Kind identifies which form a submission came from. Each kind has its own
// fallback file.
type Kind string

const (
	KindContact Kind = "contact"
	KindHiring  Kind = "hiring"
)

// Kinds lists every known submission kind in display order.
func Kinds() []Kind {
	return []Kind{KindContact, KindHiring}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindContact, KindHiring:
		return true
	}
	return false
}

// Submission is a name/email/message triple posted from a form.
// Values are stored trimmed; there is no ID and no update path.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Outcome is what the intake pipeline reports back to the visitor.
type Outcome struct {
	Kind      Kind
	Delivered bool
	Stored    bool
	Notice    string
}
