package domain

// Answer is the structured payload shared by answer keys and candidate
// answers. Which field is meaningful depends on the question type: Selected
// for multiple choice, Order for drag/drop, Fills for fill-in-the-blank and
// Bool for true/false. Pointer and nil-slice zero values distinguish "absent"
// from a legitimate zero answer (option 0, false).
type Answer struct {
	Selected *int              `json:"selected,omitempty"`
	Order    []int             `json:"order,omitempty"`
	Fills    map[string]string `json:"fills,omitempty"`
	Bool     *bool             `json:"answer,omitempty"`
}

// SelectedAnswer builds a multiple-choice payload.
func SelectedAnswer(option int) Answer {
	return Answer{Selected: &option}
}

// OrderAnswer builds a drag/drop payload.
func OrderAnswer(order ...int) Answer {
	return Answer{Order: order}
}

// FillsAnswer builds a fill-in-the-blank payload.
func FillsAnswer(fills map[string]string) Answer {
	return Answer{Fills: fills}
}

// BoolAnswer builds a true/false payload.
func BoolAnswer(v bool) Answer {
	return Answer{Bool: &v}
}
