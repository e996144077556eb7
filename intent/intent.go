package intent

// Intent is the classified purpose of a query, used to pick a retrieval depth.
// Values outside the known set are legal; they select the default strategy.
type Intent string

const (
	SpecificQuestion Intent = "specific_question"
	Summarization    Intent = "summarization"
	Instruction      Intent = "instruction"
	GeneralQuestion  Intent = "general_question"
	Other            Intent = "other"
)

// Known lists the recognized intents in prompt order.
var Known = []Intent{SpecificQuestion, Summarization, Instruction, GeneralQuestion, Other}

// IsKnown reports whether i is one of the recognized labels. Matching is exact.
func (i Intent) IsKnown() bool {
	for _, k := range Known {
		if i == k {
			return true
		}
	}
	return false
}

func (i Intent) String() string {
	return string(i)
}
