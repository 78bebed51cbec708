package domain

// MaxQuestions caps how many questions a single discovery session may ask.
const MaxQuestions = 8

type QA struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

type Transcript []QA

// Append returns a new transcript; the receiver is left untouched.
func (t Transcript) Append(question, answer string) Transcript {
	next := make(Transcript, len(t), len(t)+1)
	copy(next, t)
	return append(next, QA{Question: question, Answer: answer})
}

func (t Transcript) Full() bool {
	return len(t) >= MaxQuestions
}
