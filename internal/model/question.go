package model

// Question represents a single multiple-choice certification question.
type Question struct {
	ID            int    `json:"id"`
	Text          string `json:"text"`
	Category      string `json:"category"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
	IsActive      bool   `json:"isActive"`
}

// AnswerLetters lists the valid answer choices in display order.
var AnswerLetters = []string{"A", "B", "C", "D"}

// IsAnswerLetter reports whether s is one of A, B, C or D.
func IsAnswerLetter(s string) bool {
	switch s {
	case "A", "B", "C", "D":
		return true
	}
	return false
}

// Option returns the option text for an answer letter, or "" for anything else.
func (q *Question) Option(letter string) string {
	switch letter {
	case "A":
		return q.OptionA
	case "B":
		return q.OptionB
	case "C":
		return q.OptionC
	case "D":
		return q.OptionD
	}
	return ""
}

// Public strips the answer key so the question can be shown mid-quiz.
func (q *Question) Public() QuizQuestion {
	return QuizQuestion{
		ID:       q.ID,
		Text:     q.Text,
		Category: q.Category,
		OptionA:  q.OptionA,
		OptionB:  q.OptionB,
		OptionC:  q.OptionC,
		OptionD:  q.OptionD,
	}
}

// QuizQuestion is a question as rendered during a running quiz.
type QuizQuestion struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
	OptionA  string `json:"optionA"`
	OptionB  string `json:"optionB"`
	OptionC  string `json:"optionC"`
	OptionD  string `json:"optionD"`
}

// CreateQuestionRequest is the payload for adding a question to the catalog.
type CreateQuestionRequest struct {
	Text          string `json:"text" binding:"required,notblank,max=2000"`
	Category      string `json:"category" binding:"required,notblank,max=50"`
	OptionA       string `json:"optionA" binding:"required,notblank,max=500"`
	OptionB       string `json:"optionB" binding:"required,notblank,max=500"`
	OptionC       string `json:"optionC" binding:"required,notblank,max=500"`
	OptionD       string `json:"optionD" binding:"required,notblank,max=500"`
	CorrectAnswer string `json:"correctAnswer" binding:"required,oneof=A B C D"`
	Explanation   string `json:"explanation" binding:"max=4000"`
}

// ToQuestion converts the payload into a new, not yet stored question.
func (r *CreateQuestionRequest) ToQuestion() *Question {
	return &Question{
		Text:          r.Text,
		Category:      r.Category,
		OptionA:       r.OptionA,
		OptionB:       r.OptionB,
		OptionC:       r.OptionC,
		OptionD:       r.OptionD,
		CorrectAnswer: r.CorrectAnswer,
		Explanation:   r.Explanation,
	}
}

// UpdateQuestionRequest is a partial update; nil fields are left untouched.
type UpdateQuestionRequest struct {
	Text          *string `json:"text" binding:"omitempty,notblank,max=2000"`
	Category      *string `json:"category" binding:"omitempty,notblank,max=50"`
	OptionA       *string `json:"optionA" binding:"omitempty,notblank,max=500"`
	OptionB       *string `json:"optionB" binding:"omitempty,notblank,max=500"`
	OptionC       *string `json:"optionC" binding:"omitempty,notblank,max=500"`
	OptionD       *string `json:"optionD" binding:"omitempty,notblank,max=500"`
	CorrectAnswer *string `json:"correctAnswer" binding:"omitempty,oneof=A B C D"`
	Explanation   *string `json:"explanation" binding:"omitempty,max=4000"`
}

// Apply merges the non-nil fields onto q. ID and IsActive are never touched.
func (r *UpdateQuestionRequest) Apply(q *Question) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&q.Text, r.Text)
	set(&q.Category, r.Category)
	set(&q.OptionA, r.OptionA)
	set(&q.OptionB, r.OptionB)
	set(&q.OptionC, r.OptionC)
	set(&q.OptionD, r.OptionD)
	set(&q.CorrectAnswer, r.CorrectAnswer)
	set(&q.Explanation, r.Explanation)
}

// BrowseQuery combines the search box and the category dropdown of the browse view.
type BrowseQuery struct {
	Search   string `form:"search" binding:"max=200"`
	Category string `form:"category" binding:"max=50"`
}
