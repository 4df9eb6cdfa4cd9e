package model

// SelectAnswerRequest sets the active choice on the current quiz question.
type SelectAnswerRequest struct {
	Answer string `json:"answer" binding:"required,oneof=A B C D"`
}
