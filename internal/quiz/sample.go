package quiz

import (
	"math/rand/v2"

	"github.com/stemsi/certquiz-backend/internal/model"
)

// Sample returns the first min(n, len(questions)) elements of a uniform
// random permutation of questions. The input slice is not modified.
func Sample(rng *rand.Rand, questions []model.Question, n int) []model.Question {
	shuffled := append([]model.Question(nil), questions...)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if n < len(shuffled) {
		shuffled = shuffled[:n]
	}
	return shuffled
}
