package service

import (
	"context"
	"fmt"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// ScoreAnswers sums the points of every selected option. Answers are checked
// in the given order, so the first invalid one is the error reported:
// domain.ErrQuestionNotFound for an unknown question and
// domain.ErrOptionOutOfRange for an index outside the question's options.
func ScoreAnswers(ctx context.Context, questions ports.QuestionRepository, answers []domain.Answer) (int, error) {
	total := 0
	for _, a := range answers {
		q, err := questions.FindByID(ctx, a.QuestionID)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", a.QuestionID, err)
		}

		opt, err := q.OptionAt(a.OptionIndex)
		if err != nil {
			return 0, fmt.Errorf("question %d: %w", a.QuestionID, err)
		}
		total += opt.Points
	}
	return total, nil
}
