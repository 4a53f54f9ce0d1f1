package service

import "vidquiz/internal/domain"

// Assembler maps a batch's generated question groups back onto its segment
// requests and normalizes each question into the fixed output record shape.
type Assembler struct{}

// NewAssembler creates a new Assembler.
func NewAssembler() *Assembler {
	return &Assembler{}
}

// AssembleBatch aligns group i with the batch's request i positionally.
// Each segment receives exactly its desired question count: short groups are
// padded with placeholders and missing groups are synthesized entirely from
// placeholders. nextIndex is the 1-based global index of the batch's first
// segment; the returned index accounts for every segment in the batch, so
// numbering stays gapless across batches.
func (a *Assembler) AssembleBatch(batch domain.Batch, groups []domain.GeneratedQuestionGroup, nextIndex int) ([]domain.Question, int) {
	var questions []domain.Question

	for i, req := range batch.Requests {
		var group domain.GeneratedQuestionGroup
		if i < len(groups) {
			group = groups[i]
		}

		prefix := ""
		if req.Style == domain.StyleCaseStudy && group.CaseStudy != "" {
			prefix = "Case study:\n" + group.CaseStudy + "\nQuestion:\n"
		}

		for q := 0; q < req.QuestionCount; q++ {
			if q < len(group.Questions) {
				generated := group.Questions[q]
				questions = append(questions, domain.Question{
					Question:      prefix + generated.Question,
					Option1:       optionAt(generated.Options, 0),
					Option2:       optionAt(generated.Options, 1),
					Option3:       optionAt(generated.Options, 2),
					Option4:       optionAt(generated.Options, 3),
					CorrectAnswer: generated.CorrectAnswerIndex,
					Segment:       nextIndex,
				})
			} else {
				questions = append(questions, placeholderQuestion(nextIndex))
			}
		}

		nextIndex++
	}

	return questions, nextIndex
}

// placeholderQuestion satisfies the per-segment count guarantee when the
// capability returned fewer questions than requested.
func placeholderQuestion(segmentIndex int) domain.Question {
	return domain.Question{Segment: segmentIndex}
}

func optionAt(options []string, i int) string {
	if i < len(options) {
		return options[i]
	}
	return ""
}
