// Package wizard implements the multi-step questionnaire: answer
// collection with conditional visibility, page gating and final
// validation.
package wizard

import "gradpath/internal/model"

// Collector holds the answers of one form instance
type Collector struct {
	questions []model.Question
	rules     []model.ConditionalRule
	answers   model.AnswerMap
}

// NewCollector creates a collector over an initial answer map. The map
// is copied and pruned of answers to hidden questions.
func NewCollector(def *model.FormDefinition, answers model.AnswerMap) *Collector {
	c := &Collector{
		questions: def.Questions,
		rules:     def.Rules,
		answers:   answers.Clone(),
	}
	c.prune()
	return c
}

// SetAnswer stores value for the question. Changing a trigger away from
// its trigger value deletes the dependent answer.
func (c *Collector) SetAnswer(questionID, value string) {
	c.answers[questionID] = value
	c.prune()
}

// Answer returns the stored answer, "" when absent
func (c *Collector) Answer(questionID string) string {
	return c.answers.Get(questionID)
}

// Answers returns a copy of the answer map
func (c *Collector) Answers() model.AnswerMap {
	return c.answers.Clone()
}

// Visible returns the questions currently shown, in definition order
func (c *Collector) Visible() []model.Question {
	return VisibleQuestions(c.questions, c.rules, c.answers)
}

// prune deletes answers of dependents whose trigger does not match,
// repeating until chained rules settle.
func (c *Collector) prune() {
	for changed := true; changed; {
		changed = false
		for _, r := range c.rules {
			if c.answers[r.TriggerID] == r.TriggerValue {
				continue
			}
			if _, ok := c.answers[r.DependentID]; ok {
				delete(c.answers, r.DependentID)
				changed = true
			}
		}
	}
}

// VisibleQuestions filters questions by the rule table. A dependent
// question is visible iff every rule naming it is satisfied.
func VisibleQuestions(questions []model.Question, rules []model.ConditionalRule, answers model.AnswerMap) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if isShown(q.ID, rules, answers) {
			out = append(out, q)
		}
	}
	return out
}

func isShown(id string, rules []model.ConditionalRule, answers model.AnswerMap) bool {
	for _, r := range rules {
		if r.DependentID == id && answers.Get(r.TriggerID) != r.TriggerValue {
			return false
		}
	}
	return true
}
