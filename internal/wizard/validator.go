package wizard

import (
	"encoding/json"
	"sort"

	"gradpath/internal/apperr"
	"gradpath/internal/model"
)

// Finalized is the validated, substitution-applied answer map handed to
// the generation collaborator
type Finalized struct {
	m map[string]string
}

// Get returns the finalized value for a question
func (f Finalized) Get(id string) string { return f.m[id] }

// Len returns the number of answers
func (f Finalized) Len() int { return len(f.m) }

// Keys returns the question IDs in sorted order
func (f Finalized) Keys() []string {
	keys := make([]string, 0, len(f.m))
	for k := range f.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the finalized answers
func (f Finalized) Map() model.AnswerMap {
	return model.AnswerMap(f.m).Clone()
}

func (f Finalized) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.m)
}

// Finalize re-validates all visible required questions and applies the
// substitution rules. Calling it again on its own output yields the same
// result.
func Finalize(answers model.AnswerMap, visible []model.Question, rules []model.ConditionalRule) (Finalized, error) {
	var missing []string
	for _, q := range visible {
		if q.Required && !answers.Filled(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	if len(missing) > 0 {
		return Finalized{}, &apperr.ValidationError{Missing: missing}
	}

	out := answers.Clone()
	for _, r := range rules {
		if !r.Substitute || out[r.TriggerID] != r.TriggerValue {
			continue
		}
		if v := out[r.DependentID]; v != "" {
			out[r.TriggerID] = v
			delete(out, r.DependentID)
		}
	}
	return Finalized{m: out}, nil
}
