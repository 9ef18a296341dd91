package wizard

import (
	"errors"
	"fmt"
	"sort"

	"gradpath/internal/model"
)

var ErrFormNotFound = errors.New("form not found")

// Validate checks a form definition once at startup
func Validate(def *model.FormDefinition) error {
	if def.ID == "" {
		return errors.New("form id is required")
	}
	if def.PageSize < 1 {
		return fmt.Errorf("form %s: page size must be positive", def.ID)
	}
	byID := make(map[string]model.Question, len(def.Questions))
	for _, q := range def.Questions {
		if q.ID == "" {
			return fmt.Errorf("form %s: question without id", def.ID)
		}
		if _, dup := byID[q.ID]; dup {
			return fmt.Errorf("form %s: duplicate question %q", def.ID, q.ID)
		}
		switch q.Kind {
		case model.KindSingleChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("form %s: question %q needs options", def.ID, q.ID)
			}
		case model.KindShortText, model.KindLongText:
			if len(q.Options) > 0 {
				return fmt.Errorf("form %s: question %q is not single-choice but has options", def.ID, q.ID)
			}
		default:
			return fmt.Errorf("form %s: question %q has unknown kind %q", def.ID, q.ID, q.Kind)
		}
		byID[q.ID] = q
	}
	for _, r := range def.Rules {
		if _, ok := byID[r.TriggerID]; !ok {
			return fmt.Errorf("form %s: rule trigger %q is not a question", def.ID, r.TriggerID)
		}
		dep, ok := byID[r.DependentID]
		if !ok {
			return fmt.Errorf("form %s: rule dependent %q is not a question", def.ID, r.DependentID)
		}
		// a required substitute would fail validation once substituted away
		if r.Substitute && dep.Required {
			return fmt.Errorf("form %s: substituting dependent %q cannot be required", def.ID, r.DependentID)
		}
	}
	return nil
}

// Registry holds the validated form definitions
type Registry struct {
	forms map[string]*model.FormDefinition
}

// NewRegistry validates and registers the given definitions
func NewRegistry(defs ...*model.FormDefinition) (*Registry, error) {
	r := &Registry{forms: make(map[string]*model.FormDefinition, len(defs))}
	for _, d := range defs {
		if err := Validate(d); err != nil {
			return nil, err
		}
		r.forms[d.ID] = d
	}
	return r, nil
}

// Get returns a definition by id
func (r *Registry) Get(id string) (*model.FormDefinition, error) {
	d, ok := r.forms[id]
	if !ok {
		return nil, ErrFormNotFound
	}
	return d, nil
}

// IDs lists registered form ids
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.forms))
	for id := range r.forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
