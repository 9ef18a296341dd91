package wizard

import "gradpath/internal/model"

// SOP questionnaire identifiers
const (
	SOPFormID          = "sop"
	QuestionUniversity = "university"
	QuestionOtherUni   = "otherUniversity"
	OtherUniversity    = "Other"
)

// SOPForm returns the statement-of-purpose questionnaire
func SOPForm() *model.FormDefinition {
	return &model.FormDefinition{
		ID:       SOPFormID,
		Title:    "Statement of Purpose",
		PageSize: 3,
		Questions: []model.Question{
			{
				ID:     QuestionUniversity,
				Prompt: "Which university are you applying to?",
				Kind:   model.KindSingleChoice,
				Options: []string{
					"Massachusetts Institute of Technology",
					"Stanford University",
					"Harvard University",
					"University of Oxford",
					"University of Cambridge",
					"ETH Zurich",
					"Imperial College London",
					"University of Toronto",
					OtherUniversity,
				},
				Required: true,
			},
			{ID: QuestionOtherUni, Prompt: "If other, please specify:", Kind: model.KindShortText},
			{ID: "program", Prompt: "What program are you applying to?", Kind: model.KindShortText, Required: true},
			{ID: "background", Prompt: "Describe your academic background", Kind: model.KindLongText, Required: true},
			{ID: "whyProgram", Prompt: "Why are you interested in this program?", Kind: model.KindLongText, Required: true},
			{ID: "careerGoals", Prompt: "What are your short and long-term career goals?", Kind: model.KindLongText, Required: true},
			{ID: "skills", Prompt: "What relevant skills or experiences do you have?", Kind: model.KindLongText, Required: true},
			{ID: "achievements", Prompt: "What are your notable academic or professional achievements?", Kind: model.KindLongText},
			{ID: "research", Prompt: "Do you have any research experience or interests?", Kind: model.KindLongText},
			{ID: "contribution", Prompt: "How will you contribute to the program/university?", Kind: model.KindLongText, Required: true},
		},
		Rules: []model.ConditionalRule{
			{TriggerID: QuestionUniversity, TriggerValue: OtherUniversity, DependentID: QuestionOtherUni, Substitute: true},
		},
	}
}
