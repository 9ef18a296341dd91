package model

import "strings"

// AnswerMap maps question IDs to free-text answers. Only touched
// questions have keys.
type AnswerMap map[string]string

// Get returns the stored answer or "" when absent
func (m AnswerMap) Get(id string) string {
	return m[id]
}

// Filled reports whether the answer has non-whitespace content
func (m AnswerMap) Filled(id string) bool {
	return strings.TrimSpace(m[id]) != ""
}

// Clone returns an independent copy
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
