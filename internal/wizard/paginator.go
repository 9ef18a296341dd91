package wizard

import "gradpath/internal/model"

// Paginator splits visible questions into fixed-size pages and tracks
// the current page
type Paginator struct {
	size    int
	current int
}

// NewPaginator creates a paginator starting at page 0
func NewPaginator(pageSize, current int) *Paginator {
	if pageSize < 1 {
		pageSize = 1
	}
	if current < 0 {
		current = 0
	}
	return &Paginator{size: pageSize, current: current}
}

// PageSize returns the maximum questions per page
func (p *Paginator) PageSize() int { return p.size }

// Current returns the current page index
func (p *Paginator) Current() int { return p.current }

// PageCount is ceil(n / pageSize)
func (p *Paginator) PageCount(n int) int {
	return (n + p.size - 1) / p.size
}

// Clamp pulls the current index back onto the last valid page
func (p *Paginator) Clamp(n int) {
	last := p.PageCount(n) - 1
	if last < 0 {
		last = 0
	}
	if p.current > last {
		p.current = last
	}
}

// Page returns the questions on the current page
func (p *Paginator) Page(visible []model.Question) []model.Question {
	p.Clamp(len(visible))
	start := p.current * p.size
	if start >= len(visible) {
		return nil
	}
	end := start + p.size
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end]
}

// IsLast reports whether the current page is the final one
func (p *Paginator) IsLast(visible []model.Question) bool {
	p.Clamp(len(visible))
	return p.current >= p.PageCount(len(visible))-1
}

// Missing returns required questions on the current page without a
// non-blank answer
func (p *Paginator) Missing(visible []model.Question, answers model.AnswerMap) []string {
	var missing []string
	for _, q := range p.Page(visible) {
		if q.Required && !answers.Filled(q.ID) {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

// CanAdvance reports whether every required question on the current
// page is answered
func (p *Paginator) CanAdvance(visible []model.Question, answers model.AnswerMap) bool {
	return len(p.Missing(visible, answers)) == 0
}

// Advance moves forward one page. It does nothing on the last page or
// while the current page is incomplete.
func (p *Paginator) Advance(visible []model.Question, answers model.AnswerMap) bool {
	if p.IsLast(visible) || !p.CanAdvance(visible, answers) {
		return false
	}
	p.current++
	return true
}

// Retreat moves back one page. It does nothing on the first page.
func (p *Paginator) Retreat() bool {
	if p.current == 0 {
		return false
	}
	p.current--
	return true
}
