package model

// Scholarship is a searchable funding record
type Scholarship struct {
	ID          string `json:"id" bson:"_id" yaml:"id"`
	Name        string `json:"name" bson:"name" yaml:"name"`
	Provider    string `json:"provider" bson:"provider" yaml:"provider"`
	Amount      int    `json:"amount" bson:"amount" yaml:"amount"`
	Deadline    string `json:"deadline" bson:"deadline" yaml:"deadline"`
	University  string `json:"university,omitempty" bson:"university,omitempty" yaml:"university,omitempty"`
	Country     string `json:"country,omitempty" bson:"country,omitempty" yaml:"country,omitempty"`
	Program     string `json:"program,omitempty" bson:"program,omitempty" yaml:"program,omitempty"`
	DegreeLevel string `json:"degreeLevel,omitempty" bson:"degreeLevel,omitempty" yaml:"degreeLevel,omitempty"`
	Description string `json:"description" bson:"description" yaml:"description"`
	URL         string `json:"url" bson:"url" yaml:"url"`
}

// ScholarshipCriteria filters scholarships. Empty fields are ignored.
type ScholarshipCriteria struct {
	University  string `json:"university,omitempty"`
	Program     string `json:"program,omitempty"`
	Country     string `json:"country,omitempty"`
	DegreeLevel string `json:"degreeLevel,omitempty"`
	MinAmount   int    `json:"minAmount,omitempty"`
}

// UniversityCosts is the annual cost breakdown for one university
type UniversityCosts struct {
	CatalogName   string `json:"-" bson:"catalogName" yaml:"catalogName"` // full name used for matching
	Name          string `json:"name" bson:"name" yaml:"name"`
	Tuition       int    `json:"tuition" bson:"tuition" yaml:"tuition"`
	Accommodation int    `json:"accommodation" bson:"accommodation" yaml:"accommodation"`
	Living        int    `json:"living" bson:"living" yaml:"living"`
	Other         int    `json:"other" bson:"other" yaml:"other"`
	Total         int    `json:"total" bson:"total" yaml:"total"`
	Currency      string `json:"currency" bson:"currency" yaml:"currency"`
	Timeframe     string `json:"timeframe" bson:"timeframe" yaml:"timeframe"`
	Order         int    `json:"-" bson:"order" yaml:"-"`
}

// FeeComparisonRequest asks for cost records of up to five universities
type FeeComparisonRequest struct {
	Universities []string `json:"universities"`
	Program      string   `json:"program"`
	DegreeLevel  string   `json:"degreeLevel"`
	CompareBy    string   `json:"compareBy,omitempty"` // total, tuition, living
}

// ChartPoint is one bar of a fee comparison chart
type ChartPoint struct {
	Name    string `json:"name"`
	Value   int    `json:"value"`
	Display string `json:"display"`
}

// FeeComparison is the result of a fee comparison
type FeeComparison struct {
	Program      string            `json:"program"`
	DegreeLevel  string            `json:"degreeLevel"`
	CompareBy    string            `json:"compareBy"`
	Universities []UniversityCosts `json:"universities"`
	Chart        []ChartPoint      `json:"chart"`
}
