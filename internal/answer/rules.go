// Package answer post-processes fused answers: archetype-specific pattern
// validation, context-grounded substitution, and term-overlap checking.
package answer

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// QuestionType is the archetype a question is classified into.
type QuestionType string

// Question archetypes with deterministic extraction patterns. Generic
// questions skip pattern validation entirely.
const (
	TypeDuration   QuestionType = "duration"
	TypeMoney      QuestionType = "money"
	TypeDate       QuestionType = "date"
	TypePercentage QuestionType = "percentage"
	TypeCitation   QuestionType = "citation"
	TypeGeneric    QuestionType = "generic"
)

// Rule binds a question archetype to its classifier keywords and the pattern
// a valid answer must match. Extraction reuses the same pattern against the
// context when the model's answer fails validation.
type Rule struct {
	Type     QuestionType `yaml:"type"`
	Keywords []string     `yaml:"keywords"`
	Pattern  string       `yaml:"pattern"`

	re *regexp.Regexp
}

// Regexp returns the compiled validation/extraction pattern.
func (r *Rule) Regexp() *regexp.Regexp {
	return r.re
}

// RuleTable is an ordered set of classification rules; the first rule whose
// keyword matches the question wins, so more specific archetypes belong
// earlier in the table.
type RuleTable struct {
	Rules []Rule `yaml:"rules"`
}

// DefaultRules returns the built-in archetype table.
func DefaultRules() *RuleTable {
	t := &RuleTable{Rules: []Rule{
		{
			Type:     TypeDuration,
			Keywords: []string{"how long", "duration", "period", "term of"},
			Pattern:  `\d+\s*(?:years?|months?|days?|weeks?)`,
		},
		{
			Type:     TypeMoney,
			Keywords: []string{"how much", "cost", "price", "amount", "rent", "fee", "payment"},
			Pattern:  `\$\d{1,3}(?:,\d{3})*(?:\.\d{2})?`,
		},
		{
			Type:     TypePercentage,
			Keywords: []string{"percent", "percentage", "rate of", "interest rate"},
			Pattern:  `\d+(?:\.\d+)?\s*(?:%|percent)`,
		},
		{
			Type:     TypeDate,
			Keywords: []string{"when", "what date", "deadline", "due date"},
			Pattern:  `\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}`,
		},
		{
			Type:     TypeCitation,
			Keywords: []string{"which section", "what section", "which article", "which clause", "cite"},
			Pattern:  `(?:Section|Article|Clause)\s+\d+(?:\.\d+)*|\d+\s+U\.S\.C\.\s+\d+`,
		},
	}}
	if err := t.compile(); err != nil {
		// Built-in patterns are static; a failure here is a programming error.
		panic(err)
	}
	return t
}

// LoadRules reads an archetype rule table from a YAML file, letting
// deployments tune classification without a rebuild.
func LoadRules(path string) (*RuleTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "answer: read rules %s", path)
	}
	var t RuleTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrap(err, "answer: unmarshal rules")
	}
	if err := t.compile(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *RuleTable) compile() error {
	for i := range t.Rules {
		re, err := regexp.Compile("(?i)" + t.Rules[i].Pattern)
		if err != nil {
			return eris.Wrapf(err, "answer: compile pattern for %s", t.Rules[i].Type)
		}
		t.Rules[i].re = re
	}
	return nil
}

// Classify returns the archetype for a question, or TypeGeneric with a nil
// rule when nothing matches.
func (t *RuleTable) Classify(question string) (QuestionType, *Rule) {
	lower := lowercase(question)
	for i := range t.Rules {
		for _, kw := range t.Rules[i].Keywords {
			if contains(lower, kw) {
				return t.Rules[i].Type, &t.Rules[i]
			}
		}
	}
	return TypeGeneric, nil
}
