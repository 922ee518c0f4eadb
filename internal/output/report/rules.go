package report

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	apperrors "github.com/lueurxax/social-insight/internal/core/errors"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

var errRuleIncomplete = errors.New("id and metric are required")

// Priority orders recommendations from most to least urgent.
type Priority string

// Priorities.
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

var priorityWeights = map[Priority]int{
	PriorityCritical: 1,
	PriorityHigh:     2,
	PriorityMedium:   3,
	PriorityLow:      4,
}

// Urgent reports whether the priority qualifies for the priority action list.
func (p Priority) Urgent() bool {
	return p == PriorityCritical || p == PriorityHigh
}

// Op compares an observed metric value with a rule threshold.
type Op string

// Comparison operators.
const (
	OpGreater      Op = "gt"
	OpGreaterEqual Op = "gte"
	OpLess         Op = "lt"
	OpLessEqual    Op = "lte"
	OpAny          Op = "any"
)

func (o Op) match(value, threshold float64) bool {
	switch o {
	case OpGreater:
		return value > threshold
	case OpGreaterEqual:
		return value >= threshold
	case OpLess:
		return value < threshold
	case OpLessEqual:
		return value <= threshold
	case OpAny:
		return true
	default:
		return false
	}
}

// Rule turns one metric condition into a recommendation.
type Rule struct {
	ID          string   `yaml:"id"`
	Category    string   `yaml:"category"`
	Metric      string   `yaml:"metric"`
	Op          Op       `yaml:"op"`
	Threshold   float64  `yaml:"threshold"`
	Group       string   `yaml:"group"`
	Priority    Priority `yaml:"priority"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Steps       []string `yaml:"steps"`
	Impact      string   `yaml:"impact"`
	Effort      string   `yaml:"effort"`

	title       *template.Template
	description *template.Template
	steps       []*template.Template
}

// RuleSet is an ordered, validated rule table.
type RuleSet struct {
	Rules []Rule `yaml:"rules"`
}

// Observation is one metric value offered to the rule table. Subject names the
// entity the value belongs to (a post type, a topic) and is empty for global metrics.
type Observation struct {
	Metric  string
	Subject string
	Value   float64
	Detail  string
}

// Recommendation is a fired rule rendered for its observation.
type Recommendation struct {
	RuleID      string   `json:"rule_id"`
	Category    string   `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"actionable_steps"`
	Impact      string   `json:"impact,omitempty"`
	Effort      string   `json:"effort,omitempty"`
}

var templateFuncs = template.FuncMap{
	"num": func(v float64) string {
		return strconv.FormatFloat(v, 'f', -1, 64)
	},
	"round": func(v float64) string {
		return strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	},
	"commas": func(v float64) string {
		return groupThousands(int64(math.Round(v)))
	},
}

// DefaultRules returns the built-in rule table.
func DefaultRules() (*RuleSet, error) {
	return ParseRules(defaultRulesYAML)
}

// LoadRules reads a rule table from path, or the built-in table when path is empty.
func LoadRules(path string) (*RuleSet, error) {
	if path == "" {
		return DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %s: %w", path, err)
	}

	return ParseRules(data)
}

// ParseRules decodes and validates a YAML rule table.
func ParseRules(data []byte) (*RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("%w: decoding rules: %w", apperrors.ErrInvalidInput, err)
	}

	seen := make(map[string]struct{}, len(rs.Rules))

	for i := range rs.Rules {
		r := &rs.Rules[i]

		if err := r.compile(); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %w", apperrors.ErrInvalidInput, i, r.ID, err)
		}

		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate rule id %q", apperrors.ErrInvalidInput, r.ID)
		}

		seen[r.ID] = struct{}{}
	}

	return &rs, nil
}

func (r *Rule) compile() error {
	if r.ID == "" || r.Metric == "" {
		return errRuleIncomplete
	}

	if _, ok := priorityWeights[r.Priority]; !ok {
		return fmt.Errorf("unknown priority %q", r.Priority)
	}

	switch r.Op {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual, OpAny:
	default:
		return fmt.Errorf("unknown op %q", r.Op)
	}

	var err error

	if r.title, err = parseTemplate(r.ID+".title", r.Title); err != nil {
		return err
	}

	if r.description, err = parseTemplate(r.ID+".description", r.Description); err != nil {
		return err
	}

	r.steps = make([]*template.Template, len(r.Steps))
	for i, step := range r.Steps {
		if r.steps[i], err = parseTemplate(fmt.Sprintf("%s.step%d", r.ID, i), step); err != nil {
			return err
		}
	}

	return nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	return tmpl, nil
}

// Evaluate fires every rule whose condition holds for a matching observation and
// returns the recommendations ordered by priority. Rule order is kept within a
// priority. Within a group only the first firing rule counts per subject.
func (rs *RuleSet) Evaluate(obs []Observation) ([]Recommendation, error) {
	out := make([]Recommendation, 0)
	fired := make(map[string]struct{})

	for i := range rs.Rules {
		r := &rs.Rules[i]

		for _, o := range obs {
			if o.Metric != r.Metric || !r.Op.match(o.Value, r.Threshold) {
				continue
			}

			if r.Group != "" {
				key := r.Group + "\x00" + o.Subject
				if _, ok := fired[key]; ok {
					continue
				}

				fired[key] = struct{}{}
			}

			rec, err := r.render(o)
			if err != nil {
				return nil, err
			}

			out = append(out, rec)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return priorityWeights[out[i].Priority] < priorityWeights[out[j].Priority]
	})

	return out, nil
}

func (r *Rule) render(o Observation) (Recommendation, error) {
	title, err := execute(r.title, o)
	if err != nil {
		return Recommendation{}, err
	}

	desc, err := execute(r.description, o)
	if err != nil {
		return Recommendation{}, err
	}

	steps := make([]string, len(r.steps))
	for i, tmpl := range r.steps {
		if steps[i], err = execute(tmpl, o); err != nil {
			return Recommendation{}, err
		}
	}

	return Recommendation{
		RuleID:      r.ID,
		Category:    r.Category,
		Priority:    r.Priority,
		Title:       title,
		Description: desc,
		Steps:       steps,
		Impact:      r.Impact,
		Effort:      r.Effort,
	}, nil
}

func execute(tmpl *template.Template, o Observation) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, o); err != nil {
		return "", fmt.Errorf("execute %s: %w", tmpl.Name(), err)
	}

	return buf.String(), nil
}

// PriorityActions returns the first n critical or high recommendations.
func PriorityActions(recs []Recommendation, n int) []Recommendation {
	out := make([]Recommendation, 0, n)

	for _, r := range recs {
		if len(out) == n {
			break
		}

		if r.Priority.Urgent() {
			out = append(out, r)
		}
	}

	return out
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder

	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	if neg {
		return "-" + b.String()
	}

	return b.String()
}
