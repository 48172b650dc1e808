package classifier

import (
	"context"
	"strings"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
)

// keywordRule maps trigger terms to a classification. Rules are evaluated
// in order; the first rule with a matching term wins.
type keywordRule struct {
	terms      []string
	category   taxonomy.Category
	urgency    taxonomy.Urgency
	department taxonomy.Department
}

// KeywordClassifier is the deterministic fallback strategy. It is pure and
// total: no external dependency, never returns an error, and its output is
// always a member of the closed taxonomy.
type KeywordClassifier struct {
	rules []keywordRule
}

func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{
		rules: []keywordRule{
			{
				terms:      []string{"pothole", "hole", "sink"},
				category:   taxonomy.CategoryPothole,
				urgency:    taxonomy.UrgencyMedium,
				department: taxonomy.DepartmentPublicWorks,
			},
			{
				terms:      []string{"streetlight", "lamp", "light"},
				category:   taxonomy.CategoryStreetlight,
				urgency:    taxonomy.UrgencyMedium,
				department: taxonomy.DepartmentElectrical,
			},
			{
				terms:      []string{"water", "leak", "sewer", "flood"},
				category:   taxonomy.CategoryWaterLeakage,
				urgency:    taxonomy.UrgencyHigh,
				department: taxonomy.DepartmentWaterBoard,
			},
			{
				terms:      []string{"garbage", "trash", "bin", "sanitation"},
				category:   taxonomy.CategorySanitation,
				urgency:    taxonomy.UrgencyLow,
				department: taxonomy.DepartmentSanitation,
			},
		},
	}
}

func (k *KeywordClassifier) Name() string {
	return "keyword"
}

func (k *KeywordClassifier) Classify(_ context.Context, ev Evidence) (Result, error) {
	combined := strings.ToLower(ev.Combined())

	result := Result{
		Category:    taxonomy.CategoryOther,
		Urgency:     taxonomy.UrgencyLow,
		Department:  taxonomy.DepartmentGeneral,
		Title:       deriveTitle(ev),
		Description: Truncate(ev.Text, MaxDescriptionLength),
	}

	for _, rule := range k.rules {
		if containsAny(combined, rule.terms) {
			result.Category = rule.category
			result.Urgency = rule.urgency
			result.Department = rule.department
			break
		}
	}

	return result, nil
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

func deriveTitle(ev Evidence) string {
	title := strings.TrimSpace(ev.Text)
	if title == "" {
		title = strings.TrimSpace(ev.Caption)
	}
	if title == "" {
		return DefaultTitle
	}
	return strings.TrimSpace(Truncate(title, MaxTitleLength))
}
