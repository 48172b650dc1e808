// Package taxonomy defines the closed value sets a report is classified
// into and the legal lifecycle transitions between report statuses. Values
// outside these sets must never reach storage.
package taxonomy

import (
	"fmt"

	"github.com/Anitej05/Civic-Connect/pkg/errors"
)

type Category string

const (
	CategorySanitation   Category = "Sanitation"
	CategoryPothole      Category = "Pothole"
	CategoryStreetlight  Category = "Streetlight"
	CategoryWaterLeakage Category = "Water Leakage"
	CategoryOther        Category = "Other"
)

type Urgency string

const (
	UrgencyLow    Urgency = "Low"
	UrgencyMedium Urgency = "Medium"
	UrgencyHigh   Urgency = "High"
)

type Department string

const (
	DepartmentSanitation  Department = "Sanitation"
	DepartmentPublicWorks Department = "Public Works"
	DepartmentElectrical  Department = "Electrical"
	DepartmentWaterBoard  Department = "Water Board"
	DepartmentGeneral     Department = "General"
)

type Status string

const (
	StatusSubmitted  Status = "Submitted"
	StatusInProgress Status = "In Progress"
	StatusResolved   Status = "Resolved"
)

var (
	Categories  = []Category{CategorySanitation, CategoryPothole, CategoryStreetlight, CategoryWaterLeakage, CategoryOther}
	Urgencies   = []Urgency{UrgencyLow, UrgencyMedium, UrgencyHigh}
	Departments = []Department{DepartmentSanitation, DepartmentPublicWorks, DepartmentElectrical, DepartmentWaterBoard, DepartmentGeneral}
	Statuses    = []Status{StatusSubmitted, StatusInProgress, StatusResolved}
)

// statusRank orders the forward path Submitted -> In Progress -> Resolved.
var statusRank = map[Status]int{
	StatusSubmitted:  0,
	StatusInProgress: 1,
	StatusResolved:   2,
}

func ValidCategory(c Category) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

func ValidUrgency(u Urgency) bool {
	for _, v := range Urgencies {
		if v == u {
			return true
		}
	}
	return false
}

func ValidDepartment(d Department) bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

func ValidStatus(s Status) bool {
	_, ok := statusRank[s]
	return ok
}

// ParseStatus validates a raw string against the closed status set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !ValidStatus(s) {
		return "", fmt.Errorf("%w: status %q", errors.ErrInvalidTaxonomy, raw)
	}
	return s, nil
}

// CanTransition reports whether a report may move from one status to
// another. Re-applying the current status is a no-op success; moving
// backwards is rejected.
func CanTransition(from, to Status) error {
	fromRank, ok := statusRank[from]
	if !ok {
		return fmt.Errorf("%w: status %q", errors.ErrInvalidTaxonomy, string(from))
	}
	toRank, ok := statusRank[to]
	if !ok {
		return fmt.Errorf("%w: status %q", errors.ErrInvalidTaxonomy, string(to))
	}
	if toRank < fromRank {
		return fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, from, to)
	}
	return nil
}

// TransitionSources returns every status a report may currently hold for a
// transition into target to be legal. Used as the guard set in conditional
// store updates.
func TransitionSources(target Status) []Status {
	targetRank, ok := statusRank[target]
	if !ok {
		return nil
	}
	var sources []Status
	for _, s := range Statuses {
		if statusRank[s] <= targetRank {
			sources = append(sources, s)
		}
	}
	return sources
}
