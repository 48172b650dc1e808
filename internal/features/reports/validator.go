package reports

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
)

const maxRawTextLength = 2000

// ValidateCoordinates checks a WGS84 coordinate pair
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return errors.New("latitude must be between -90 and 90")
	}
	if lng < -180 || lng > 180 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateSubmission checks that a report has enough evidence to classify
func ValidateSubmission(text string, hasImage bool) error {
	text = strings.TrimSpace(text)
	if text == "" && !hasImage {
		return errors.New("a description or a photo is required")
	}
	if utf8.RuneCountInString(text) > maxRawTextLength {
		return errors.New("description cannot exceed 2000 characters")
	}
	return nil
}

// ValidateStatusUpdate checks an admin transition request
func ValidateStatusUpdate(req *UpdateStatusRequest) error {
	if _, err := taxonomy.ParseStatus(req.Status); err != nil {
		return errors.New("status must be one of: Submitted, In Progress, Resolved")
	}
	if utf8.RuneCountInString(strings.TrimSpace(req.Note)) > 500 {
		return errors.New("note cannot exceed 500 characters")
	}
	return nil
}
