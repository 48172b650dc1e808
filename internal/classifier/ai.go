package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Anitej05/Civic-Connect/internal/taxonomy"
	"github.com/Anitej05/Civic-Connect/pkg/errors"
)

// Completer submits a prompt to a text-generation backend and returns the
// raw completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AIClassifier asks an LLM to reconcile the reporter's text with the image
// caption into a single structured classification. Every failure mode
// (transport, timeout, unparseable output) surfaces as an error so the
// engine can fall back to the keyword strategy.
type AIClassifier struct {
	completer Completer
}

func NewAIClassifier(completer Completer) *AIClassifier {
	return &AIClassifier{completer: completer}
}

func (a *AIClassifier) Name() string {
	return "ai"
}

// aiPayload is the JSON object the model is instructed to emit.
type aiPayload struct {
	Title              string `json:"title"`
	Category           string `json:"category"`
	Urgency            string `json:"urgency"`
	AssignedDepartment string `json:"assigned_department"`
	Description        string `json:"description"`
}

func (a *AIClassifier) Classify(ctx context.Context, ev Evidence) (Result, error) {
	if a.completer == nil {
		return Result{}, fmt.Errorf("%w: no completion backend configured", errors.ErrAIService)
	}

	raw, err := a.completer.Complete(ctx, systemPrompt(), userPrompt(ev))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", errors.ErrAIService, err)
	}

	payload, err := parsePayload(raw)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Title:       payload.Title,
		Category:    taxonomy.Category(payload.Category),
		Urgency:     taxonomy.Urgency(payload.Urgency),
		Department:  taxonomy.Department(payload.AssignedDepartment),
		Description: payload.Description,
	}, nil
}

// parsePayload decodes the model output leniently: a direct parse first,
// then the first balanced JSON object if the model wrapped it in prose.
func parsePayload(raw string) (aiPayload, error) {
	var payload aiPayload
	if err := json.Unmarshal([]byte(raw), &payload); err == nil {
		return payload, nil
	}

	obj, ok := extractJSON(raw)
	if !ok {
		return aiPayload{}, fmt.Errorf("%w: no JSON object in model output", errors.ErrAIService)
	}
	if err := json.Unmarshal([]byte(obj), &payload); err != nil {
		return aiPayload{}, fmt.Errorf("%w: malformed JSON in model output: %v", errors.ErrAIService, err)
	}
	return payload, nil
}

// extractJSON returns the first balanced top-level {...} substring,
// respecting string literals and escapes.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

func systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("You are an expert civic issue classification system. Analyze the citizen's text and the image caption to identify a civic problem.\n")
	sb.WriteString("Your response MUST be a single valid JSON object and nothing else. No explanatory text, comments, or markdown formatting.\n\n")
	sb.WriteString("The JSON object must have this structure:\n{\n")
	sb.WriteString(fmt.Sprintf("  %q: \"A short, descriptive title for the issue, under %d characters.\",\n", "title", MaxTitleLength))
	sb.WriteString(fmt.Sprintf("  %q: \"One of: %s\",\n", "category", joinValues(taxonomy.Categories)))
	sb.WriteString(fmt.Sprintf("  %q: \"One of: %s\",\n", "urgency", joinValues(taxonomy.Urgencies)))
	sb.WriteString(fmt.Sprintf("  %q: \"One of: %s\",\n", "assigned_department", joinValues(taxonomy.Departments)))
	sb.WriteString(fmt.Sprintf("  %q: \"A one or two sentence summary of the issue.\"\n}\n", "description"))
	return sb.String()
}

func userPrompt(ev Evidence) string {
	var sb strings.Builder
	if ev.Text != "" {
		sb.WriteString("Citizen's report: ")
		sb.WriteString(ev.Text)
		sb.WriteString("\n")
	}
	if ev.Caption != "" {
		sb.WriteString("Attached photo shows: ")
		sb.WriteString(ev.Caption)
		sb.WriteString("\n")
	}
	if sb.Len() == 0 {
		sb.WriteString("No text was provided. Classify conservatively.")
	}
	return sb.String()
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
