package processors

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"hirescore/pkg/models"
)

const (
	MinScore = 0
	MaxScore = 10
)

var (
	leadingFence  = regexp.MustCompile("^```[A-Za-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?[ \t]*```$")
)

// StripCodeFences removes a leading ```lang line and a trailing ``` marker
func StripCodeFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = leadingFence.ReplaceAllString(text, "")
	text = trailingFence.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// ExtractJSONObject returns the first balanced top-level {...} span, ignoring
// braces inside JSON strings. An unbalanced object is returned from its '{' to
// the end of text so decoding reports the truncation. ok is false when there
// is no '{' at all.
func ExtractJSONObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return text[start:], true
}

// ClampScore rounds half away from zero and bounds the result to [0,10]
func ClampScore(v float64) int {
	r := math.Round(v)
	if r < MinScore {
		return MinScore
	}
	if r > MaxScore {
		return MaxScore
	}
	return int(r)
}

// ParseEvaluation turns raw model output into a validated, clamped result.
// Failures are *ParseError or *ShapeError, both wrapping ErrEvaluationFailure.
func ParseEvaluation(raw string) (*models.EvaluationResult, error) {
	cleaned := StripCodeFences(raw)
	if span, ok := ExtractJSONObject(cleaned); ok {
		cleaned = span
	}

	if strings.TrimSpace(cleaned) == "" {
		return nil, &ParseError{Raw: raw, Err: errors.New("empty model output")}
	}

	decoder := json.NewDecoder(bytes.NewReader([]byte(cleaned)))
	decoder.UseNumber()

	var obj map[string]interface{}
	if err := decoder.Decode(&obj); err != nil {
		return nil, &ParseError{Raw: raw, Err: err}
	}
	if obj == nil {
		return nil, &ParseError{Raw: raw, Err: errors.New("model output is not a JSON object")}
	}

	resume, err := requireNumber(obj, "resumeScore")
	if err != nil {
		return nil, err
	}
	overall, err := requireNumber(obj, "overallScore")
	if err != nil {
		return nil, err
	}
	strengths, err := requireStringList(obj, "strengths")
	if err != nil {
		return nil, err
	}
	improvements, err := requireStringList(obj, "improvements")
	if err != nil {
		return nil, err
	}
	tips, err := requireStringList(obj, "tips")
	if err != nil {
		return nil, err
	}

	feedbackRaw, ok := obj["feedback"]
	if !ok {
		return nil, &ShapeError{Field: "feedback", Reason: "is missing"}
	}
	feedback, ok := feedbackRaw.(string)
	if !ok {
		return nil, &ShapeError{Field: "feedback", Reason: "is not a string"}
	}

	result := &models.EvaluationResult{
		ResumeScore:  ClampScore(resume),
		OverallScore: ClampScore(overall),
		Strengths:    strengths,
		Improvements: improvements,
		Tips:         tips,
		Feedback:     strings.TrimSpace(feedback),
	}

	switch v := obj["coverLetterScore"].(type) {
	case nil:
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, &ShapeError{Field: "coverLetterScore", Reason: "is not a finite number"}
		}
		score := ClampScore(f)
		result.CoverLetterScore = &score
	default:
		return nil, &ShapeError{Field: "coverLetterScore", Reason: "is not a number or null"}
	}

	return result, nil
}

func requireNumber(obj map[string]interface{}, field string) (float64, error) {
	v, ok := obj[field]
	if !ok {
		return 0, &ShapeError{Field: field, Reason: "is missing"}
	}
	n, ok := v.(json.Number)
	if !ok {
		return 0, &ShapeError{Field: field, Reason: "is not a number"}
	}
	f, err := n.Float64()
	if err != nil {
		return 0, &ShapeError{Field: field, Reason: "is not a finite number"}
	}
	return f, nil
}

func requireStringList(obj map[string]interface{}, field string) ([]string, error) {
	v, ok := obj[field]
	if !ok {
		return nil, &ShapeError{Field: field, Reason: "is missing"}
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, &ShapeError{Field: field, Reason: "is not an array"}
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, &ShapeError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "is not a string"}
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}
