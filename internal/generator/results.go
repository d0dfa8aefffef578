package generator

import (
	"encoding/json"
	"strings"
)

type Feedback struct {
	OverallScore int      `json:"overall_score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

type ResumeReview struct {
	OverallScore int      `json:"overall_score"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Summary      string   `json:"summary"`
}

type CoverLetter struct {
	Letter string   `json:"letter"`
	Tips   []string `json:"tips"`
}

// ParseFeedback decodes the model output, falling back to a fixed
// result when the output is empty or not the expected JSON.
func ParseFeedback(raw string) Feedback {
	var out Feedback
	if !decode(raw, &out) || out.Summary == "" {
		return Feedback{
			OverallScore: 50,
			Improvements: []string{"We could not analyze this answer automatically. Review it yourself against the question."},
			Summary:      "Automatic feedback was unavailable for this answer.",
		}
	}
	return out
}

func ParseResumeReview(raw string) ResumeReview {
	var out ResumeReview
	if !decode(raw, &out) || out.Summary == "" {
		return ResumeReview{
			OverallScore: 50,
			Improvements: []string{"We could not review this resume automatically. Check formatting and try again."},
			Summary:      "Automatic resume review was unavailable.",
		}
	}
	return out
}

func ParseCoverLetter(raw string) CoverLetter {
	var out CoverLetter
	if !decode(raw, &out) || out.Letter == "" {
		return CoverLetter{
			Letter: "We could not generate a cover letter automatically. Start from your resume summary and the job description, and try again.",
		}
	}
	return out
}

func decode(raw string, v any) bool {
	cleaned := CleanJSON(raw)
	if strings.TrimSpace(cleaned) == "" {
		return false
	}
	return json.Unmarshal([]byte(cleaned), v) == nil
}
