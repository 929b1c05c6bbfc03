// Package scoring holds the deterministic fallback used when model evaluation fails.
package scoring

import "hirescore/pkg/models"

// FallbackScore is the neutral score given when no model evaluation is available
const FallbackScore = 6

const fallbackFeedback = "Automatic evaluation was not successful. This application requires manual review " +
	"by the hiring team to properly assess the candidate's qualifications and fit for the position."

// FallbackResult returns the fixed evaluation used when the model call fails.
// The cover letter score is set only when a cover letter was submitted.
// Every call returns fresh slices so callers may not alias each other.
func FallbackResult(hadCoverLetter bool) *models.EvaluationResult {
	result := &models.EvaluationResult{
		ResumeScore:  FallbackScore,
		OverallScore: FallbackScore,
		Strengths: []string{
			"Application received and processed",
			"Candidate shows interest in the position",
			"Basic qualifications appear to be met",
		},
		Improvements: []string{
			"Detailed evaluation unavailable due to technical issues",
			"Manual review recommended",
		},
		Tips: []string{
			"Consider scheduling an interview for detailed assessment",
			"Review application materials manually",
			"Follow up with candidate for additional information",
		},
		Feedback: fallbackFeedback,
	}

	if hadCoverLetter {
		score := FallbackScore
		result.CoverLetterScore = &score
	}

	return result
}
