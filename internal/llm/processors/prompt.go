package processors

import (
	"strings"

	"hirescore/pkg/models"
)

// BuildEvaluationPrompt renders the fixed evaluation instructions for one
// application. The output depends only on the request fields.
func BuildEvaluationPrompt(req models.EvaluationRequest) string {
	var b strings.Builder

	b.WriteString(`You are an AI hiring assistant designed to evaluate job applications fairly and objectively.

BASIC INSTRUCTIONS:
- Evaluate the candidate's resume and cover letter against the job requirements
- Rate the resume and cover letter independently out of 10 (10 is excellent, 5 is average, 1 is poor)
- Focus solely on professional qualifications, skills, experience and job fit
- Do not consider or mention name, age, gender, race, ethnicity, religion, nationality, disability, marital status, location or any other demographic information
- Provide constructive and actionable feedback

JOB INFORMATION:
Position: `)
	b.WriteString(strings.TrimSpace(req.JobTitle))
	b.WriteString("\nJob Description: ")
	b.WriteString(strings.TrimSpace(req.JobDescription))

	b.WriteString("\n\nCANDIDATE MATERIALS:\nResume/CV Content:\n")
	b.WriteString(strings.TrimSpace(req.ResumeText))
	b.WriteString("\n\n")

	if coverLetter := strings.TrimSpace(req.CoverLetter); coverLetter != "" {
		b.WriteString("Cover Letter:\n")
		b.WriteString(coverLetter)
	} else {
		b.WriteString("No cover letter provided.")
	}

	b.WriteString(`

EVALUATION CRITERIA:
1. Resume (0-10): relevant experience and skills, education and certifications,
   career progression and achievements, clarity and presentation, match with job requirements.
2. Cover Letter (0-10): if provided, understanding of the role and company, communication
   and writing quality, motivation, personalization and relevance, professional tone.
3. Overall Score (0-10): weighted assessment of job fit.

REQUIRED OUTPUT FORMAT:
Return exactly one JSON object with these fields:
{
  "resumeScore": <integer 0-10>,
  "coverLetterScore": <integer 0-10, or null if no cover letter>,
  "overallScore": <integer 0-10>,
  "strengths": ["strength1", "strength2", "strength3"],
  "improvements": ["improvement1", "improvement2"],
  "tips": ["tip1", "tip2", "tip3"],
  "feedback": "One paragraph explaining the evaluation and recommendations"
}

Provide only valid JSON, no additional text.`)

	return b.String()
}
