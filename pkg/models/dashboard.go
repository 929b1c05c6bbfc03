package models

import "time"

// RecentApplicationsLimit caps the dashboard's recent application feed.
const RecentApplicationsLimit = 5

// Dashboard is the employer overview: headline counts, every owned job and
// the newest applications across them.
type Dashboard struct {
	Stats              DashboardStats      `json:"stats"`
	Jobs               []DashboardJob      `json:"jobs"`
	RecentApplications []RecentApplication `json:"recentApplications"`
}

type DashboardStats struct {
	ActiveJobs          int `json:"activeJobs"`
	TotalApplications   int `json:"totalApplications"`
	PendingApplications int `json:"pendingApplications"`
	// HiredThisMonth counts applications moved to HIRED since the first of the month (UTC)
	HiredThisMonth int `json:"hiredThisMonth"`
}

type DashboardJob struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Status            JobStatus `json:"status"`
	Type              JobType   `json:"type"`
	Location          string    `json:"location"`
	CreatedAt         time.Time `json:"createdAt"`
	ApplicationsCount int       `json:"applicationsCount"`
}

type RecentApplication struct {
	ID               string            `json:"id"`
	CandidateName    string            `json:"candidateName"`
	CandidateEmail   string            `json:"candidateEmail"`
	JobTitle         string            `json:"jobTitle"`
	Status           ApplicationStatus `json:"status"`
	CreatedAt        time.Time         `json:"createdAt"`
	OverallScore     *int              `json:"overallScore"`
	ResumeScore      *int              `json:"resumeScore"`
	CoverLetterScore *int              `json:"coverLetterScore"`
}
