package services

import (
	"strconv"
	"strings"

	"uprise/meritmatch/internal/models"
)

const (
	notSpecified  = "Not specified"
	notProvided   = "Not provided"
	taskDelimiter = "\n---\n"
)

const MatchSystemMessage = "You are an expert internship recruiter. Compare a candidate profile with a job requirement and respond only with a JSON object."

const GradingSystemMessage = "You are an expert technical assessor grading internship challenge submissions. Grade objectively and respond only with a JSON object."

const jobMatchTemplate = `Evaluate how well this candidate fits the internship below.

JOB REQUIREMENT:
Title: {{job_title}}
Required Skills: {{job_skills}}
Experience Level: {{job_experience}}
Location Type: {{job_location}}
Duration: {{job_duration}}
Compensation: {{job_compensation}}
Description: {{job_description}}

CANDIDATE PROFILE:
Skills: {{candidate_skills}}
Experience Level: {{candidate_experience}}
Reputation Score (JSS): {{candidate_reputation}}/100
Bio: {{candidate_bio}}

Return your response in the following JSON format:
{
  "score": <integer 0-100>,
  "reasoning": "<2-3 sentences explaining the score>",
  "strengths": ["<strength>", ...],
  "gaps": ["<gap>", ...],
  "recommendations": ["<recommendation>", ...]
}`

const gradingTemplate = `Grade the following challenge submission.

CHALLENGE:
Title: {{challenge_title}}
Type: {{challenge_type}}
Description: {{challenge_description}}

SUBMITTED TASKS ({{task_count}}):
{{tasks}}

Score every task from 0 to 100 in the order given, then give an overall score.
List the concrete skills the candidate demonstrated and flag the submission if it
appears copied or machine generated.

Return your response in the following JSON format:
{
  "taskScores": [<integer 0-100>, ...],
  "overallScore": <integer 0-100>,
  "skills": ["<skill>", ...],
  "feedback": "<constructive feedback 3-5 sentences>",
  "plagiarismFlag": <true|false>
}`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildJobMatchPrompt creates the compatibility prompt for one candidate/job pair
func (pb *PromptBuilder) BuildJobMatchPrompt(candidate models.CandidateProfile, job models.JobRequirement) string {
	duration := notSpecified
	if job.DurationMonths != nil {
		duration = strconv.Itoa(*job.DurationMonths) + " months"
	}

	compensation := "Unpaid"
	if job.IsPaid {
		compensation = "Paid"
	}

	r := strings.NewReplacer(
		"{{job_title}}", orDefault(job.Title, notSpecified),
		"{{job_skills}}", orDefault(job.RequiredSkills, notSpecified),
		"{{job_experience}}", orDefault(string(job.ExperienceLevel), notSpecified),
		"{{job_location}}", orDefault(string(job.LocationType), notSpecified),
		"{{job_duration}}", duration,
		"{{job_compensation}}", compensation,
		"{{job_description}}", orDefault(job.Description, notProvided),
		"{{candidate_skills}}", orDefault(candidate.Skills, notSpecified),
		"{{candidate_experience}}", orDefault(string(candidate.ExperienceLevel), notSpecified),
		"{{candidate_reputation}}", strconv.Itoa(candidate.ReputationScore),
		"{{candidate_bio}}", orDefault(candidate.Bio, notProvided),
	)
	return r.Replace(jobMatchTemplate)
}

// BuildGradingPrompt creates the grading prompt with one block per task
func (pb *PromptBuilder) BuildGradingPrompt(req models.ChallengeGradingRequest) string {
	r := strings.NewReplacer(
		"{{challenge_title}}", orDefault(req.Challenge.Title, notSpecified),
		"{{challenge_type}}", orDefault(req.Challenge.Type, notSpecified),
		"{{challenge_description}}", orDefault(req.Challenge.Description, notProvided),
		"{{task_count}}", strconv.Itoa(len(req.Tasks)),
		"{{tasks}}", renderTaskBlocks(req.Tasks),
	)
	return r.Replace(gradingTemplate)
}

func renderTaskBlocks(tasks []models.TaskResponse) string {
	blocks := make([]string, 0, len(tasks))
	for i, task := range tasks {
		var b strings.Builder
		b.WriteString("Task ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(orDefault(task.TaskTitle, notSpecified))
		b.WriteString("\nDescription: ")
		b.WriteString(orDefault(task.TaskDescription, notProvided))
		b.WriteString("\nCandidate Response:\n")
		b.WriteString(task.Response)
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, taskDelimiter)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
