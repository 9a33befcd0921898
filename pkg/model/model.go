package model

import (
	"strings"
	"time"
)

// Category is the closed set of issue categories a diagnosis can produce.
type Category string

const (
	CategorySuspension   Category = "SUSPENSION"
	CategoryVerification Category = "VERIFICATION"
	CategoryRanking      Category = "RANKING"
	CategoryReviews      Category = "REVIEWS"
	CategoryOther        Category = "OTHER"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategorySuspension,
	CategoryVerification,
	CategoryRanking,
	CategoryReviews,
	CategoryOther,
}

// ParseCategory maps free text from the gateway onto the closed set.
// Unknown values fall back to OTHER.
func ParseCategory(s string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryOther
}

// BusinessContext is the persisted identity and diagnosis of the active session.
type BusinessContext struct {
	Name             string   `json:"name" yaml:"name"`
	Industry         string   `json:"industry" yaml:"industry"`
	IssueDescription string   `json:"issueDescription,omitempty" yaml:"issue_description,omitempty"`
	DetectedCategory Category `json:"detectedCategory,omitempty" yaml:"detected_category,omitempty"`
	Analysis         string   `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// HasIdentity reports whether a business name has been set.
func (c BusinessContext) HasIdentity() bool {
	return strings.TrimSpace(c.Name) != ""
}

// Diagnosed reports whether a diagnosis result is attached.
func (c BusinessContext) Diagnosed() bool {
	return c.DetectedCategory != "" || c.Analysis != ""
}

type StepStatus string

const (
	StatusPending   StepStatus = "pending"
	StatusCompleted StepStatus = "completed"
)

// FixStep is one remediation action of an action plan.
type FixStep struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Status      StepStatus `json:"status" yaml:"status"`
}

func (s FixStep) Completed() bool { return s.Status == StatusCompleted }

// ActionPlan is the ordered list of steps produced by a diagnosis.
type ActionPlan []FixStep

// Clone returns a copy that shares no backing array with p.
func (p ActionPlan) Clone() ActionPlan {
	if p == nil {
		return ActionPlan{}
	}
	out := make(ActionPlan, len(p))
	copy(out, p)
	return out
}

// Diagnosis is the raw gateway answer to a diagnosis request.
type Diagnosis struct {
	Category string          `json:"category"`
	Analysis string          `json:"analysis"`
	Steps    []DiagnosisStep `json:"steps"`
}

type DiagnosisStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// StepGuide is a deep-dive explanation of a single plan step.
type StepGuide struct {
	Title      string   `json:"title" yaml:"title"`
	BigPicture string   `json:"bigPicture" yaml:"big_picture"`
	Steps      []string `json:"steps" yaml:"steps"`
	Pitfalls   []string `json:"pitfalls" yaml:"pitfalls"`
	ProTips    []string `json:"proTips" yaml:"pro_tips"`
}

// NewProfileData is the draft of a profile that does not exist yet.
type NewProfileData struct {
	BusinessName  string `json:"businessName" yaml:"business_name" validate:"required"`
	Category      string `json:"category" yaml:"category"`
	IsServiceArea bool   `json:"isServiceArea" yaml:"is_service_area"`
	Address       string `json:"address" yaml:"address"`
	Phone         string `json:"phone" yaml:"phone"`
	Website       string `json:"website" yaml:"website"`
	Description   string `json:"description" yaml:"description"`
}

// LocationKind describes how the address field should be read.
func (d NewProfileData) LocationKind() string {
	if d.IsServiceArea {
		return "Service Area"
	}
	return "Storefront"
}

type VerificationAdvice struct {
	Method string   `json:"method" yaml:"method"`
	Tips   []string `json:"tips" yaml:"tips"`
}

// ValidationResult is the compliance audit of a NewProfileData draft.
type ValidationResult struct {
	IsValid              bool                `json:"isValid" yaml:"is_valid"`
	Issues               []string            `json:"issues" yaml:"issues"`
	Suggestions          []string            `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
	OptimizedDescription *string             `json:"optimizedDescription,omitempty" yaml:"optimized_description,omitempty"`
	VerificationAdvice   *VerificationAdvice `json:"verificationAdvice,omitempty" yaml:"verification_advice,omitempty"`
}

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id" yaml:"id"`
	Role      Role      `json:"role" yaml:"role"`
	Text      string    `json:"text" yaml:"text"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}
