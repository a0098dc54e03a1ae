// Code scaffolded by goctl. Safe to edit.
// goctl 1.9.2

package types

import "encoding/json"

// BusinessProfile mirrors the intake form fields.
type BusinessProfile struct {
	BusinessType        string   `json:"businessType"`
	Employees           string   `json:"employees,optional"`
	PainPoints          []string `json:"painPoints,optional"`
	CustomPainPoint     string   `json:"customPainPoint,optional"`
	TaskTime            string   `json:"taskTime,optional"`
	LaborCosts          float64  `json:"laborCosts,optional"`
	ToolsCosts          float64  `json:"toolsCosts,optional"`
	InfrastructureCosts float64  `json:"infrastructureCosts,optional"`
	OtherCosts          float64  `json:"otherCosts,optional"`
	AIBudget            string   `json:"aiBudget,optional"`
	Timeline            string   `json:"timeline,optional"`
	TargetSavings       string   `json:"targetSavings,optional"`
	ExpectedROI         string   `json:"expectedROI,optional"`
	Priorities          []string `json:"priorities,optional"`
	CustomPriority      string   `json:"customPriority,optional"`
}

type SubmitAnalysisReq struct {
	Surface   string           `json:"surface"`
	SessionId string           `json:"sessionId,optional"`
	Message   string           `json:"message,optional"`
	Profile   *BusinessProfile `json:"profile,optional"`
}

type AnalysisResp struct {
	Id        string          `json:"id"`
	Surface   string          `json:"surface"`
	SessionId string          `json:"sessionId,omitempty"`
	Result    json.RawMessage `json:"result"`
	CreatedAt int64           `json:"createdAt"`
}

type GetAnalysisReq struct {
	Id string `path:"id"`
}

type ListAnalysesReq struct {
	Surface string `form:"surface"`
	Limit   int    `form:"limit,optional,default=20"`
}

type ListAnalysesResp struct {
	Analyses []AnalysisResp `json:"analyses"`
}

type ListSurfacesResp struct {
	Surfaces []string `json:"surfaces"`
}

type AssessmentReq struct {
	Surface   string `json:"surface"`
	SessionId string `json:"sessionId,optional"`
	Message   string `json:"message"`
}

type AssessmentResp struct {
	SessionId string `json:"sessionId"`
	Reply     string `json:"reply"`
}
