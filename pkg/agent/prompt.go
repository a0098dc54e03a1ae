package agent

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"text/template"
)

// Profile carries the business information collected by a presentation
// surface. The analyzer renders it into the natural-language prompt the
// remote agents expect.
type Profile struct {
	BusinessType        string   `json:"business_type"`
	// Employees is the form's size bucket (for example "11-50"), kept as
	// free text and rendered as-is.
	Employees           string   `json:"employees,omitempty"`
	PainPoints          []string `json:"pain_points,omitempty"`
	CustomPainPoint     string   `json:"custom_pain_point,omitempty"`
	TaskTime            string   `json:"task_time,omitempty"`
	LaborCosts          float64  `json:"labor_costs"`
	ToolsCosts          float64  `json:"tools_costs"`
	InfrastructureCosts float64  `json:"infrastructure_costs"`
	OtherCosts          float64  `json:"other_costs"`
	AIBudget            string   `json:"ai_budget,omitempty"`
	Timeline            string   `json:"timeline,omitempty"`
	TargetSavings       string   `json:"target_savings,omitempty"`
	ExpectedROI         string   `json:"expected_roi,omitempty"`
	Priorities          []string `json:"priorities,omitempty"`
	CustomPriority      string   `json:"custom_priority,omitempty"`
}

// TotalMonthlyCost sums the cost categories the form collects.
func (p *Profile) TotalMonthlyCost() float64 {
	return p.LaborCosts + p.ToolsCosts + p.InfrastructureCosts + p.OtherCosts
}

const defaultPromptTemplate = `Business Analysis Request:
Business Type: {{.BusinessType}}
Employee Count: {{.Employees}}
Pain Points: {{join .PainPoints ", "}}{{if .CustomPainPoint}}, {{.CustomPainPoint}}{{end}}
Time Spent on Identified Tasks: {{.TaskTime}}
Current Monthly Costs:
  - Labor: ${{printf "%.2f" .LaborCosts}}
  - Tools & Software: ${{printf "%.2f" .ToolsCosts}}
  - Infrastructure: ${{printf "%.2f" .InfrastructureCosts}}
  - Other: ${{printf "%.2f" .OtherCosts}}
  - Total: ${{printf "%.2f" .TotalMonthlyCost}}
AI Budget: {{.AIBudget}}
Implementation Timeline: {{.Timeline}}
Target Savings: {{.TargetSavings}}
Expected ROI: {{.ExpectedROI}}
Business Priorities: {{join .Priorities ", "}}{{if .CustomPriority}}, {{.CustomPriority}}{{end}}
`

var promptFuncs = template.FuncMap{
	"join": strings.Join,
}

// PromptRenderer renders a business profile into the prompt message. A
// template file may override the built-in wording.
type PromptRenderer struct {
	path string

	mu   sync.RWMutex
	tmpl *template.Template
	hash string
}

// NewPromptRenderer parses the template at path, or the built-in template
// when path is empty.
func NewPromptRenderer(path string) (*PromptRenderer, error) {
	r := &PromptRenderer{path: path}
	if err := r.reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Render executes the template with the provided profile.
func (r *PromptRenderer) Render(p *Profile) (string, error) {
	if p == nil {
		return "", fmt.Errorf("prompt: profile is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// Reload reparses the underlying template from disk. No-op for the
// built-in template.
func (r *PromptRenderer) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reload()
}

func (r *PromptRenderer) reload() error {
	text := defaultPromptTemplate
	name := "profile"
	if r.path != "" {
		data, err := os.ReadFile(r.path)
		if err != nil {
			return fmt.Errorf("read prompt template %q: %w", r.path, err)
		}
		text = string(data)
		name = filepath.Base(r.path)
	}

	tmpl, err := template.New(name).Funcs(promptFuncs).Parse(text)
	if err != nil {
		return fmt.Errorf("parse prompt template %q: %w", name, err)
	}
	r.tmpl = tmpl
	r.hash = digest([]byte(text))
	return nil
}

// Digest returns the sha256 hash of the template content.
func (r *PromptRenderer) Digest() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hash
}

func digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
