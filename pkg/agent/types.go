package agent

// ConverseRequest describes a single turn sent to a hosted agent persona.
type ConverseRequest struct {
	// AgentID selects the remote persona (one per analysis surface).
	AgentID string `json:"agent_id"`
	// SessionID groups a logical conversation on the remote service. It is
	// an opaque grouping key; a fresh one is generated when empty.
	SessionID string `json:"session_id"`
	// Message is the natural-language prompt built from user input.
	Message string `json:"message"`
}

// Envelope is the JSON body returned by the inference endpoint. The
// Response value is the agent's raw, possibly Markdown-decorated answer.
type Envelope struct {
	Response string `json:"response"`
}

// inferencePayload is the wire body posted to the inference endpoint.
type inferencePayload struct {
	UserID    string `json:"user_id"`
	AgentID   string `json:"agent_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Canonical analysis surfaces. The configured surface map may define
// additional ones; these four ship with the product.
const (
	SurfaceOpportunity = "opportunity"
	SurfaceSWOT        = "swot"
	SurfaceCost        = "cost"
	SurfaceRoadmap     = "roadmap"
)
