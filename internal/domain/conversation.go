package domain

// Answer is what the pipeline returns to the caller: the synthesized text and
// a snapshot of the asset it was grounded in.
type Answer struct {
	Text  string `json:"text"`
	Asset *Asset `json:"asset,omitempty"`
}

// Turn is one entry in a caller-owned conversation. The core never stores
// turns; the type exists so front ends share a shape for session bookkeeping.
type Turn struct {
	Role     string `json:"role"` // "user" or "assistant"
	Content  string `json:"content"`
	Language string `json:"language,omitempty"`
	Asset    *Asset `json:"asset,omitempty"`
}
