// Package promptlib manages the orchestrators' LLM prompt templates. It
// keeps the teacher's PromptManager/Prompt shape from internal/prompts
// (centralized, typed prompt lookup) but replaces the RAG-retrieval XML
// prompts with the JSON-output prompts the criticism/suggestion/summarize
// orchestrators need.
package promptlib

// PromptType names one of the orchestrators' prompt roles.
type PromptType string

const (
	PromptTypeCriticism       PromptType = "criticism"
	PromptTypeSuggestion      PromptType = "suggestion"
	PromptTypeSummarizeMap    PromptType = "summarize_map"
	PromptTypeSummarizeReduce PromptType = "summarize_reduce"
)

// Prompt is one reusable system prompt.
type Prompt struct {
	Type   PromptType
	Name   string
	System string
}

// PromptManager looks up the orchestrators' system prompts by type.
type PromptManager struct {
	prompts map[PromptType]*Prompt
}

// NewPromptManager builds a PromptManager preloaded with the core's four
// prompts.
func NewPromptManager() *PromptManager {
	pm := &PromptManager{prompts: make(map[PromptType]*Prompt)}
	pm.register(PromptTypeCriticism, "criticism", criticismSystemPrompt)
	pm.register(PromptTypeSuggestion, "suggestion", suggestionSystemPrompt)
	pm.register(PromptTypeSummarizeMap, "summarize_map", summarizeMapSystemPrompt)
	pm.register(PromptTypeSummarizeReduce, "summarize_reduce", summarizeReduceSystemPrompt)
	return pm
}

func (pm *PromptManager) register(t PromptType, name, system string) {
	pm.prompts[t] = &Prompt{Type: t, Name: name, System: system}
}

// Get returns the system prompt text for t, or "" if t is unknown.
func (pm *PromptManager) Get(t PromptType) string {
	p, ok := pm.prompts[t]
	if !ok {
		return ""
	}
	return p.System
}

const criticismSystemPrompt = `You are an exacting editorial reviewer. Read the passage the user gives you ` +
	`and identify concrete problems: unclear claims, unsupported assertions, inconsistent terminology, ` +
	`structural weaknesses, or factual red flags.

Respond with a JSON array only, no surrounding prose or code fences. Each element:
{"quote": "<exact substring copied from the passage>", "criticism": "<what's wrong and why it matters>"}

If the passage has no issues worth flagging, return an empty array: []`

const suggestionSystemPrompt = `You are a precise writing editor. Read the passage the user gives you and ` +
	`propose concrete rewrites that improve clarity, concision, or correctness.

Respond with a JSON array only, no surrounding prose or code fences. Each element:
{"quote": "<exact substring copied from the passage>", "suggestion": "<replacement text>", "reason": "<why this is better>"}

If nothing in the passage needs changing, return an empty array: []`

const summarizeMapSystemPrompt = `Summarize the following chunk of a larger document in 2-4 sentences. ` +
	`Preserve concrete facts, names, and numbers; omit throat-clearing and meta-commentary about the text itself.`

const summarizeReduceSystemPrompt = `You are given either a single passage or a set of per-chunk summaries ` +
	`from one document, each labeled "--- Chunk N Summary ---". Combine them into one coherent summary of the ` +
	`whole document, 3-6 sentences, preserving the concrete facts and removing redundancy between chunks.`
