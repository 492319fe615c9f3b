// Package orchestrate runs an Agent over a document's chunks to produce
// criticism, suggestions, or a summary. Criticism and suggestion use a
// sliding chunking window and skip any chunk whose call or parse fails,
// returning whatever the other chunks produced. Summarize uses a
// map-reduce: one summary call per chunk, then a reduce call over the
// concatenated per-chunk summaries.
package orchestrate

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/chunking"
	"github.com/inkframe/doccore/internal/logger"
	"github.com/inkframe/doccore/internal/promptlib"
)

// Windows are the sliding-chunking-window options each orchestrator
// chunks with. Criticism/suggestion windows are small enough to keep an
// LLM call focused on one passage at a time; the summarize window is
// large, since map-reduce already handles documents too big for one call.
var (
	criticismWindow = chunking.Options{MaxChunkSize: 1500, Overlap: 200}
	summarizeWindow = chunking.Options{MaxChunkSize: 10000, Overlap: 400}
)

// CriticismItem is one flagged problem in the document.
type CriticismItem struct {
	Quote     string `json:"quote"`
	Criticism string `json:"criticism"`
}

// SuggestionItem is one proposed rewrite.
type SuggestionItem struct {
	Quote      string `json:"quote"`
	Suggestion string `json:"suggestion"`
	Reason     string `json:"reason"`
}

var prompts = promptlib.NewPromptManager()

// Criticize chunks text and asks agent to flag problems in each chunk,
// skipping any chunk whose generate call or JSON parse fails.
func Criticize(ctx context.Context, text string, agent capability.Agent) ([]CriticismItem, error) {
	chunks, err := chunking.ChunkText(text, criticismWindow)
	if err != nil {
		return nil, err
	}

	system := prompts.Get(promptlib.PromptTypeCriticism)
	var all []CriticismItem
	for _, c := range chunks {
		raw, err := agent.Generate(ctx, system, []capability.Message{{Role: "user", Content: c.Text}}, capability.GenerateOptions{})
		if err != nil {
			logger.Get().Warn("criticize: generate failed, skipping chunk", "chunk_index", c.Index, "error", err)
			continue
		}
		var items []CriticismItem
		if err := sonic.Unmarshal([]byte(stripJSONFence(raw)), &items); err != nil {
			logger.Get().Warn("criticize: parse failed, skipping chunk", "chunk_index", c.Index, "error", err)
			continue
		}
		all = append(all, items...)
	}
	if all == nil {
		all = []CriticismItem{}
	}
	return all, nil
}

// SuggestChanges chunks text and asks agent for rewrite suggestions on each
// chunk, skipping any chunk whose generate call or JSON parse fails.
func SuggestChanges(ctx context.Context, text string, agent capability.Agent) ([]SuggestionItem, error) {
	chunks, err := chunking.ChunkText(text, criticismWindow)
	if err != nil {
		return nil, err
	}

	system := prompts.Get(promptlib.PromptTypeSuggestion)
	var all []SuggestionItem
	for _, c := range chunks {
		raw, err := agent.Generate(ctx, system, []capability.Message{{Role: "user", Content: c.Text}}, capability.GenerateOptions{})
		if err != nil {
			logger.Get().Warn("suggest: generate failed, skipping chunk", "chunk_index", c.Index, "error", err)
			continue
		}
		var items []SuggestionItem
		if err := sonic.Unmarshal([]byte(stripJSONFence(raw)), &items); err != nil {
			logger.Get().Warn("suggest: parse failed, skipping chunk", "chunk_index", c.Index, "error", err)
			continue
		}
		all = append(all, items...)
	}
	if all == nil {
		all = []SuggestionItem{}
	}
	return all, nil
}

// Summarize chunks text with the wide summarize window and reduces it to
// one summary. Zero chunks (empty document) returns "" with no error; one
// chunk skips straight to a single reduce call; more than one chunk maps
// each chunk to its own summary in parallel, then reduces the
// concatenation. If every map call fails, Summarize returns a
// SummarizationError rather than reducing an empty context.
func Summarize(ctx context.Context, text string, agent capability.Agent) (string, error) {
	chunks, err := chunking.ChunkText(text, summarizeWindow)
	if err != nil {
		return "", err
	}

	switch len(chunks) {
	case 0:
		return "", nil
	case 1:
		return reduce(ctx, agent, chunks[0].Text)
	default:
		return mapReduce(ctx, agent, chunks)
	}
}

func mapReduce(ctx context.Context, agent capability.Agent, chunks []chunking.Chunk) (string, error) {
	system := prompts.Get(promptlib.PromptTypeSummarizeMap)
	summaries := make([]string, len(chunks))

	var wg sync.WaitGroup
	var mu sync.Mutex
	failures := 0
	for i, c := range chunks {
		idx, chunkText := i, c.Text
		wg.Go(func() {
			s, err := agent.Generate(ctx, system, []capability.Message{{Role: "user", Content: chunkText}}, capability.GenerateOptions{})
			if err != nil {
				logger.Get().Warn("summarize: map call failed, skipping chunk", "chunk_index", idx, "error", err)
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			summaries[idx] = strings.TrimSpace(s)
		})
	}
	wg.Wait()

	if failures == len(chunks) {
		return "", &apperr.SummarizationError{Phase: "map", Err: fmt.Errorf("all %d map calls failed", len(chunks))}
	}

	var combined strings.Builder
	for i, s := range summaries {
		if s == "" {
			continue
		}
		fmt.Fprintf(&combined, "--- Chunk %d Summary ---\n%s\n\n", i+1, s)
	}
	return reduce(ctx, agent, combined.String())
}

func reduce(ctx context.Context, agent capability.Agent, content string) (string, error) {
	system := prompts.Get(promptlib.PromptTypeSummarizeReduce)
	final, err := agent.Generate(ctx, system, []capability.Message{{Role: "user", Content: content}}, capability.GenerateOptions{})
	if err != nil {
		return "", &apperr.SummarizationError{Phase: "reduce", Err: err}
	}
	return strings.TrimSpace(stripJSONFence(final)), nil
}

func stripJSONFence(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
