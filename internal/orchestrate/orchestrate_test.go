package orchestrate_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkframe/doccore/internal/apperr"
	"github.com/inkframe/doccore/internal/capability"
	"github.com/inkframe/doccore/internal/orchestrate"
	"github.com/inkframe/doccore/internal/promptlib"
)

var reducePrompt = promptlib.NewPromptManager().Get(promptlib.PromptTypeSummarizeReduce)

// phaseAwareAgent distinguishes the map phase from the reduce phase by
// comparing the system prompt it was called with, so it doesn't need to
// know in advance how many chunks the map phase will produce.
type phaseAwareAgent struct {
	mapResponse    string
	mapErr         error
	reduceResponse string
	reduceErr      error
}

func (a *phaseAwareAgent) Generate(ctx context.Context, systemPrompt string, messages []capability.Message, opts capability.GenerateOptions) (string, error) {
	if systemPrompt == reducePrompt {
		if a.reduceErr != nil {
			return "", a.reduceErr
		}
		return a.reduceResponse, nil
	}
	if a.mapErr != nil {
		return "", a.mapErr
	}
	return a.mapResponse, nil
}

// scriptedAgent returns canned responses keyed by call order, or an error
// for calls beyond what's scripted.
type scriptedAgent struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (a *scriptedAgent) Generate(ctx context.Context, systemPrompt string, messages []capability.Message, opts capability.GenerateOptions) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	i := a.calls
	a.calls++
	if i < len(a.errs) && a.errs[i] != nil {
		return "", a.errs[i]
	}
	if i < len(a.responses) {
		return a.responses[i], nil
	}
	return "", fmt.Errorf("scriptedAgent: no response scripted for call %d", i)
}

func TestCriticize_ParsesJSONItemsAcrossChunks(t *testing.T) {
	agent := &scriptedAgent{
		responses: []string{`[{"quote":"bad line","criticism":"too vague"}]`},
	}
	items, err := orchestrate.Criticize(context.Background(), "a short paragraph to critique.", agent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "bad line", items[0].Quote)
}

func TestCriticize_SkipsChunkOnGenerateFailure(t *testing.T) {
	agent := &scriptedAgent{errs: []error{errors.New("upstream down")}}
	items, err := orchestrate.Criticize(context.Background(), "some text here.", agent)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCriticize_SkipsChunkOnParseFailure(t *testing.T) {
	agent := &scriptedAgent{responses: []string{"not json at all"}}
	items, err := orchestrate.Criticize(context.Background(), "some more text.", agent)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSuggestChanges_StripsJSONFence(t *testing.T) {
	agent := &scriptedAgent{
		responses: []string{"```json\n[{\"quote\":\"x\",\"suggestion\":\"y\",\"reason\":\"z\"}]\n```"},
	}
	items, err := orchestrate.SuggestChanges(context.Background(), "a paragraph needing suggestions.", agent)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "y", items[0].Suggestion)
}

func TestSummarize_EmptyTextReturnsEmptyNoError(t *testing.T) {
	agent := &scriptedAgent{}
	summary, err := orchestrate.Summarize(context.Background(), "", agent)
	require.NoError(t, err)
	assert.Empty(t, summary)
}

func TestSummarize_SingleChunkCallsReduceDirectly(t *testing.T) {
	agent := &scriptedAgent{responses: []string{"the final summary"}}
	summary, err := orchestrate.Summarize(context.Background(), "a short document that fits in one chunk.", agent)
	require.NoError(t, err)
	assert.Equal(t, "the final summary", summary)
	assert.Equal(t, 1, agent.calls)
}

func TestSummarize_MultiChunkMapReduce(t *testing.T) {
	sentence := "This is one sentence among many repeated for length. "
	text := strings.Repeat(sentence, 600) // forces >1 chunk at the 10000-byte summarize window
	agent := &phaseAwareAgent{mapResponse: "a map-phase summary", reduceResponse: "final reduced summary"}
	summary, err := orchestrate.Summarize(context.Background(), text, agent)
	require.NoError(t, err)
	assert.Equal(t, "final reduced summary", summary)
}

func TestSummarize_AllMapCallsFailReturnsSummarizationError(t *testing.T) {
	sentence := "This is one sentence among many repeated for length. "
	text := strings.Repeat(sentence, 600)
	agent := &phaseAwareAgent{mapErr: errors.New("down")}
	_, err := orchestrate.Summarize(context.Background(), text, agent)
	require.Error(t, err)
	var sumErr *apperr.SummarizationError
	require.ErrorAs(t, err, &sumErr)
	assert.Equal(t, "map", sumErr.Phase)
}
