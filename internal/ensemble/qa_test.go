package ensemble

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexsight/clauselens/internal/registry"
)

type stubQA struct {
	name  string
	text  string
	score float64
	err   error
}

func (s *stubQA) Name() string { return s.name }

func (s *stubQA) Infer(context.Context, string, string) (string, float64, error) {
	if s.err != nil {
		return "", 0, s.err
	}
	return s.text, s.score, nil
}

func TestQAEnsemble_SelectsHighestWeightedScore(t *testing.T) {
	// legal-qa: 0.8 x 0.5 = 0.40; roberta: 0.95 x 0.3 = 0.285;
	// distilbert: 0.99 x 0.2 = 0.198. The legal model wins on weight.
	reg := registry.New().
		AddQA(&stubQA{name: "legal-qa", text: "Five (5) years from commencement.", score: 0.8}, 0.5).
		AddQA(&stubQA{name: "roberta-squad", text: "five years", score: 0.95}, 0.3).
		AddQA(&stubQA{name: "distilbert-qa", text: "5 years", score: 0.99}, 0.2)

	res, err := NewQA(reg).Answer(context.Background(), "how long is the term?", "The term is five years.")
	require.NoError(t, err)

	assert.Equal(t, "legal-qa", res.Selected.Model)
	assert.Equal(t, "Five (5) years from commencement.", res.Selected.Text)
	assert.Len(t, res.Contributions, 3)
}

func TestQAEnsemble_SelectedTextIsOneModelsRawOutput(t *testing.T) {
	reg := registry.New().
		AddQA(&stubQA{name: "a", text: "answer alpha", score: 0.6}, 0.5).
		AddQA(&stubQA{name: "b", text: "answer beta", score: 0.7}, 0.5)

	res, err := NewQA(reg).Answer(context.Background(), "q", "ctx")
	require.NoError(t, err)

	raw := map[string]bool{"answer alpha": true, "answer beta": true}
	assert.True(t, raw[res.Selected.Text], "fusion must never synthesize or blend text")
}

func TestQAEnsemble_FailedModelExcluded(t *testing.T) {
	reg := registry.New().
		AddQA(&stubQA{name: "legal-qa", err: eris.New("backend down")}, 0.5).
		AddQA(&stubQA{name: "roberta-squad", text: "thirty days", score: 0.7}, 0.3)

	res, err := NewQA(reg).Answer(context.Background(), "q", "ctx")
	require.NoError(t, err)

	assert.Equal(t, "roberta-squad", res.Selected.Model)
	assert.Len(t, res.Contributions, 1)
}

func TestQAEnsemble_AllModelsFail(t *testing.T) {
	reg := registry.New().
		AddQA(&stubQA{name: "a", err: eris.New("down")}, 0.5).
		AddQA(&stubQA{name: "b", err: eris.New("down")}, 0.5)

	res, err := NewQA(reg).Answer(context.Background(), "q", "ctx")
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestQAEnsemble_NoModelsConfigured(t *testing.T) {
	_, err := NewQA(registry.New()).Answer(context.Background(), "q", "ctx")
	assert.ErrorIs(t, err, ErrModelUnavailable)
}

func TestFuse_OrderIndependent(t *testing.T) {
	// fuse must pick the same winner regardless of gathering order.
	reg1 := registry.New().
		AddQA(&stubQA{name: "a", text: "A", score: 0.9}, 0.6).
		AddQA(&stubQA{name: "b", text: "B", score: 0.9}, 0.4)
	reg2 := registry.New().
		AddQA(&stubQA{name: "b", text: "B", score: 0.9}, 0.4).
		AddQA(&stubQA{name: "a", text: "A", score: 0.9}, 0.6)

	r1, err := NewQA(reg1).Answer(context.Background(), "q", "ctx")
	require.NoError(t, err)
	r2, err := NewQA(reg2).Answer(context.Background(), "q", "ctx")
	require.NoError(t, err)

	assert.Equal(t, r1.Selected.Model, r2.Selected.Model)
	assert.Equal(t, "a", r1.Selected.Model)
}
