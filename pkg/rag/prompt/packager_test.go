package prompt

import (
	"testing"

	"studyroom-be/pkg/rag/budget"
	"studyroom-be/pkg/rag/intent"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackageDelimitsDocuments(t *testing.T) {
	bundle := budget.Bundle{
		Mode: intent.ModeSynthesis,
		Fragments: []budget.Fragment{
			{DocumentID: "doc-1", DocumentTitle: `Cell "Biology"`, ChunkIndex: 0, Text: "Cells are units."},
			{DocumentID: "doc-1", DocumentTitle: `Cell "Biology"`, ChunkIndex: 7, Text: "Mitosis ends.", Truncated: true},
			{DocumentID: "doc-2", ChunkIndex: 0, Text: "Atoms."},
		},
		Reason:          budget.ReasonChunkCap,
		EstimatedTokens: 42,
		DroppedChunks:   3,
	}

	text, manifest := NewPackager().Package(bundle)

	want := "<knowledge_base>\n" +
		"<source id=\"doc-1\" title=\"Cell &quot;Biology&quot;\">\n" +
		"[chunk 0]\nCells are units.\n" +
		"[chunk 7]\nMitosis ends.\n" +
		"</source>\n" +
		"<source id=\"doc-2\">\n" +
		"[chunk 0]\nAtoms.\n" +
		"</source>\n" +
		"</knowledge_base>"
	assert.Equal(t, want, text)

	assert.Equal(t, intent.ModeSynthesis, manifest.Mode)
	assert.Equal(t, []string{"doc-1", "doc-2"}, manifest.DocumentIDs)
	require.Len(t, manifest.Fragments, 3)
	assert.True(t, manifest.Fragments[1].Truncated)
	assert.Equal(t, budget.ReasonChunkCap, manifest.DegradationReason)
	assert.True(t, manifest.Degraded())
	assert.Equal(t, 42, manifest.EstimatedTokens)
	assert.Equal(t, 3, manifest.DroppedChunks)
	assert.False(t, manifest.NoContent)
	assert.False(t, manifest.GateDisabled)
}

func TestPackageFallbackSummaries(t *testing.T) {
	bundle := budget.Bundle{
		Mode: intent.ModeSynthesis,
		Fragments: []budget.Fragment{
			{DocumentID: "a", ChunkIndex: -1, Text: "Summary A", Summary: true},
			{DocumentID: "b", ChunkIndex: -1, Text: "Summary B", Summary: true},
		},
		UsedFallback: true,
		Reason:       budget.ReasonTokenBudget,
	}

	text, manifest := NewPackager().Package(bundle)

	assert.Contains(t, text, "<source id=\"a\">\n[summary]\nSummary A\n</source>")
	assert.NotContains(t, text, "[chunk")
	assert.True(t, manifest.UsedFallback)
	assert.Equal(t, budget.ReasonTokenBudget, manifest.DegradationReason)
	assert.True(t, manifest.Fragments[0].Summary)
}

func TestPackageEmptyBundle(t *testing.T) {
	text, manifest := NewPackager().Package(budget.Bundle{Mode: intent.ModeNormal})

	assert.Empty(t, text)
	assert.True(t, manifest.NoContent)
	assert.False(t, manifest.GateDisabled)
	assert.Equal(t, budget.ReasonNone, manifest.DegradationReason)
	assert.NotNil(t, manifest.DocumentIDs)
	assert.NotNil(t, manifest.Fragments)
}

func TestDisabledManifest(t *testing.T) {
	m := DisabledManifest()

	assert.True(t, m.GateDisabled)
	assert.False(t, m.NoContent)
	assert.False(t, m.Degraded())
	assert.Empty(t, m.DocumentIDs)
}

func TestRenderMatchesPackage(t *testing.T) {
	fragments := []budget.Fragment{{DocumentID: "x", ChunkIndex: 2, Text: "body"}}

	text, _ := NewPackager().Package(budget.Bundle{Fragments: fragments})

	assert.Equal(t, Render(fragments), text)
}

func TestManifestDetails(t *testing.T) {
	_, m := NewPackager().Package(budget.Bundle{
		Mode:      intent.ModeNormal,
		Fragments: []budget.Fragment{{DocumentID: "x", Text: "t"}},
	})

	d := m.Details()
	assert.Equal(t, "normal", d["mode"])
	assert.Equal(t, 1, d["fragment_count"])
	assert.Equal(t, "none", d["degradation_reason"])
}
