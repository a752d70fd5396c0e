package prompt

import (
	"fmt"
	"strings"

	"studyroom-be/pkg/rag/budget"
	"studyroom-be/pkg/rag/intent"
)

// FragmentRef identifies one admitted fragment in the manifest.
type FragmentRef struct {
	DocumentID string `json:"document_id"`
	ChunkIndex int    `json:"chunk_index"`
	Truncated  bool   `json:"truncated"`
	Summary    bool   `json:"summary"`
}

// Manifest describes what went into a context block and why.
// It is meant for logs and telemetry; callers pick user messaging from its flags.
type Manifest struct {
	Mode              intent.Mode   `json:"mode"`
	IntentRule        intent.Rule   `json:"intent_rule"`
	IntentPhrase      string        `json:"intent_phrase,omitempty"`
	DocumentIDs       []string      `json:"document_ids"`
	Fragments         []FragmentRef `json:"fragments"`
	UsedFallback      bool          `json:"used_fallback"`
	DegradationReason budget.Reason `json:"degradation_reason"`
	EstimatedTokens   int           `json:"estimated_tokens"`
	DroppedDocuments  int           `json:"dropped_documents"`
	DroppedChunks     int           `json:"dropped_chunks"`
	GateDisabled      bool          `json:"gate_disabled"`
	NoContent         bool          `json:"no_content"`
}

// Degraded reports whether any cap changed the selection.
func (m Manifest) Degraded() bool {
	return m.DegradationReason != "" && m.DegradationReason != budget.ReasonNone
}

// Details flattens the manifest for the structured logger.
func (m Manifest) Details() map[string]interface{} {
	return map[string]interface{}{
		"mode":               string(m.Mode),
		"intent_rule":        string(m.IntentRule),
		"document_ids":       m.DocumentIDs,
		"fragment_count":     len(m.Fragments),
		"used_fallback":      m.UsedFallback,
		"degradation_reason": string(m.DegradationReason),
		"estimated_tokens":   m.EstimatedTokens,
		"dropped_documents":  m.DroppedDocuments,
		"dropped_chunks":     m.DroppedChunks,
		"gate_disabled":      m.GateDisabled,
		"no_content":         m.NoContent,
	}
}

// DisabledManifest is returned when the knowledge base is switched off.
func DisabledManifest() Manifest {
	return Manifest{
		DocumentIDs:       []string{},
		Fragments:         []FragmentRef{},
		DegradationReason: budget.ReasonNone,
		GateDisabled:      true,
	}
}

// Packager serializes bundles into the context block handed to the model caller.
type Packager struct{}

func NewPackager() *Packager {
	return &Packager{}
}

// Package renders the bundle and describes it. An empty bundle yields an empty
// text and a manifest flagged NoContent.
func (p *Packager) Package(bundle budget.Bundle) (string, Manifest) {
	manifest := Manifest{
		Mode:              bundle.Mode,
		DocumentIDs:       bundle.DocumentIDs(),
		Fragments:         make([]FragmentRef, 0, len(bundle.Fragments)),
		UsedFallback:      bundle.UsedFallback,
		DegradationReason: bundle.Reason,
		EstimatedTokens:   bundle.EstimatedTokens,
		DroppedDocuments:  bundle.DroppedDocuments,
		DroppedChunks:     bundle.DroppedChunks,
		NoContent:         len(bundle.Fragments) == 0,
	}
	if manifest.DegradationReason == "" {
		manifest.DegradationReason = budget.ReasonNone
	}
	for _, f := range bundle.Fragments {
		manifest.Fragments = append(manifest.Fragments, FragmentRef{
			DocumentID: f.DocumentID,
			ChunkIndex: f.ChunkIndex,
			Truncated:  f.Truncated,
			Summary:    f.Summary,
		})
	}

	return Render(bundle.Fragments), manifest
}

var attrEscaper = strings.NewReplacer(`"`, "&quot;", "<", "&lt;", ">", "&gt;", "\n", " ")

// Render writes fragments as <source> blocks, one per run of fragments from the
// same document, so the model can attribute every passage.
func Render(fragments []budget.Fragment) string {
	if len(fragments) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("<knowledge_base>\n")

	for i, f := range fragments {
		opening := i == 0 || fragments[i-1].DocumentID != f.DocumentID
		if opening {
			writeSourceOpen(&sb, f)
		}

		if f.Summary {
			sb.WriteString("[summary]\n")
		} else {
			sb.WriteString(fmt.Sprintf("[chunk %d]\n", f.ChunkIndex))
		}
		sb.WriteString(f.Text)
		sb.WriteString("\n")

		closing := i == len(fragments)-1 || fragments[i+1].DocumentID != f.DocumentID
		if closing {
			sb.WriteString("</source>\n")
		}
	}

	sb.WriteString("</knowledge_base>")
	return sb.String()
}

func writeSourceOpen(sb *strings.Builder, f budget.Fragment) {
	sb.WriteString(`<source id="`)
	sb.WriteString(attrEscaper.Replace(f.DocumentID))
	sb.WriteString(`"`)
	if f.DocumentTitle != "" {
		sb.WriteString(` title="`)
		sb.WriteString(attrEscaper.Replace(f.DocumentTitle))
		sb.WriteString(`"`)
	}
	sb.WriteString(">\n")
}
