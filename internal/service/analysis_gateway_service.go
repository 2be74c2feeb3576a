package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/rispar0529/De-Sign/internal/constant"
	"github.com/rispar0529/De-Sign/internal/pkg/logger"
	"github.com/rispar0529/De-Sign/internal/repository/contract"
	"github.com/rispar0529/De-Sign/internal/workflow"
	"github.com/rispar0529/De-Sign/pkg/embedding"
	"github.com/rispar0529/De-Sign/pkg/extractor"
	"github.com/rispar0529/De-Sign/pkg/llm"
)

const (
	// Embedding input is capped so oversized contracts still produce a
	// usable retrieval query.
	retrievalQueryLimit = 8000
	retrievalTopK       = 5
	retrievalThreshold  = 0.4
)

// analysisGateway backs the workflow engine with file storage, corpus
// retrieval and LLM reasoning. The corpus repository is optional; without it
// risk assessment runs on the prompt alone.
type analysisGateway struct {
	uploadsDir string
	llm        llm.LLMProvider
	embedder   embedding.EmbeddingProvider
	corpus     contract.ReferenceClauseRepository
	log        logger.ILogger
}

func NewAnalysisGateway(
	uploadsDir string,
	llmProvider llm.LLMProvider,
	embedder embedding.EmbeddingProvider,
	corpus contract.ReferenceClauseRepository,
	log logger.ILogger,
) workflow.AnalysisGateway {
	return &analysisGateway{
		uploadsDir: uploadsDir,
		llm:        llmProvider,
		embedder:   embedder,
		corpus:     corpus,
		log:        log,
	}
}

func (g *analysisGateway) Extract(ctx context.Context, filename, contentType string, data []byte) (workflow.DocumentRef, error) {
	if !extractor.Supported(contentType) {
		return workflow.DocumentRef{}, &workflow.ValidationError{
			Reason: fmt.Sprintf("unsupported content type %q", contentType),
		}
	}

	text, err := extractor.Extract(data, contentType)
	if err != nil {
		return workflow.DocumentRef{}, &workflow.AnalysisUnavailableError{Op: "extract", Err: err}
	}

	if err := os.MkdirAll(g.uploadsDir, 0o755); err != nil {
		return workflow.DocumentRef{}, &workflow.AnalysisUnavailableError{Op: "extract", Err: err}
	}

	// The stored name is unique per upload; the original filename only
	// survives inside the ref for user-facing output.
	stored := uuid.NewString() + "_" + filepath.Base(filename)
	path := filepath.Join(g.uploadsDir, stored)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return workflow.DocumentRef{}, &workflow.AnalysisUnavailableError{Op: "extract", Err: err}
	}
	// Sidecar caches the extracted text so later operations skip re-parsing.
	if err := os.WriteFile(path+".txt", []byte(text), 0o644); err != nil {
		return workflow.DocumentRef{}, &workflow.AnalysisUnavailableError{Op: "extract", Err: err}
	}

	g.log.Info("AnalysisGateway", "document ingested", map[string]interface{}{
		"filename":     filename,
		"content_type": contentType,
		"bytes":        len(data),
	})

	return workflow.DocumentRef{
		Path:        path,
		Filename:    filename,
		ContentType: contentType,
	}, nil
}

// text loads the cached extraction, falling back to re-parsing the stored
// file when the sidecar is gone.
func (g *analysisGateway) text(ref workflow.DocumentRef) (string, error) {
	if cached, err := os.ReadFile(ref.Path + ".txt"); err == nil && len(cached) > 0 {
		return string(cached), nil
	}

	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return "", fmt.Errorf("read stored document: %w", err)
	}
	return extractor.Extract(data, ref.ContentType)
}

func (g *analysisGateway) AssessRisk(ctx context.Context, ref workflow.DocumentRef) ([]workflow.ClauseFinding, error) {
	text, err := g.text(ref)
	if err != nil {
		return nil, &workflow.AnalysisUnavailableError{Op: "assess_risk", Err: err}
	}

	reference := g.retrieveReferenceMaterial(ctx, text)

	prompt := fmt.Sprintf(constant.RiskAnalysisPrompt,
		strings.Join(constant.StandardClauses, ", "), reference, text)

	raw, err := g.llm.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return nil, &workflow.AnalysisUnavailableError{Op: "assess_risk", Err: err}
	}

	findings, err := parseClauseFindings(raw)
	if err != nil {
		return nil, &workflow.AnalysisUnavailableError{Op: "assess_risk", Err: err}
	}
	return findings, nil
}

// retrieveReferenceMaterial embeds the contract and pulls the closest vetted
// clauses from the corpus. Retrieval failures degrade to an empty reference
// block rather than failing the whole assessment.
func (g *analysisGateway) retrieveReferenceMaterial(ctx context.Context, text string) string {
	if g.corpus == nil || g.embedder == nil {
		return "(no reference material available)"
	}

	query := text
	if len(query) > retrievalQueryLimit {
		query = query[:retrievalQueryLimit]
	}

	resp, err := g.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		g.log.Warn("AnalysisGateway", "reference retrieval skipped: embedding failed", map[string]interface{}{"error": err.Error()})
		return "(no reference material available)"
	}

	scored, err := g.corpus.SearchSimilarWithScore(ctx, resp.Embedding.Values, retrievalTopK, retrievalThreshold)
	if err != nil {
		g.log.Warn("AnalysisGateway", "reference retrieval skipped: corpus query failed", map[string]interface{}{"error": err.Error()})
		return "(no reference material available)"
	}
	if len(scored) == 0 {
		return "(no reference material available)"
	}

	var b strings.Builder
	for _, s := range scored {
		fmt.Fprintf(&b, "### %s (similarity %.2f)\n%s\n", s.Clause.ClauseName, s.Similarity, s.Clause.Body)
		if s.Clause.RiskNotes != "" {
			fmt.Fprintf(&b, "Risk notes: %s\n", s.Clause.RiskNotes)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (g *analysisGateway) Summarize(ctx context.Context, ref workflow.DocumentRef) (string, error) {
	text, err := g.text(ref)
	if err != nil {
		return "", &workflow.AnalysisUnavailableError{Op: "summarize", Err: err}
	}

	out, err := g.llm.Generate(ctx, fmt.Sprintf(constant.SummaryPrompt, text))
	if err != nil {
		return "", &workflow.AnalysisUnavailableError{Op: "summarize", Err: err}
	}
	return strings.TrimSpace(out), nil
}

func (g *analysisGateway) SuggestClause(ctx context.Context, ref workflow.DocumentRef, clauseName, riskyText string) (string, error) {
	var prompt string
	if riskyText == "" {
		prompt = fmt.Sprintf(constant.SuggestMissingClausePrompt, clauseName)
	} else {
		prompt = fmt.Sprintf(constant.SuggestRewritePrompt, clauseName, riskyText)
	}

	out, err := g.llm.Generate(ctx, prompt)
	if err != nil {
		return "", &workflow.AnalysisUnavailableError{Op: "suggest_clause", Err: err}
	}
	return strings.TrimSpace(out), nil
}

func (g *analysisGateway) Answer(ctx context.Context, ref workflow.DocumentRef, question string) (string, error) {
	text, err := g.text(ref)
	if err != nil {
		return "", &workflow.AnalysisUnavailableError{Op: "ask", Err: err}
	}

	out, err := g.llm.Generate(ctx, fmt.Sprintf(constant.QuestionPrompt, text, question))
	if err != nil {
		return "", &workflow.AnalysisUnavailableError{Op: "ask", Err: err}
	}
	return strings.TrimSpace(out), nil
}
