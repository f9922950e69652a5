// Package rag answers questions grounded in previously generated insights.
package rag

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/insights"
	"github.com/autovista-ai/autovista-backend/internal/prompts"
	"github.com/autovista-ai/autovista-backend/pkg/enums"
	pkgerrors "github.com/autovista-ai/autovista-backend/pkg/errors"
	"github.com/autovista-ai/autovista-backend/pkg/llm"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// ScoredInsight is one retrieved insight with its relevance score.
type ScoredInsight struct {
	ID          int64             `json:"id"`
	Text        string            `json:"text"`
	Type        enums.InsightType `json:"type"`
	GeneratedAt time.Time         `json:"generated_at"`
	Score       int               `json:"score"`
}

// Answer is the grounded response to one question.
type Answer struct {
	Question     string          `json:"question"`
	Text         string          `json:"answer"`
	ContextUsed  []ScoredInsight `json:"context_used"`
	ContextCount int             `json:"context_count"`
}

// Retriever finds insights relevant to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, limit int, insightType enums.InsightType) ([]ScoredInsight, error)
}

// KeywordRetriever scores the most recent insights by keyword overlap with
// the query. A vector index can replace it behind the same interface.
type KeywordRetriever struct {
	repo *insights.Repository
	// searchWindow bounds how many recent insights are scanned.
	searchWindow int
}

func NewKeywordRetriever(repo *insights.Repository) *KeywordRetriever {
	return &KeywordRetriever{repo: repo, searchWindow: 100}
}

// Retrieve implements Retriever. Insights with no keyword overlap are
// dropped; ties keep the more recent insight first.
func (r *KeywordRetriever) Retrieve(ctx context.Context, query string, limit int, insightType enums.InsightType) ([]ScoredInsight, error) {
	if limit <= 0 {
		limit = 5
	}
	keywords := strings.Fields(strings.ToLower(query))

	var (
		records []scanRecord
		err     error
	)
	if insightType != "" {
		typed, listErr := r.repo.ListByType(ctx, insightType, r.searchWindow)
		err = listErr
		for _, rec := range typed {
			records = append(records, scanRecord{rec.ID, rec.InsightText, rec.InsightType, rec.GeneratedAt})
		}
	} else {
		recent, listErr := r.repo.Recent(ctx, r.searchWindow)
		err = listErr
		for _, rec := range recent {
			records = append(records, scanRecord{rec.ID, rec.InsightText, rec.InsightType, rec.GeneratedAt})
		}
	}
	if err != nil {
		return nil, err
	}

	scored := make([]ScoredInsight, 0)
	for _, rec := range records {
		textLower := strings.ToLower(rec.text)
		score := 0
		for _, keyword := range keywords {
			if strings.Contains(textLower, keyword) {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, ScoredInsight{
				ID:          rec.id,
				Text:        rec.text,
				Type:        rec.insightType,
				GeneratedAt: rec.generatedAt,
				Score:       score,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored, nil
}

type scanRecord struct {
	id          int64
	text        string
	insightType enums.InsightType
	generatedAt time.Time
}

// Service answers questions with retrieved context.
type Service struct {
	llm       llm.Client
	retriever Retriever
	logg      *logger.Logger
}

func NewService(llmClient llm.Client, retriever Retriever, logg *logger.Logger) *Service {
	return &Service{llm: llmClient, retriever: retriever, logg: logg}
}

// AnswerWithContext retrieves up to contextLimit relevant insights and asks
// the model to answer with them. Zero limit defaults to three.
func (s *Service) AnswerWithContext(ctx context.Context, question string, contextLimit int) (Answer, error) {
	if contextLimit <= 0 {
		contextLimit = 3
	}
	similar, err := s.retriever.Retrieve(ctx, question, contextLimit, "")
	if err != nil {
		return Answer{}, err
	}

	var contextText string
	if len(similar) > 0 {
		lines := make([]string, 0, len(similar))
		for _, ins := range similar {
			lines = append(lines, "- "+ins.Text)
		}
		contextText = strings.Join(lines, "\n\n")
	}

	text, err := llm.StructuredCompletion(ctx, s.llm, prompts.RAGAnswerSystem,
		prompts.RAGAnswer(question, contextText),
		llm.Options{Temperature: llm.Temp(0.7), Operation: "rag_answer"})
	if err != nil {
		return Answer{}, pkgerrors.Wrap(pkgerrors.CodeLLM, err, "context answer generation failed")
	}

	s.logg.Info(s.logg.WithField(ctx, "context_items", len(similar)), "generated context-grounded answer")
	if similar == nil {
		similar = []ScoredInsight{}
	}
	return Answer{
		Question:     question,
		Text:         text,
		ContextUsed:  similar,
		ContextCount: len(similar),
	}, nil
}
