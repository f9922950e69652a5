package controllers

import (
	"net/http"

	"github.com/autovista-ai/autovista-backend/api/responses"
	"github.com/autovista-ai/autovista-backend/api/validators"
	"github.com/autovista-ai/autovista-backend/internal/nlquery"
	"github.com/autovista-ai/autovista-backend/internal/rag"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

type nlQueryRequest struct {
	Question string `json:"question" validate:"required,min=3,max=500"`
}

// NaturalLanguageQuery translates a plain-English question into SQL, runs it,
// and explains the results.
func NaturalLanguageQuery(svc *nlquery.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload nlQueryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := svc.ProcessQuery(r.Context(), payload.Question)
		responses.WriteSuccess(w, result)
	}
}

type ragQueryRequest struct {
	Question     string `json:"question" validate:"required,min=3,max=500"`
	ContextLimit int    `json:"context_limit" validate:"omitempty,min=1,max=20"`
}

// RAGQuery answers a question grounded in previously generated insights.
func RAGQuery(svc *rag.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload ragQueryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		answer, err := svc.AnswerWithContext(r.Context(), payload.Question, payload.ContextLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, answer)
	}
}
