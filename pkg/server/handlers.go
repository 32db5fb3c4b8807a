package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Veraticus/dateformat/pkg/report"
	"github.com/Veraticus/dateformat/pkg/resolver"
	"github.com/Veraticus/dateformat/pkg/types"
)

const maxRuleBody = 64 * 1024

// Error Helpers

func (a *App) serverError(w http.ResponseWriter, r *http.Request, err error) {
	a.Log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Internal server error")
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (a *App) clientError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	if err != nil {
		a.Log.Debug().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Client error")
	}
	http.Error(w, message, status)
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// statusFor maps a resolution error to a response status
func statusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, resolver.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, resolver.ErrFormatUnresolved),
		errors.Is(err, resolver.ErrMalformedValue),
		errors.Is(err, resolver.ErrInvalidTemplate):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok\n"))
}

// handleResolve answers GET /api/v1/resolve?value=...&explain=true
func (a *App) handleResolve(w http.ResponseWriter, r *http.Request) {
	value := r.URL.Query().Get("value")
	if value == "" {
		a.clientError(w, r, http.StatusBadRequest, "missing value parameter", nil)
		return
	}

	explain := false
	if raw := r.URL.Query().Get("explain"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			a.clientError(w, r, http.StatusBadRequest, "invalid explain parameter", err)
			return
		}
		explain = v
	}

	result := report.Result{Input: value}
	if explain {
		matches, err := a.Resolver.Explain(value)
		if err != nil {
			a.Log.Warn().Err(err).Str("input", value).Msg("Some rules could not be evaluated")
		}
		result.Matches = matches
	}

	result.Format, result.Instant, result.Err = a.Resolver.Resolve(value)

	status := statusFor(result.Err)
	if status == http.StatusInternalServerError {
		a.serverError(w, r, result.Err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := report.NewJSONReporter(w).Report(result); err != nil {
		a.Log.Error().Err(err).Msg("Failed to write response")
	}
}

type ruleResponse struct {
	Index int `json:"index"`
	types.Rule
}

func (a *App) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules := a.Resolver.Rules()
	out := make([]ruleResponse, len(rules))
	for i, rule := range rules {
		out[i] = ruleResponse{Index: i, Rule: rule}
	}
	if err := writeJSON(w, http.StatusOK, out); err != nil {
		a.Log.Error().Err(err).Msg("Failed to write response")
	}
}

// handleAddRule appends a rule with the lowest priority. The expression is
// not checked here; a broken one surfaces when a scan reaches it.
func (a *App) handleAddRule(w http.ResponseWriter, r *http.Request) {
	var rule types.Rule
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRuleBody))
	if err := dec.Decode(&rule); err != nil {
		a.clientError(w, r, http.StatusBadRequest, "invalid rule body", err)
		return
	}
	if rule.Regex == "" || rule.Format == "" {
		a.clientError(w, r, http.StatusBadRequest, "regex and format are required", nil)
		return
	}

	index := a.Resolver.Append(rule)

	a.Log.Info().Int("rule", index).Str("regex", rule.Regex).Str("format", rule.Format).Msg("Rule added")
	if err := writeJSON(w, http.StatusCreated, ruleResponse{Index: index, Rule: rule}); err != nil {
		a.Log.Error().Err(err).Msg("Failed to write response")
	}
}
