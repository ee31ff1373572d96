package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/logging"
	"github.com/agbru/quadcalc/internal/quadrature"
)

// IntegrateResponse is the body of a successful /v1/integrate or
// /v1/converge request.
type IntegrateResponse struct {
	Function   string       `json:"function"`
	A          float64      `json:"a"`
	B          float64      `json:"b"`
	Strategy   string       `json:"strategy"`
	Workers    int          `json:"workers"`
	N          int          `json:"n"`
	Estimate   float64      `json:"estimate"`
	Exact      *float64     `json:"exact,omitempty"`
	AbsError   *float64     `json:"abs_error,omitempty"`
	Iterations int          `json:"iterations,omitempty"`
	Delta      *float64     `json:"delta,omitempty"`
	DurationMS float64      `json:"duration_ms"`
	Trace      []TracePoint `json:"trace,omitempty"`
}

// TracePoint is one refinement step.
type TracePoint struct {
	N        int      `json:"n"`
	Estimate float64  `json:"estimate"`
	Delta    *float64 `json:"delta,omitempty"`
}

// FunctionInfo describes a registered integrand.
type FunctionInfo struct {
	Name     string `json:"name"`
	Formula  string `json:"formula"`
	HasExact bool   `json:"has_exact"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// request is the parsed common part of the integration endpoints.
type request struct {
	entry    integrand.Entry
	interval quadrature.Interval
	strategy quadrature.Strategy
	opts     quadrature.Options
}

func (s *Server) handleIntegrate(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q := r.URL.Query()
	req, err := s.parseRequest(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	n, err := intParam(q, "n", 1000)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if n > s.security.MaxNValue {
		s.writeError(w, apperrors.NewConfigError("n must not exceed %d", s.security.MaxNValue))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.security.RequestTimeout)
	defer cancel()
	start := time.Now()
	est, err := req.strategy.Integrate(ctx, quadrature.Problem{F: req.entry.Function, Interval: req.interval, N: n}, req.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := req.response(est.Value, n, time.Since(start))
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleConverge(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	q := r.URL.Query()
	req, err := s.parseRequest(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	conv, err := s.parseConvergence(q)
	if err != nil {
		s.writeError(w, err)
		return
	}
	withTrace := q.Get("trace") == "true"

	var trace []TracePoint
	observer := quadrature.ObserverFunc(func(it quadrature.Iteration) {
		if !withTrace {
			return
		}
		p := TracePoint{N: it.N, Estimate: it.Estimate}
		if !math.IsNaN(it.Delta) {
			d := it.Delta
			p.Delta = &d
		}
		trace = append(trace, p)
	})

	ctx, cancel := context.WithTimeout(r.Context(), s.security.RequestTimeout)
	defer cancel()
	res, err := quadrature.Converge(ctx, req.strategy, req.entry.Function, req.interval, req.opts, conv, observer)
	s.metrics.Collector().ObserveConvergence(req.strategy.Name(), res, err)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp := req.response(res.Estimate, res.N, res.Duration)
	resp.Iterations = res.Iterations
	delta := res.Delta
	resp.Delta = &delta
	resp.Trace = trace
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFunctions(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	names := s.registry.List()
	infos := make([]FunctionInfo, 0, len(names))
	for _, name := range names {
		e, err := s.registry.Get(name)
		if err != nil {
			continue
		}
		infos = append(infos, FunctionInfo{Name: e.Name, Formula: e.Formula, HasExact: e.Primitive != nil})
	}
	s.writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.requireGET(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) requireGET(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:   "method_not_allowed",
		Message: "only GET is supported",
	})
	return false
}

func (s *Server) parseRequest(q url.Values) (request, error) {
	name := q.Get("fn")
	if name == "" {
		name = integrand.DefaultName
	}
	entry, err := s.registry.Get(name)
	if err != nil {
		return request{}, err
	}
	a, err := floatParam(q, "a", 0)
	if err != nil {
		return request{}, err
	}
	b, err := floatParam(q, "b", 1)
	if err != nil {
		return request{}, err
	}
	if !entry.Supports(a, b) {
		return request{}, apperrors.NewConfigError("function %q is not defined on [%g, %g]", name, a, b)
	}

	workers, err := intParam(q, "workers", s.workers)
	if err != nil {
		return request{}, err
	}
	if workers > s.security.MaxWorkers {
		return request{}, apperrors.NewConfigError("workers must not exceed %d", s.security.MaxWorkers)
	}
	policy, err := quadrature.ParsePolicy(q.Get("partition"))
	if err != nil {
		return request{}, err
	}

	strategyName := q.Get("strategy")
	if strategyName == "" {
		strategyName = quadrature.NameForkJoin
	}
	strategy, err := s.factory.Get(strategyName)
	if err != nil {
		return request{}, err
	}

	return request{
		entry:    entry,
		interval: quadrature.Interval{A: a, B: b},
		strategy: quadrature.Instrument(strategy, quadrature.WithRecorder(s.metrics.Collector())),
		opts: quadrature.Options{
			Workers: workers,
			Policy:  policy,
			Strict:  q.Get("strict") == "true",
		},
	}, nil
}

func (s *Server) parseConvergence(q url.Values) (quadrature.ConvergenceOptions, error) {
	conv := quadrature.DefaultConvergenceOptions()
	var err error
	if conv.Tolerance, err = floatParam(q, "tol", conv.Tolerance); err != nil {
		return conv, err
	}
	if conv.Increment, err = intParam(q, "increment", conv.Increment); err != nil {
		return conv, err
	}
	if conv.InitialN, err = intParam(q, "initial_n", conv.InitialN); err != nil {
		return conv, err
	}
	if conv.MaxIterations, err = intParam(q, "max_iter", s.security.MaxIterations); err != nil {
		return conv, err
	}
	if conv.InitialN > s.security.MaxNValue {
		return conv, apperrors.NewConfigError("initial_n must not exceed %d", s.security.MaxNValue)
	}
	if conv.MaxIterations == 0 || conv.MaxIterations > s.security.MaxIterations {
		conv.MaxIterations = s.security.MaxIterations
	}
	// The last iteration samples initial_n + increment*(max_iter-1); compare
	// by division so a huge increment cannot overflow.
	if steps := conv.MaxIterations - 1; conv.InitialN > 0 && conv.Increment > 0 && steps > 0 &&
		conv.Increment > (s.security.MaxNValue-conv.InitialN)/steps {
		return conv, apperrors.NewConfigError("initial_n + increment*(max_iter-1) must not exceed %d", s.security.MaxNValue)
	}
	return conv, nil
}

func (req request) response(estimate float64, n int, elapsed time.Duration) IntegrateResponse {
	resp := IntegrateResponse{
		Function:   req.entry.Name,
		A:          req.interval.A,
		B:          req.interval.B,
		Strategy:   req.strategy.Name(),
		Workers:    req.opts.Workers,
		N:          n,
		Estimate:   estimate,
		DurationMS: float64(elapsed.Microseconds()) / 1000,
	}
	if exact, ok := req.entry.Exact(req.interval.A, req.interval.B); ok {
		absErr := math.Abs(estimate - exact)
		resp.Exact = &exact
		resp.AbsError = &absErr
	}
	return resp
}

func floatParam(q url.Values, key string, def float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewConfigError("invalid %s parameter %q", key, raw)
	}
	return v, nil
}

func intParam(q url.Values, key string, def int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewConfigError("invalid %s parameter %q", key, raw)
	}
	return v, nil
}

// statusFor maps an integration error to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch apperrors.ExitCodeFor(err) {
	case apperrors.ExitErrorConfig:
		return http.StatusBadRequest, "invalid_request"
	case apperrors.ExitErrorTimeout:
		return http.StatusGatewayTimeout, "timeout"
	case apperrors.ExitErrorCanceled:
		return http.StatusServiceUnavailable, "canceled"
	case apperrors.ExitErrorNonConvergence:
		return http.StatusUnprocessableEntity, "non_convergence"
	case apperrors.ExitErrorWorker:
		return http.StatusUnprocessableEntity, "worker_failure"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", err)
	}
	s.writeJSON(w, status, ErrorResponse{Error: code, Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("encoding response", err, logging.Int("status", status))
	}
}
