package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/helexia/contractrisk/core"
	"github.com/helexia/contractrisk/core/clause"
	"github.com/helexia/contractrisk/core/exposure"
	"github.com/helexia/contractrisk/core/penalty"
	"github.com/helexia/contractrisk/internal/contract"
	"github.com/helexia/contractrisk/schema"
	"github.com/labstack/echo/v4"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

// exposureRequest is the body of POST /api/exposure.
type exposureRequest struct {
	Project string            `json:"project"`
	Risks   []schema.RiskItem `json:"risks"`
}

// registerResponse is a risk register with rank and label on every risk.
type registerResponse struct {
	Project string                `json:"project,omitempty"`
	Risks   []schema.EnrichedRisk `json:"risks"`
	Totals  schema.Exposure       `json:"totals"`
}

// projectResponse is one project with its KPIs and risk register.
type projectResponse struct {
	Project  schema.Project        `json:"project"`
	Summary  schema.ProjectSummary `json:"summary"`
	Register registerResponse      `json:"register"`
}

// calculationResponse is the outcome of POST /api/projects/:id/calculation.
type calculationResponse struct {
	Report  schema.PenaltyReport  `json:"report"`
	Summary schema.ProjectSummary `json:"summary"`
}

func newRegisterResponse(register schema.RiskRegister) registerResponse {
	return registerResponse{
		Project: register.Project,
		Risks:   schema.EnrichRisks(register.Risks),
		Totals:  register.Totals,
	}
}

// respondError maps err to a status code and writes it as JSON.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	msg := err.Error()

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		status = httpErr.Code
		msg = fmt.Sprint(httpErr.Message)
	case errors.Is(err, contract.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, contract.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrNoStore):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		contract.Logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return c.JSON(status, errorResponse{Error: msg})
}

func (s *Server) store() (contract.ProjectStore, error) {
	if s.mgr == nil {
		return nil, core.ErrNoStore
	}
	store := s.mgr.GetProjectStore()
	if store == nil {
		return nil, core.ErrNoStore
	}
	return store, nil
}

func (s *Server) months(c echo.Context) (int, error) {
	raw := c.QueryParam("months")
	if raw == "" {
		if s.cfg != nil && s.cfg.UpcomingWindowMonths > 0 {
			return s.cfg.UpcomingWindowMonths, nil
		}
		return contract.DefaultUpcomingWindowMonths, nil
	}
	months, err := strconv.Atoi(raw)
	if err != nil || months < 0 {
		return 0, fmt.Errorf("%w: months must be a non-negative integer", contract.ErrInvalidInput)
	}
	return months, nil
}

func (s *Server) health(c echo.Context) error {
	body := map[string]any{"status": "ok"}
	if store, err := s.store(); err == nil {
		status, err := store.GetStatus(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}
		body["store"] = status.Backend
		body["projects"] = status.TotalProjects
	}
	return c.JSON(http.StatusOK, body)
}

func (s *Server) computePenalty(c echo.Context) error {
	inputs := schema.DefaultInputs()
	if err := c.Bind(&inputs); err != nil {
		return respondError(c, err)
	}
	if err := contract.ValidateInputs(inputs); err != nil {
		return respondError(c, err)
	}

	report := penalty.Report(contract.NormalizeInputs(inputs))
	report.Clause = clause.Default(report.Inputs, report.Results)
	if c.QueryParam("ai") == "true" && s.gen != nil {
		text, err := clause.Generate(c.Request().Context(), s.gen, report.Inputs, report.Results)
		if err != nil {
			c.Response().Header().Set("X-Clause-Fallback", "true")
		}
		report.Clause = text
	}
	return c.JSON(http.StatusOK, report)
}

func (s *Server) aggregateExposure(c echo.Context) error {
	var req exposureRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, err)
	}
	for _, r := range req.Risks {
		if err := contract.ValidateRisk(r); err != nil {
			return respondError(c, err)
		}
	}
	return c.JSON(http.StatusOK, newRegisterResponse(exposure.Annotate(req.Project, req.Risks)))
}

func (s *Server) listProjects(c echo.Context) error {
	kpis, err := s.loadPortfolio(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, kpis.Projects)
}

func (s *Server) portfolio(c echo.Context) error {
	kpis, err := s.loadPortfolio(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, kpis)
}

func (s *Server) loadPortfolio(c echo.Context) (schema.PortfolioKPIs, error) {
	store, err := s.store()
	if err != nil {
		return schema.PortfolioKPIs{}, err
	}
	months, err := s.months(c)
	if err != nil {
		return schema.PortfolioKPIs{}, err
	}
	return core.Portfolio(c.Request().Context(), store, s.now(), months)
}

func (s *Server) getProject(c echo.Context) error {
	store, err := s.store()
	if err != nil {
		return respondError(c, err)
	}
	months, err := s.months(c)
	if err != nil {
		return respondError(c, err)
	}
	p, register, err := core.ProjectRegister(c.Request().Context(), store, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, projectResponse{
		Project:  p,
		Summary:  exposure.Summarize(p, s.now(), months),
		Register: newRegisterResponse(register),
	})
}

func (s *Server) projectExposure(c echo.Context) error {
	store, err := s.store()
	if err != nil {
		return respondError(c, err)
	}
	_, register, err := core.ProjectRegister(c.Request().Context(), store, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newRegisterResponse(register))
}

func (s *Server) calculateProject(c echo.Context) error {
	store, err := s.store()
	if err != nil {
		return respondError(c, err)
	}

	// An empty body recomputes with the stored inputs
	var inputs *schema.CalculatorInputs
	if req := c.Request(); req.Body != nil && req.Body != http.NoBody && req.ContentLength != 0 {
		in := schema.DefaultInputs()
		if err := c.Bind(&in); err != nil {
			return respondError(c, err)
		}
		inputs = &in
	}

	months, err := s.months(c)
	if err != nil {
		return respondError(c, err)
	}

	now := s.now()
	p, report, err := core.CalculateProject(c.Request().Context(), store, c.Param("id"), inputs, now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, calculationResponse{
		Report:  report,
		Summary: exposure.Summarize(p, now, months),
	})
}
