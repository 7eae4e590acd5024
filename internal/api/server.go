// Package api exposes the projection engine over HTTP. The server is a
// thin stateless layer: decode a plan, validate it, run the projection
// and return the result as JSON.
package api

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/rpgo/pension-planner/internal/calculation"
	"github.com/rpgo/pension-planner/internal/config"
	"github.com/rpgo/pension-planner/internal/domain"
)

// Server handles projection requests over fasthttp.
type Server struct {
	parser *config.InputParser
	logger zerolog.Logger
	// now supplies the reference date for plans that do not fix their own
	// as-of date. Overridable for tests.
	now func() time.Time
}

// NewServer constructs a Server with the given logger.
func NewServer(logger zerolog.Logger) *Server {
	return &Server{
		parser: config.NewInputParser(),
		logger: logger,
		now:    time.Now,
	}
}

// ListenAndServe blocks serving HTTP on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("projection server listening")
	return fasthttp.ListenAndServe(addr, s.Handle)
}

// Handle routes an incoming request. It is the fasthttp request handler
// for the whole server.
func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/v1/projection":
		s.handleProjection(ctx)
	case "/healthz":
		s.handleHealth(ctx)
	default:
		s.writeError(ctx, fasthttp.StatusNotFound, "not found")
	}
}

// projectionResponse is the success envelope for /v1/projection.
type projectionResponse struct {
	Projection  *domain.RetirementProjection `json:"projection"`
	Assumptions []string                     `json:"assumptions"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleProjection(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		s.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var plan domain.Plan
	if err := json.Unmarshal(ctx.PostBody(), &plan); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	plan.Assumptions.ApplyDefaults()
	if err := s.parser.ValidatePlan(&plan); err != nil {
		s.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	projection, err := calculation.ComputeProjection(&plan, s.now())
	if err != nil {
		// Validation passed, so this is a semantic rejection such as the
		// past-retirement policy firing against the server clock.
		s.writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}

	s.logger.Info().
		Time("retirement_date", projection.RetirementDate).
		Str("total_net_income", projection.TotalNetIncome.StringFixed(2)).
		Msg("projection computed")

	s.writeJSON(ctx, fasthttp.StatusOK, projectionResponse{
		Projection:  projection,
		Assumptions: plan.DescribeAssumptions(),
	})
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	s.writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(ctx *fasthttp.RequestCtx, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error().Err(err).Msg("response encoding failed")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(data)
}

func (s *Server) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	s.writeJSON(ctx, status, errorResponse{Status: status, Message: message})
}
