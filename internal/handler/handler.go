package handler

import (
	"context"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"covid-estimator/internal/engine"
	"covid-estimator/internal/estimator"
	"covid-estimator/internal/logging"
	"covid-estimator/internal/model"
)

// Handler serves the estimator over HTTP:
//
//	POST /estimate   input record -> output record
//	POST /calculate  batch request -> calculation response
//	GET  /healthz
type Handler struct {
	engine *engine.Engine
	logger *slog.Logger
}

func New(eng *engine.Engine, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{engine: eng, logger: logger}
}

// Serve is the fasthttp request handler.
func (h *Handler) Serve(ctx *fasthttp.RequestCtx) {
	switch string(ctx.Path()) {
	case "/estimate":
		h.handleEstimate(ctx)
	case "/calculate":
		h.handleCalculation(ctx)
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}
}

func (h *Handler) handleEstimate(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var in model.Input
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	est := estimator.New(in,
		estimator.WithRatios(h.engine.Defaults()),
		estimator.WithLogger(h.logger))
	writeJSON(ctx, fasthttp.StatusOK, est.ComputeResponse())
}

func (h *Handler) handleCalculation(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.CalculationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Estimates) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "At least one estimate is required")
		return
	}

	reqCtx := logging.NewContext(context.Background(), h.logger.With("request_id", ctx.ID()))
	resp := h.engine.Process(reqCtx, &req)

	writeJSON(ctx, fasthttp.StatusOK, resp)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, err := json.Marshal(v)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Encoding response: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
