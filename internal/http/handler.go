package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/graph-guard/internal/circuitbreaker"
	"github.com/guttosm/graph-guard/internal/domain/dto"
	"github.com/guttosm/graph-guard/internal/querycache"
	"github.com/guttosm/graph-guard/internal/service"
)

// retryAfterSaturated is sent with 503s caused by a saturated half-open breaker.
const retryAfterSaturated = "1"

// Handler provides HTTP handlers for query, cache and breaker routes.
type Handler struct {
	querier  service.GraphQuerier
	cache    *querycache.QueryCache
	breakers *circuitbreaker.Registry
}

// NewHandler creates a new Handler instance.
func NewHandler(querier service.GraphQuerier, cache *querycache.QueryCache, breakers *circuitbreaker.Registry) *Handler {
	return &Handler{
		querier:  querier,
		cache:    cache,
		breakers: breakers,
	}
}

// RegisterRoutes mounts the API routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/query", h.Query)

	cacheGroup := rg.Group("/cache")
	cacheGroup.GET("/stats", h.CacheStats)
	cacheGroup.POST("/invalidate", h.InvalidateCache)
	cacheGroup.DELETE("", h.ClearCache)

	breakers := rg.Group("/breakers")
	breakers.GET("", h.ListBreakers)
	breakers.GET("/:name", h.GetBreaker)
	breakers.POST("/:name/reset", h.ResetBreaker)
}

// Query handles POST /api/query requests.
//
// @Summary      Run a Cypher query
// @Description  Runs a query against the graph database. Queries containing a write keyword are executed as writes and invalidate cached results for the labels they touch. Other queries are reads and may be answered from the query cache.
// @Tags         Query
// @Accept       json
// @Produce      json
// @Param        request body dto.QueryRequest true "Query and parameters"
// @Success      200 {object} dto.SuccessResponse "Query result"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Failure      502 {object} dto.ErrorResponse "Graph database error"
// @Failure      503 {object} dto.ErrorResponse "Circuit breaker open"
// @Failure      504 {object} dto.ErrorResponse "Query timed out"
// @Router       /api/query [post]
func (h *Handler) Query(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.QueryRequest](c)
	if err != nil {
		builder.Error(http.StatusBadRequest, validationMessage(err), err)
		return
	}

	result, err := h.querier.Execute(c.Request.Context(), req.Query, req.Parameters)
	if err != nil {
		h.respondQueryError(c, builder, err)
		return
	}

	builder.SuccessOK(result)
}

func (h *Handler) respondQueryError(c *gin.Context, builder *ResponseBuilder, err error) {
	var validationErr *dto.ValidationError
	switch {
	case errors.As(err, &validationErr), errors.Is(err, service.ErrEmptyQuery):
		builder.Error(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, circuitbreaker.ErrTooManyTrialCalls):
		c.Header("Retry-After", retryAfterSaturated)
		builder.ErrorWithCode(http.StatusServiceUnavailable, dto.ErrCodeCircuitOpen,
			"Graph database is recovering; too many trial requests", err)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		builder.ErrorWithCode(http.StatusServiceUnavailable, dto.ErrCodeCircuitOpen,
			"Graph database is unavailable", err)
	case errors.Is(err, context.DeadlineExceeded):
		builder.Error(http.StatusGatewayTimeout, "Query timed out", err)
	default:
		builder.Error(http.StatusBadGateway, "Graph database query failed", err)
	}
}

func validationMessage(err error) string {
	var validationErr *dto.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}
	return "Invalid request body"
}

// CacheStats handles GET /api/cache/stats requests.
//
// @Summary      Query cache statistics
// @Description  Reports the cache storage mode and the in-process tier statistics.
// @Tags         Cache
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CacheStatsResponse} "Cache statistics"
// @Router       /api/cache/stats [get]
func (h *Handler) CacheStats(c *gin.Context) {
	NewResponseBuilder(c).SuccessOK(dto.CacheStatsResponse{
		Mode:  h.cache.Mode(),
		Local: h.cache.Stats(),
	})
}

// InvalidateCache handles POST /api/cache/invalidate requests.
//
// @Summary      Invalidate cached query results
// @Description  Deletes remote entries whose key contains the pattern and clears the in-process tier. An empty or missing body invalidates everything.
// @Tags         Cache
// @Accept       json
// @Produce      json
// @Param        request body dto.InvalidateCacheRequest false "Pattern"
// @Success      200 {object} dto.SuccessResponse{data=dto.InvalidateCacheResponse} "Invalidation result"
// @Failure      400 {object} dto.ErrorResponse "Bad request - invalid input"
// @Router       /api/cache/invalidate [post]
func (h *Handler) InvalidateCache(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req := &dto.InvalidateCacheRequest{}
	if c.Request.ContentLength != 0 {
		var err error
		req, err = BuildRequest[dto.InvalidateCacheRequest](c)
		if errors.Is(err, io.EOF) {
			req, err = &dto.InvalidateCacheRequest{}, nil
		}
		if err != nil {
			builder.Error(http.StatusBadRequest, "Invalid request body", err)
			return
		}
	}

	h.cache.InvalidatePattern(c.Request.Context(), req.Pattern)
	builder.SuccessOK(dto.InvalidateCacheResponse{Pattern: req.Pattern, Invalidated: true})
}

// ClearCache handles DELETE /api/cache requests.
//
// @Summary      Clear the query cache
// @Description  Drops every cached query result from both tiers. Hit and miss counters are kept.
// @Tags         Cache
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.InvalidateCacheResponse} "Cache cleared"
// @Router       /api/cache [delete]
func (h *Handler) ClearCache(c *gin.Context) {
	h.cache.Clear(c.Request.Context())
	NewResponseBuilder(c).SuccessOK(dto.InvalidateCacheResponse{Invalidated: true})
}

// ListBreakers handles GET /api/breakers requests.
//
// @Summary      List circuit breakers
// @Description  Returns a snapshot of every registered circuit breaker, sorted by name.
// @Tags         Circuit Breakers
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=[]circuitbreaker.Metrics} "Breaker snapshots"
// @Router       /api/breakers [get]
func (h *Handler) ListBreakers(c *gin.Context) {
	names := h.breakers.Names()
	snapshots := make([]circuitbreaker.Metrics, 0, len(names))
	for _, name := range names {
		if cb, ok := h.breakers.Get(name); ok {
			snapshots = append(snapshots, cb.Metrics())
		}
	}
	NewResponseBuilder(c).SuccessOK(snapshots)
}

// GetBreaker handles GET /api/breakers/:name requests.
//
// @Summary      Get a circuit breaker
// @Tags         Circuit Breakers
// @Produce      json
// @Param        name path string true "Breaker name"
// @Success      200 {object} dto.SuccessResponse{data=circuitbreaker.Metrics} "Breaker snapshot"
// @Failure      404 {object} dto.ErrorResponse "Unknown breaker"
// @Router       /api/breakers/{name} [get]
func (h *Handler) GetBreaker(c *gin.Context) {
	cb, ok := h.lookupBreaker(c)
	if !ok {
		return
	}
	NewResponseBuilder(c).SuccessOK(cb.Metrics())
}

// ResetBreaker handles POST /api/breakers/:name/reset requests.
//
// @Summary      Reset a circuit breaker
// @Description  Forces the breaker closed and zeroes its failure and success counts. Calls still in flight are settled against the new generation as stale.
// @Tags         Circuit Breakers
// @Produce      json
// @Param        name path string true "Breaker name"
// @Success      200 {object} dto.SuccessResponse{data=circuitbreaker.Metrics} "Breaker snapshot after reset"
// @Failure      404 {object} dto.ErrorResponse "Unknown breaker"
// @Router       /api/breakers/{name}/reset [post]
func (h *Handler) ResetBreaker(c *gin.Context) {
	cb, ok := h.lookupBreaker(c)
	if !ok {
		return
	}
	cb.Reset()
	NewResponseBuilder(c).SuccessOK(cb.Metrics())
}

func (h *Handler) lookupBreaker(c *gin.Context) (*circuitbreaker.CircuitBreaker, bool) {
	name := c.Param("name")
	cb, ok := h.breakers.Get(name)
	if !ok {
		NewResponseBuilder(c).Error(http.StatusNotFound, "Unknown circuit breaker: "+name, nil)
		return nil, false
	}
	return cb, true
}
