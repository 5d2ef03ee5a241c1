package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenhud/lumen/backend/internal/domain/flow"
	"github.com/lumenhud/lumen/backend/internal/domain/pipeline"
	"github.com/lumenhud/lumen/backend/internal/domain/slots"
	"github.com/lumenhud/lumen/backend/internal/domain/tier"
	"github.com/lumenhud/lumen/backend/internal/infrastructure/monitoring"
	"github.com/lumenhud/lumen/backend/internal/shared/types"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	allocator *slots.Allocator
	flow      *flow.Store
	pipeline  *pipeline.Pipeline
	metrics   *monitoring.Metrics
}

// NewHandlers creates a new handler set
func NewHandlers(allocator *slots.Allocator, store *flow.Store, pipe *pipeline.Pipeline, metrics *monitoring.Metrics) *Handlers {
	return &Handlers{
		allocator: allocator,
		flow:      store,
		pipeline:  pipe,
		metrics:   metrics,
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Lumen HUD Service (Go)",
		"version": "0.3.0",
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":  "healthy",
		"metrics": h.allocator.Metrics(),
		"flow":    gin.H{"mode": h.flow.State().Mode},
	}
	if h.metrics != nil {
		resp["requests"] = h.metrics.GetSnapshot()
	}
	c.JSON(http.StatusOK, resp)
}

// spawnPayload is the wire form of a spawn request; TTL travels as
// milliseconds for frontend convenience.
type spawnPayload struct {
	ID       string                 `json:"id"`
	Tier     string                 `json:"tier" binding:"required"`
	Kind     string                 `json:"kind" binding:"required"`
	Payload  interface{}            `json:"payload"`
	Priority int                    `json:"priority"`
	TTLMs    int64                  `json:"ttl_ms"`
	Pinned   bool                   `json:"pinned"`
	Meta     map[string]interface{} `json:"meta"`
}

func (p spawnPayload) toRequest() types.SpawnRequest {
	req := types.SpawnRequest{
		ID:       p.ID,
		Tier:     types.Tier(p.Tier),
		Kind:     p.Kind,
		Payload:  p.Payload,
		Priority: p.Priority,
		Pinned:   p.Pinned,
		Meta:     p.Meta,
	}
	if p.TTLMs > 0 {
		ttl := time.Duration(p.TTLMs) * time.Millisecond
		req.TTL = &ttl
	}
	return req
}

// Spawn submits a spawn request for admission
func (h *Handlers) Spawn(c *gin.Context) {
	var payload spawnPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.allocator.Spawn(payload.toRequest())
	if err != nil {
		if errors.Is(err, tier.ErrInvalidTier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Touch refreshes an entry's lastTouched timestamp
func (h *Handlers) Touch(c *gin.Context) {
	entryID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"success":  h.allocator.Touch(entryID),
		"entry_id": entryID,
	})
}

// Evict removes an entry
func (h *Handlers) Evict(c *gin.Context) {
	entryID := c.Param("id")
	c.JSON(http.StatusOK, gin.H{
		"removed":  h.allocator.Evict(entryID, types.ReasonManual),
		"entry_id": entryID,
	})
}

// Promote moves an entry to another tier
func (h *Handlers) Promote(c *gin.Context) {
	entryID := c.Param("id")

	var body struct {
		Target string `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.allocator.Promote(entryID, types.Tier(body.Target))
	if err != nil {
		switch {
		case errors.Is(err, tier.ErrInvalidTier):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, slots.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, res)
}

// Prune sweeps decayed entries from all tiers
func (h *Handlers) Prune(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"removed": h.allocator.Prune()})
}

// GetSnapshot returns the current tier projection plus metrics
func (h *Handlers) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.allocator.Snapshot())
}

// GetFlow returns the committed flow state
func (h *Handlers) GetFlow(c *gin.Context) {
	c.JSON(http.StatusOK, h.flow.State())
}

// SetMode starts a mode transition
func (h *Handlers) SetMode(c *gin.Context) {
	var body struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.flow.SetMode(types.Mode(body.Mode)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"mode": body.Mode, "transitioning": true})
}

// UpdateEnergy triggers an energy recompute without a mode change
func (h *Handlers) UpdateEnergy(c *gin.Context) {
	h.flow.UpdateEnergy()
	c.JSON(http.StatusOK, h.flow.State().Energy)
}

// Classify runs a signal through the full classification pipeline
func (h *Handlers) Classify(c *gin.Context) {
	var body struct {
		TaskTag    string `json:"task_tag"`
		IntentText string `json:"intent_text"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.pipeline.Dispatch(body.TaskTag, body.IntentText)
	c.JSON(http.StatusOK, gin.H{"results": results})
}
