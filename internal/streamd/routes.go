package streamd

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mveld/ringctl/internal/aspace"
	"github.com/mveld/ringctl/internal/cmdbuf"
	"github.com/mveld/ringctl/internal/cp"
	"github.com/mveld/ringctl/internal/device"
	"github.com/mveld/ringctl/internal/submit"
)

// switchRequest is the POST body for one switch. Root and bases arrive as
// hex-friendly strings so callers can paste register values verbatim.
type switchRequest struct {
	Root    string  `json:"root" binding:"required"`
	Tag     uint32  `json:"tag"`
	Bank    uint32  `json:"bank"`
	Context *uint32 `json:"context"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.started).String(),
			"node":    s.cfg.NodeID,
			"device":  s.cfg.Profile.Name,
			"version": "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/queues", func(c *gin.Context) {
		queues := make([]gin.H, 0, len(s.dev.Queues()))
		for _, q := range s.dev.Queues() {
			entry := gin.H{"id": q.ID}
			if as := q.ActiveAddressSpace(); as != nil {
				root, tag, bank := as.Registers()
				entry["root"] = strconv.FormatUint(root, 16)
				entry["tag"] = tag
				entry["bank"] = bank
			}
			queues = append(queues, entry)
		}
		c.JSON(http.StatusOK, gin.H{"queues": queues})
	})

	s.router.POST("/queues/:queue/switch", s.handleSwitch)

	s.router.POST("/device/fault", func(c *gin.Context) {
		var body struct {
			InProgress bool `json:"in_progress"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.dev.SetFault(body.InProgress)
		c.JSON(http.StatusOK, gin.H{"fault_in_progress": body.InProgress})
	})
}

func (s *Server) handleSwitch(c *gin.Context) {
	queueID, err := strconv.ParseUint(c.Param("queue"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "queue must be a number"})
		return
	}
	queue, err := s.dev.Queue(uint32(queueID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var req switchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	root, err := strconv.ParseUint(req.Root, 0, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "root must be an integer (hex accepted)"})
		return
	}

	lc := aspace.GlobalContext
	if req.Context != nil {
		lc = aspace.Context(*req.Context)
	}

	before := len(s.recorder.Accepted())
	target := device.NewAddressSpace(root, req.Tag, req.Bank)
	tok, err := s.switcher.Switch(c.Request.Context(), queue, target, lc)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, cmdbuf.ErrExhausted) || errors.Is(err, submit.ErrQueueFull) {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	streams := make([]gin.H, 0, 2)
	for _, sub := range s.recorder.Accepted()[before:] {
		listing, err := cp.Listing(sub.Words)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		streams = append(streams, gin.H{
			"words":     len(sub.Words),
			"protected": sub.Flags&submit.FlagProtectedMode != 0,
			"listing":   listing,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   tok,
		"queue":   queue.ID,
		"streams": streams,
	})
}
