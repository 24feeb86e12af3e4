// Package handler exposes the post resource over HTTP.
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jcbcouch/dotnetwebapi/internal/identity"
	"github.com/jcbcouch/dotnetwebapi/internal/post"
	"github.com/jcbcouch/dotnetwebapi/internal/post/service"
	"github.com/jcbcouch/dotnetwebapi/pkg/metrics"
	"github.com/jcbcouch/dotnetwebapi/pkg/middleware"
)

// RegisterPostRoutes mounts the post endpoints. In ModeRequired every route
// sits behind the auth middleware; in ModeNone the middleware passes all
// requests through anonymously.
func RegisterPostRoutes(r *gin.Engine, svc *service.Service, ver identity.Verifier, mode identity.Mode) {
	h := &postHandler{svc: svc}
	auth := middleware.Auth(ver, mode)

	r.GET("/posts", auth, h.list)
	r.GET("/posts/search", auth, h.search)
	r.GET("/posts/:id", auth, h.get)
	r.POST("/posts", auth, h.create)
	r.PUT("/posts/:id", auth, h.update)
	r.DELETE("/posts/:id", auth, h.delete)
}

type postHandler struct {
	svc *service.Service
}

func (h *postHandler) list(c *gin.Context) {
	q := c.Request.URL.Query()
	_, hasTitle := q["title"]
	_, hasContent := q["content"]

	var (
		out []post.Response
		err error
	)
	if hasTitle || hasContent {
		// a present filter makes this the filtered-list operation
		out, err = h.svc.Search(c.Request.Context(), c.Query("title"), c.Query("content"))
	} else {
		out, err = h.svc.List(c.Request.Context())
	}
	if err != nil {
		writeError(c, "list", err)
		return
	}
	metrics.ObserveOperation("list", http.StatusOK)
	c.JSON(http.StatusOK, out)
}

func (h *postHandler) search(c *gin.Context) {
	out, err := h.svc.Search(c.Request.Context(), c.Query("title"), c.Query("content"))
	if err != nil {
		writeError(c, "search", err)
		return
	}
	metrics.ObserveOperation("search", http.StatusOK)
	c.JSON(http.StatusOK, out)
}

func (h *postHandler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		metrics.ObserveOperation("get", http.StatusBadRequest)
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, "get", err)
		return
	}
	metrics.ObserveOperation("get", http.StatusOK)
	c.JSON(http.StatusOK, resp)
}

func (h *postHandler) create(c *gin.Context) {
	var req post.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ObserveOperation("create", http.StatusBadRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), actorPtr(c), req)
	if err != nil {
		writeError(c, "create", err)
		return
	}
	metrics.ObserveOperation("create", http.StatusCreated)
	c.Header("Location", fmt.Sprintf("/posts/%d", resp.ID))
	c.JSON(http.StatusCreated, resp)
}

func (h *postHandler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		metrics.ObserveOperation("update", http.StatusBadRequest)
		return
	}
	var req post.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		metrics.ObserveOperation("update", http.StatusBadRequest)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.svc.Update(c.Request.Context(), actorPtr(c), id, req); err != nil {
		writeError(c, "update", err)
		return
	}
	metrics.ObserveOperation("update", http.StatusNoContent)
	c.Status(http.StatusNoContent)
}

func (h *postHandler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		metrics.ObserveOperation("delete", http.StatusBadRequest)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), actorPtr(c), id); err != nil {
		writeError(c, "delete", err)
		return
	}
	metrics.ObserveOperation("delete", http.StatusNoContent)
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func actorPtr(c *gin.Context) *identity.Actor {
	if a, ok := middleware.ActorFrom(c); ok {
		return &a
	}
	return nil
}

// writeError maps service errors onto the HTTP taxonomy. Anything outside the
// known taxonomy is an infrastructure failure and stays a generic 500.
func writeError(c *gin.Context, operation string, err error) {
	var ve *service.ValidationError
	var status int
	var body gin.H
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
		body = gin.H{"error": "validation failed", "fields": ve.Violations}
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
		body = gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
		body = gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
		body = gin.H{"error": err.Error()}
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
		body = gin.H{"error": err.Error()}
	default:
		status = http.StatusInternalServerError
		body = gin.H{"error": "internal error"}
	}
	metrics.ObserveOperation(operation, status)
	c.JSON(status, body)
}
