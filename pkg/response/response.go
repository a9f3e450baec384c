package response

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/advocates-api/pkg/errors"
	"github.com/noah-isme/advocates-api/pkg/pagination"
)

// Envelope represents the common response contract.
type Envelope struct {
	Data     interface{}            `json:"data"`
	PageInfo *pagination.PageInfo   `json:"pageInfo,omitempty"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
	Error    *appErrors.Error       `json:"error,omitempty"`
}

// CachePolicy describes a shared-cache directive. Zero MaxAge and
// StaleWhileRevalidate still mark the response public.
type CachePolicy struct {
	MaxAge               time.Duration
	StaleWhileRevalidate time.Duration
}

// Header renders the Cache-Control value.
func (p CachePolicy) Header() string {
	return fmt.Sprintf("public, max-age=0, s-maxage=%d, stale-while-revalidate=%d",
		int(p.MaxAge.Seconds()), int(p.StaleWhileRevalidate.Seconds()))
}

// JSON sends an uncacheable success response.
func JSON(c *gin.Context, status int, data interface{}, meta ...map[string]interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, envelope(data, nil, meta))
}

// Page sends a page of results that shared caches may keep per policy.
func Page(c *gin.Context, data interface{}, info pagination.PageInfo, policy CachePolicy, meta ...map[string]interface{}) {
	c.Header("Cache-Control", policy.Header())
	c.JSON(http.StatusOK, envelope(data, &info, meta))
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func envelope(data interface{}, info *pagination.PageInfo, meta []map[string]interface{}) Envelope {
	env := Envelope{Data: data, PageInfo: info}
	if len(meta) > 0 && len(meta[0]) > 0 {
		env.Meta = meta[0]
	}
	return env
}
