package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// parsePage reads ?limit= and ?offset=. limit falls back to defaultLimit and
// is capped at dto.MaxPageLimit.
func parsePage(c *gin.Context, defaultLimit int) (dto.Page, error) {
	page := dto.Page{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return page, service.NewValidationError("limit", "must be a positive integer")
		}
		page.Limit = min(limit, dto.MaxPageLimit)
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return page, service.NewValidationError("offset", "must be a non-negative integer")
		}
		page.Offset = offset
	}
	return page, nil
}

// writePage fills in absolute next/previous links and writes the envelope.
func writePage[T any](c *gin.Context, p *dto.Paginated[T], page dto.Page) {
	if page.HasNext(p.Count) {
		next := pageURL(c, page.Limit, page.Offset+page.Limit)
		p.Next = &next
	}
	if page.HasPrevious() {
		prev := pageURL(c, page.Limit, max(page.Offset-page.Limit, 0))
		p.Previous = &prev
	}
	c.JSON(http.StatusOK, p)
}

func pageURL(c *gin.Context, limit, offset int) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	q := c.Request.URL.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: q.Encode(),
	}
	return u.String()
}
