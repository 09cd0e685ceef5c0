package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fagaru/fagaru/backend/internal/types"
)

const invalidPage = "invalid page"

// pageRequest is a 1-based page number and a page size.
type pageRequest struct {
	Page int
	Size int
}

func (p pageRequest) Offset() int {
	return (p.Page - 1) * p.Size
}

// parsePage reads page and page_size. A malformed page answers 404 and
// returns false; a malformed or oversized page_size is clamped.
func parsePage(c *gin.Context) (pageRequest, bool) {
	p := pageRequest{Page: 1, Size: types.DefaultPageSize}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			respondNotFound(c, invalidPage)
			return p, false
		}
		p.Page = page
	}
	if raw := c.Query("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && size > 0 {
			p.Size = min(size, types.MaxPageSize)
		}
	}
	return p, true
}

// respondPage writes the page envelope, or 404 when the page lies past the end.
func respondPage(c *gin.Context, p pageRequest, total int64, results any) {
	if p.Page > 1 && int64(p.Offset()) >= total {
		respondNotFound(c, invalidPage)
		return
	}

	page := types.Page{Count: total, Results: results}
	if int64(p.Offset()+p.Size) < total {
		page.Next = pageURL(c, p.Page+1)
	}
	if p.Page > 1 {
		page.Previous = pageURL(c, p.Page-1)
	}
	c.JSON(http.StatusOK, page)
}

func pageURL(c *gin.Context, page int) *string {
	u := *c.Request.URL
	q := u.Query()
	if page == 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()

	u.Scheme = "http"
	if c.Request.TLS != nil {
		u.Scheme = "https"
	}
	switch proto := strings.ToLower(strings.TrimSpace(c.GetHeader("X-Forwarded-Proto"))); proto {
	case "http", "https":
		u.Scheme = proto
	}
	u.Host = c.Request.Host

	s := u.String()
	return &s
}
