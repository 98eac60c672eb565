package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// saveUpload stores the multipart file in field under area and returns its
// stored path. A request without that file yields an empty path.
func (s *Server) saveUpload(c *gin.Context, field, area string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return s.uploads.SaveFile(c.Request.Context(), area, fh)
}

// discardUpload removes a file stored for a request whose write failed.
func (s *Server) discardUpload(stored string) {
	if stored == "" {
		return
	}
	if err := s.uploads.Remove(stored); err != nil {
		s.log.Warn("failed to remove orphaned upload", zap.String("path", stored), zap.Error(err))
	}
}

func optionalPath(stored string) *string {
	if stored == "" {
		return nil
	}
	return &stored
}

// respondList answers 404 for an empty result on the routes where the
// frontend expects it.
func respondList[T any](c *gin.Context, items []T) {
	if len(items) == 0 {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}
