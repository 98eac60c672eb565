package server

import (
	"encoding/json"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/showroom/internal/storage"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
)

func (s *Server) ListVideos(c *gin.Context) {
	videos, err := s.videoSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, videos)
}

type searchVideosRequest struct {
	TagNumber string `json:"tagNumber"`
	Category  string `json:"category"`
	Tags      string `json:"tags"`
	Query     string `json:"query"`
}

func (s *Server) SearchVideos(c *gin.Context) {
	var req searchVideosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	videos, err := s.videoSvc.Search(c.Request.Context(), videodomain.SearchRequest{
		TagNumber: strings.TrimSpace(req.TagNumber),
		Category:  strings.TrimSpace(req.Category),
		Tags:      strings.TrimSpace(req.Tags),
		Query:     strings.TrimSpace(req.Query),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondList(c, videos)
}

func (s *Server) VideosByCategory(c *gin.Context) {
	videos, err := s.videoSvc.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": videos})
}

func (s *Server) CreateVideo(c *gin.Context) {
	tags, err := parseTags(c.PostForm("tags"))
	if err != nil {
		AbortWithError(c, newValidationError("tags", "invalid_tags", "tags must be a JSON array"))
		return
	}

	upload, err := s.saveUpload(c, "videoUpload", storage.AreaVideos)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	video, err := s.videoSvc.Create(c.Request.Context(), videodomain.CreateRequest{
		TagNumber:   strings.TrimSpace(c.PostForm("tagNumber")),
		Category:    strings.TrimSpace(c.PostForm("category")),
		Tags:        tags,
		VideoUpload: upload,
	})
	if err != nil {
		s.discardUpload(upload)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Video uploaded successfully", "data": video})
}

// parseTags reads the tags field, either a JSON array of {id,name} objects or
// a JSON array of names.
func parseTags(raw string) ([]videodomain.Tag, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	var tags []videodomain.Tag
	if err := json.Unmarshal([]byte(raw), &tags); err == nil {
		return tags, nil
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, err
	}
	tags = make([]videodomain.Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, videodomain.Tag{Name: name})
	}
	return tags, nil
}

func (s *Server) DeleteVideo(c *gin.Context) {
	video, err := s.videoSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully", "data": video})
}

// StreamVideo serves the stored file with Range support.
func (s *Server) StreamVideo(c *gin.Context) {
	video, f, err := s.videoSvc.Open(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	http.ServeContent(c.Writer, c.Request, path.Base(video.VideoUpload), info.ModTime(), f)
}
