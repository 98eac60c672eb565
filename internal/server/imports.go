package server

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/showroom/internal/csvimport"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
	productdomain "github.com/smallbiznis/showroom/internal/product/domain"
	"github.com/smallbiznis/showroom/internal/storage"
	"go.uber.org/zap"
)

// spoolImport copies the uploaded "file" field to a temp file after checking
// its extension and size against the current import settings. The caller
// must Close the returned file.
func (s *Server) spoolImport(c *gin.Context) (*storage.Temp, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, csvimport.ErrNoFile
	}

	settings := s.importSettings.Get()
	if !settings.AllowsExtension(filepath.Ext(fh.Filename)) {
		return nil, csvimport.ErrFileType
	}
	if settings.MaxUploadBytes > 0 && fh.Size > settings.MaxUploadBytes {
		return nil, csvimport.ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return storage.NewTemp(src, settings.MaxUploadBytes)
}

func (s *Server) closeImport(tmp *storage.Temp) {
	if err := tmp.Close(); err != nil {
		s.log.Warn("failed to remove import temp file", zap.String("path", tmp.Name()), zap.Error(err))
	}
}

func (s *Server) ImportFootfall(c *gin.Context) {
	tmp, err := s.spoolImport(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer s.closeImport(tmp)

	summary, err := s.footfallSvc.Import(c.Request.Context(), footfalldomain.ImportRequest{
		File:      tmp,
		DefaultPC: strings.TrimSpace(c.PostForm("pc")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, importResponse{
		Message: "Footfall data imported successfully",
		Summary: summary,
	})
}

func (s *Server) ImportProducts(c *gin.Context) {
	tmp, err := s.spoolImport(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer s.closeImport(tmp)

	result, err := s.productSvc.Import(c.Request.Context(), productdomain.ImportRequest{File: tmp})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, productImportResponse{
		Message:       "Products imported successfully",
		InsertedCount: result.InsertedCount,
		Summary:       result.Summary,
	})
}

type importResponse struct {
	Message string `json:"message"`
	csvimport.Summary
}

type productImportResponse struct {
	Message       string `json:"message"`
	InsertedCount int    `json:"insertedCount"`
	csvimport.Summary
}
