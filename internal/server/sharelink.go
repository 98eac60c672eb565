package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
)

type generateShareLinkRequest struct {
	VideoIDs     []string `json:"videoIds"`
	ExpiryDate   string   `json:"expiryDate"`
	CustomerName string   `json:"customerName"`
}

func (s *Server) GenerateShareLink(c *gin.Context) {
	var req generateShareLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	expiry, err := parseOptionalTime(req.ExpiryDate)
	if err != nil {
		AbortWithError(c, sharelinkdomain.ErrMissingExpiry)
		return
	}

	link, err := s.shareLinkSvc.Generate(c.Request.Context(), sharelinkdomain.GenerateRequest{
		VideoIDs:     req.VideoIDs,
		ExpiryDate:   expiry,
		CustomerName: strings.TrimSpace(req.CustomerName),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Shareable link generated successfully",
		"token":   link.Token,
		"data":    link,
	})
}

func (s *Server) SharedVideos(c *gin.Context) {
	videos, err := s.shareLinkSvc.Videos(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": videos})
}

func (s *Server) ListShareLinks(c *gin.Context) {
	links, err := s.shareLinkSvc.ListLinks(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": links})
}

type addFavoriteRequest struct {
	FavoriteList *struct {
		Token       string   `json:"token"`
		FavVideoIDs []string `json:"favVideoIds"`
	} `json:"favoriteList"`
}

func (s *Server) AddFavorite(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.FavoriteList == nil {
		AbortWithError(c, newValidationError("favoriteList", "invalid_favorite_list", "favoriteList is required"))
		return
	}

	favorite, err := s.shareLinkSvc.AddFavorite(c.Request.Context(), sharelinkdomain.FavoriteRequest{
		Token:    strings.TrimSpace(req.FavoriteList.Token),
		VideoIDs: req.FavoriteList.FavVideoIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Favorite list saved successfully", "data": favorite})
}

func (s *Server) ListFavorites(c *gin.Context) {
	favorites, err := s.shareLinkSvc.ListFavorites(c.Request.Context(), "")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": favorites})
}

func (s *Server) FavoritesByCustomer(c *gin.Context) {
	favorites, err := s.shareLinkSvc.ListFavorites(c.Request.Context(), c.Param("customerName"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": favorites})
}

func (s *Server) DeleteFavorite(c *gin.Context) {
	favorite, err := s.shareLinkSvc.DeleteFavorite(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite list deleted successfully", "data": favorite})
}
