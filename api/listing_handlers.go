package api

import (
	"encoding/base64"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"giveboard/domain"
)

type postListingRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Price       string `json:"price"`
	Address     string `json:"address"`
	City        string `json:"city" binding:"required"`
	ImageURL    string `json:"image_url"`
	ImageData   string `json:"image_data"` // base64, sniffed server-side
}

func (s *Server) postListing(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var req postListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var image []byte
	if req.ImageData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.ImageData)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image_data is not valid base64"})
			return
		}
		image = decoded
	}

	id, err := s.listings.PostListing(c.Request.Context(), domain.PostListingCommand{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Address:     req.Address,
		City:        req.City,
		Image:       image,
		ImageURL:    req.ImageURL,
		PostedBy:    identity,
	})
	if err != nil {
		s.fail(c, err, "listing creation failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"listing_id": id})
}

func (s *Server) latestListings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	listings, err := s.listings.LatestListings(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err, "listing fetch failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (s *Server) listingsByCategory(c *gin.Context) {
	listings, err := s.listings.ListingsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		s.fail(c, err, "listing fetch failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (s *Server) listingsByCity(c *gin.Context) {
	listings, err := s.listings.ListingsByCity(c.Request.Context(), c.Param("city"))
	if err != nil {
		s.fail(c, err, "listing fetch failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (s *Server) searchListings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	hits, total, err := s.listings.Search(c.Request.Context(), c.Query("q"), c.Query("city"), page)
	if err != nil {
		s.fail(c, err, "listing search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": hits, "total": total})
}

func (s *Server) categories(c *gin.Context) {
	categories, err := s.listings.Categories(c.Request.Context())
	if err != nil {
		s.fail(c, err, "category fetch failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) sliders(c *gin.Context) {
	sliders, err := s.listings.Sliders(c.Request.Context())
	if err != nil {
		s.fail(c, err, "slider fetch failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"sliders": sliders})
}
