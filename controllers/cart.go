package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/cart"
	"github.com/juppuo/tottembo-shop.store/middleware"
)

func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := cart.GetSummary(db, middleware.UserID(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

// ToCart applies the path-encoded action ("add" adds, anything else removes)
// and responds with the refreshed cart.
func ToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		userID := middleware.UserID(c)

		err = cart.ApplyAction(db, userID, uint(productID), c.Param("action"))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		summary, err := cart.GetSummary(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}

func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := cart.Clear(db, middleware.UserID(c)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "cleared"})
	}
}
