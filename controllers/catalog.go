package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/juppuo/tottembo-shop.store/models"
)

// ListProducts returns the catalog, filtered by title when ?q= is present.
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		query := db.Preload("Images")
		if q := c.Query("q"); q != "" {
			query = query.Where("title LIKE ?", "%"+q+"%")
		}
		if err := query.Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		err := db.Preload("Images").Preload("Reviews").
			Where("slug = ?", c.Param("slug")).First(&product).Error
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"product":     product,
			"first_photo": product.FirstPhotoURL(),
		})
	}
}

func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := c.ShouldBindJSON(&product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if product.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		if product.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must not be negative"})
			return
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func ListCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := c.ShouldBindJSON(&category); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GetCategory returns a category with the products of the whole subtree
// rooted at it.
func GetCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if err := db.Preload("Children").Where("slug = ?", c.Param("slug")).First(&category).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		allCatIDs, err := descendantCategoryIDs(db, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var products []models.Product
		if err := db.Preload("Images").Where("category_id IN ?", allCatIDs).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"image":    category.ImageURL(),
			"products": products,
		})
	}
}

// CategoryAveragePrice averages product prices over a category subtree.
func CategoryAveragePrice(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		allCatIDs, err := descendantCategoryIDs(db, category.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var products []models.Product
		if err := db.Where("category_id IN ?", allCatIDs).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		var sum float64
		for _, p := range products {
			sum += p.Price
		}
		avg := 0.0
		if len(products) > 0 {
			avg = sum / float64(len(products))
		}
		c.JSON(http.StatusOK, gin.H{
			"category_id":    id,
			"category_title": category.Title,
			"average_price":  avg,
		})
	}
}

func descendantCategoryIDs(db *gorm.DB, categoryID uint) ([]uint, error) {
	var ids []uint
	ids = append(ids, categoryID)
	var children []models.Category
	if err := db.Where("parent_id = ?", categoryID).Find(&children).Error; err != nil {
		return nil, err
	}
	for _, child := range children {
		childIDs, err := descendantCategoryIDs(db, child.ID)
		if err != nil {
			return nil, err
		}
		ids = append(ids, childIDs...)
	}
	return ids, nil
}
