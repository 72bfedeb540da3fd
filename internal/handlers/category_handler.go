package handlers

import (
	"net/http"

	"github.com/Abdisalan-Osman/evently/internal/helpers"
	"github.com/Abdisalan-Osman/evently/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

// CreateCategory backs the create-on-demand dropdown in the event form.
func CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	category := models.Category{
		Name: req.Name,
	}

	if err := gormDB.Create(&category).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Failed to create category.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Category created successfully.",
		"category": category,
	})
}

func ListCategories(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var categories []models.Category
	if err := gormDB.Order("name ASC").Find(&categories).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error retrieving categories.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
	})
}
