package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Abdisalan-Osman/evently/internal/helpers"
	"github.com/Abdisalan-Osman/evently/internal/middleware"
	"github.com/Abdisalan-Osman/evently/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const eventListCacheKey = "/"

type EventRequest struct {
	Title       string     `json:"title" binding:"required"`
	CategoryID  *uuid.UUID `json:"categoryId"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl" binding:"required"`
	Location    string     `json:"location"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     time.Time  `json:"endDate"`
	Price       string     `json:"price"`
	IsFree      bool       `json:"isFree"`
	URL         string     `json:"url"`
}

func currentUser(c *gin.Context, gormDB *gorm.DB) (*models.User, bool) {
	clerkID, exists := c.Get("clerk_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "authentication", "User identity not found in token.")
		return nil, false
	}

	var user models.User
	if err := gormDB.Where("clerk_id = ?", clerkID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "not_found", "Organizer not found.")
			return nil, false
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error looking up organizer.")
		return nil, false
	}
	return &user, true
}

func CreateEvent(c *gin.Context) {
	var req EventRequest
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

	organizer, ok := currentUser(c, gormDB)
	if !ok {
		return
	}

	var existing models.Event
	if err := gormDB.Where("title = ?", req.Title).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "conflict", "An event with this title already exists.")
		return
	}

	if req.CategoryID != nil {
		var category models.Category
		if err := gormDB.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Category not found.")
			return
		}
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Price:       req.Price,
		IsFree:      req.IsFree,
		URL:         req.URL,
		CategoryID:  req.CategoryID,
		OrganizerID: &organizer.ID,
	}

	if err := gormDB.Create(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Failed to create event.")
		return
	}

	if store := middleware.GetCacheStore(c); store != nil {
		store.Invalidate(eventListCacheKey)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Event created successfully.",
		"event_id": event.ID,
	})
}

func GetEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Preload("Category").Preload("Organizer").Where("id = ?", eventID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusNotFound, "not_found", "Event not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error retrieving event.")
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEvents(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")
	categoryID := c.Query("category")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Invalid limit.")
		return
	}

	// The default first page is what the root listing renders; serve it from
	// cache until a write or an account deletion invalidates it.
	store := middleware.GetCacheStore(c)
	cacheable := store != nil && pageNum == 1 && limitNum == 10 && categoryID == ""
	if cacheable {
		if cached, ok := store.Get(eventListCacheKey); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			return
		}
	}

	query := gormDB.Model(&models.Event{})
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	var totalCount int64
	query.Count(&totalCount)

	var events []models.Event
	offset := (pageNum - 1) * limitNum
	err = query.Preload("Category").Preload("Organizer").Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&events).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error retrieving events.")
		return
	}

	response := gin.H{
		"events":      events,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	}

	if cacheable {
		if encoded, err := json.Marshal(response); err == nil {
			store.Set(eventListCacheKey, encoded)
		}
	}

	c.JSON(http.StatusOK, response)
}

func UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req EventRequest
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

	organizer, ok := currentUser(c, gormDB)
	if !ok {
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND organizer_id = ?", eventID, organizer.ID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			helpers.RespondWithError(c, http.StatusForbidden, "not_found", "Event not found or you don't have permission to update.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error finding event.")
		return
	}

	var duplicate models.Event
	if err := gormDB.Where("title = ? AND id <> ?", req.Title, event.ID).First(&duplicate).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "conflict", "An event with this title already exists.")
		return
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.ImageURL = req.ImageURL
	event.Price = req.Price
	event.IsFree = req.IsFree
	event.URL = req.URL
	event.CategoryID = req.CategoryID
	if !req.StartDate.IsZero() {
		event.StartDate = req.StartDate
	}
	if !req.EndDate.IsZero() {
		event.EndDate = req.EndDate
	}

	if err := gormDB.Save(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Failed to update event.")
		return
	}

	if store := middleware.GetCacheStore(c); store != nil {
		store.Invalidate(eventListCacheKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	organizer, ok := currentUser(c, gormDB)
	if !ok {
		return
	}

	result := gormDB.Where("id = ? AND organizer_id = ?", eventID, organizer.ID).Delete(&models.Event{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Failed to delete event.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "not_found", "Event not found or you don't have permission to delete.")
		return
	}

	if store := middleware.GetCacheStore(c); store != nil {
		store.Invalidate(eventListCacheKey)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event deleted successfully.",
	})
}
