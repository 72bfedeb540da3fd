package handlers

import (
	"net/http"

	"github.com/Abdisalan-Osman/evently/internal/helpers"
	"github.com/Abdisalan-Osman/evently/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListOrders returns the caller's orders. Checkout lives in the payment
// service; locally orders are read-only and lose their buyer reference when
// the buyer's account is deleted.
func ListOrders(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	buyer, ok := currentUser(c, gormDB)
	if !ok {
		return
	}

	var orders []models.Order
	if err := gormDB.Preload("Event").Where("buyer_id = ?", buyer.ID).Order("created_at DESC").Find(&orders).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "internal", "Error retrieving orders.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}
