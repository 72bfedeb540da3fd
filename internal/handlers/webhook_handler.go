package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/Abdisalan-Osman/evently/internal/apperror"
	"github.com/Abdisalan-Osman/evently/internal/helpers"
	"github.com/Abdisalan-Osman/evently/internal/middleware"
	"github.com/Abdisalan-Osman/evently/internal/services"
	"github.com/gin-gonic/gin"
	svix "github.com/svix/svix-webhooks/go"
	"gorm.io/gorm"
)

// Each delivery gets a bounded handling window; the provider redelivers on
// failure, this endpoint never retries on its own.
const webhookTimeout = 10 * time.Second

type clerkEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type clerkUserData struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ImageURL       string `json:"image_url"`
	EmailAddresses []struct {
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d clerkUserData) primaryEmail() string {
	if len(d.EmailAddresses) == 0 {
		return ""
	}
	return d.EmailAddresses[0].EmailAddress
}

type noopRevalidator struct{}

func (noopRevalidator) Invalidate(string) {}

// ClerkWebhook is the sole authentication boundary for account mutations:
// nothing past signature verification runs for a tampered or replayed
// delivery.
func ClerkWebhook(c *gin.Context) {
	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "WEBHOOK_SECRET is not configured.")
		return
	}

	svixID := c.GetHeader("svix-id")
	svixTimestamp := c.GetHeader("svix-timestamp")
	svixSignature := c.GetHeader("svix-signature")
	if svixID == "" || svixTimestamp == "" || svixSignature == "" {
		helpers.RespondWithError(c, http.StatusBadRequest, "authentication", "Missing svix headers.")
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Unable to read webhook body.")
		return
	}

	var envelope clerkEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Unable to parse webhook body.")
		return
	}

	wh, err := svix.NewWebhook(secret)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "WEBHOOK_SECRET is malformed.")
		return
	}
	if err := wh.Verify(body, c.Request.Header); err != nil {
		log.Printf("webhook verification failed: %v", err)
		helpers.RespondWithError(c, http.StatusBadRequest, "authentication", "Webhook verification failed.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "configuration", "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var revalidator services.Revalidator = noopRevalidator{}
	if store := middleware.GetCacheStore(c); store != nil {
		revalidator = store
	}
	svc := services.NewUserService(gormDB, revalidator)

	ctx, cancel := context.WithTimeout(c.Request.Context(), webhookTimeout)
	defer cancel()

	switch envelope.Type {
	case "user.created":
		var data clerkUserData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Malformed user payload.")
			return
		}
		user, err := svc.CreateUser(ctx, services.CreateUserInput{
			ClerkID:   data.ID,
			Email:     data.primaryEmail(),
			Username:  data.Username,
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Photo:     data.ImageURL,
		})
		if err != nil {
			respondLifecycleError(c, envelope.Type, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User created", "user": user})

	case "user.updated":
		var data clerkUserData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Malformed user payload.")
			return
		}
		user, err := svc.UpdateUser(ctx, data.ID, services.UpdateUserInput{
			Email:     data.primaryEmail(),
			Username:  data.Username,
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Photo:     data.ImageURL,
		})
		if err != nil {
			respondLifecycleError(c, envelope.Type, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": user})

	case "user.deleted":
		var data clerkUserData
		if err := json.Unmarshal(envelope.Data, &data); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "validation", "Malformed user payload.")
			return
		}
		user, err := svc.DeleteUser(ctx, data.ID)
		if err != nil {
			// Redelivery of an already-processed deletion must converge, so
			// the absent user acks with a distinct body instead of erroring.
			if errors.Is(err, apperror.ErrNotFound) {
				c.JSON(http.StatusOK, gin.H{"message": "User already deleted", "code": "not_found"})
				return
			}
			respondLifecycleError(c, envelope.Type, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted", "user": user})

	default:
		// The provider sends kinds this system does not act on.
		c.JSON(http.StatusOK, gin.H{"message": "Unhandled event type"})
	}
}

func respondLifecycleError(c *gin.Context, eventType string, err error) {
	log.Printf("webhook %s failed: %v", eventType, err)
	if errors.Is(err, apperror.ErrValidation) {
		helpers.RespondWithAppError(c, http.StatusBadRequest, err)
		return
	}
	helpers.RespondWithAppError(c, http.StatusInternalServerError, err)
}
