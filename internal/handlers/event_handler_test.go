package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abdisalan-Osman/evently/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-session-secret"

func sessionToken(t *testing.T, clerkID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": clerkID,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func seedUser(t *testing.T, db *gorm.DB, clerkID string) *models.User {
	t.Helper()
	user := models.User{
		ClerkID:   clerkID,
		Email:     clerkID + "@b.com",
		Username:  clerkID,
		FirstName: "A",
		LastName:  "B",
		Photo:     "http://x/y.png",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func authorizedJSONRequest(t *testing.T, method, target, clerkID string, payload interface{}) *http.Request {
	t.Helper()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, target, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, clerkID))
	return req
}

func TestCreateEvent(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, _ := setupRouter(t)
	seedUser(t, db, "u1")

	payload := gin.H{
		"title":    "Go Conf",
		"imageUrl": "http://x/go.png",
		"isFree":   true,
		"location": "Online",
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPost, "/v1/events", "u1", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	var event models.Event
	require.NoError(t, db.Where("title = ?", "Go Conf").First(&event).Error)
	assert.True(t, event.IsFree)
	require.NotNil(t, event.OrganizerID)

	// Unspecified dates default to creation time.
	assert.False(t, event.StartDate.IsZero())
	assert.False(t, event.EndDate.IsZero())
}

func TestCreateEventUnknownOrganizer(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, _, _ := setupRouter(t)

	payload := gin.H{"title": "Go Conf", "imageUrl": "http://x/go.png"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPost, "/v1/events", "ghost", payload))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateEventDuplicateTitle(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, _ := setupRouter(t)
	seedUser(t, db, "u1")

	payload := gin.H{"title": "Go Conf", "imageUrl": "http://x/go.png"}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPost, "/v1/events", "u1", payload))
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPost, "/v1/events", "u1", payload))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"conflict"`)
}

func TestCreateEventMissingRequiredFields(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, _ := setupRouter(t)
	seedUser(t, db, "u1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPost, "/v1/events", "u1", gin.H{"title": "No image"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEventUnauthenticated(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/events", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListEventsCachesFirstPage(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, store := setupRouter(t)
	user := seedUser(t, db, "u1")

	event := models.Event{Title: "E1", ImageURL: "http://x/e1.png", OrganizerID: &user.ID}
	require.NoError(t, db.Create(&event).Error)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	require.Equal(t, http.StatusOK, w.Code)

	cached, ok := store.Get("/")
	require.True(t, ok)
	assert.Contains(t, string(cached), "E1")

	// The cached body is what later requests receive.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(cached), w.Body.String())
}

func TestUpdateEventOwnership(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, _ := setupRouter(t)
	owner := seedUser(t, db, "u1")
	seedUser(t, db, "u2")

	event := models.Event{Title: "E1", ImageURL: "http://x/e1.png", OrganizerID: &owner.ID}
	require.NoError(t, db.Create(&event).Error)

	payload := gin.H{"title": "E1 renamed", "imageUrl": "http://x/e1.png"}

	// A different user cannot update the event.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPut, "/v1/events/"+event.ID.String(), "u2", payload))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, authorizedJSONRequest(t, http.MethodPut, "/v1/events/"+event.ID.String(), "u1", payload))
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Event
	require.NoError(t, db.First(&updated, "id = ?", event.ID).Error)
	assert.Equal(t, "E1 renamed", updated.Title)
}

func TestDeleteEvent(t *testing.T) {
	t.Setenv("JWT_SECRET", testJWTSecret)
	r, db, _ := setupRouter(t)
	owner := seedUser(t, db, "u1")

	event := models.Event{Title: "E1", ImageURL: "http://x/e1.png", OrganizerID: &owner.ID}
	require.NoError(t, db.Create(&event).Error)

	req := httptest.NewRequest(http.MethodDelete, "/v1/events/"+event.ID.String(), nil)
	req.Header.Set("Authorization", "Bearer "+sessionToken(t, "u1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	err := db.First(&models.Event{}, "id = ?", event.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
