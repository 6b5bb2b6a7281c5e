package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/princinho/callboard/database"
	"github.com/princinho/callboard/models"
	"github.com/princinho/callboard/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const testSecret = "test-secret"

func setupRouter(stores *database.Stores) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/private", Authorize(stores.Users, stores.Sessions, testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"email":   CurrentUser(c).Email,
			"session": CurrentSession(c).ID.Hex(),
		})
	})
	return r
}

func doRequest(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthorize(t *testing.T) {
	ctx := context.Background()
	stores := database.NewMemoryStores()
	user := &models.User{Email: "test@email.com"}
	_ = stores.Users.Create(ctx, user)
	session, _ := stores.Sessions.Create(ctx, user.ID)

	valid, _ := utils.GenerateToken(user.ID.Hex(), session.ID.Hex(), testSecret, 0)
	unknownUser, _ := utils.GenerateToken(bson.NewObjectID().Hex(), session.ID.Hex(), testSecret, 0)
	unknownSession, _ := utils.GenerateToken(user.ID.Hex(), bson.NewObjectID().Hex(), testSecret, 0)
	badIDs, _ := utils.GenerateToken("nope", "nope", testSecret, 0)
	otherSecret, _ := utils.GenerateToken(user.ID.Hex(), session.ID.Hex(), "other", 0)

	r := setupRouter(stores)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusBadRequest},
		{"garbage", "Bearer qwerty", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"malformed ids", "Bearer " + badIDs, http.StatusUnauthorized},
		{"unknown user", "Bearer " + unknownUser, http.StatusNotFound},
		{"unknown session", "Bearer " + unknownSession, http.StatusNotFound},
		{"valid", "Bearer " + valid, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.header)
			if w.Code != tc.status {
				t.Errorf("Expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthorize_RejectsLoggedOutSession(t *testing.T) {
	ctx := context.Background()
	stores := database.NewMemoryStores()
	user := &models.User{Email: "test@email.com"}
	_ = stores.Users.Create(ctx, user)
	session, _ := stores.Sessions.Create(ctx, user.ID)
	token, _ := utils.GenerateToken(user.ID.Hex(), session.ID.Hex(), testSecret, 0)

	r := setupRouter(stores)
	if w := doRequest(r, "Bearer "+token); w.Code != http.StatusOK {
		t.Fatalf("Expected 200 before logout, got %d", w.Code)
	}

	_ = stores.Sessions.Delete(ctx, session.ID)
	w := doRequest(r, "Bearer "+token)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after logout, got %d", w.Code)
	}
	if w.Body.String() != `{"message":"Invalid session"}` {
		t.Errorf("Unexpected body %s", w.Body.String())
	}
}
