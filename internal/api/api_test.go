package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/forkful/forkful-backend/config"
	"github.com/forkful/forkful-backend/internal/models"
	"github.com/forkful/forkful-backend/internal/server"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/testhelpers"
)

const testPassword = "correct-horse-battery"

func setupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	return setupTestServerWith(t, nil)
}

func setupTestServerWith(t *testing.T, images service.ImageUploader) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	cfg := &config.Config{
		ServerHost: "127.0.0.1",
		ServerPort: "0",
		JWTSecret:  "test-secret-test-secret",
	}
	srv := server.New(cfg, db, nil, images)
	return srv.Engine(), db
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

// registerUser signs a user up through the API and returns their token.
func registerUser(t *testing.T, engine *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, engine, "POST", "/api/v1/auth/register", "", map[string]interface{}{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())
	return decodeBody(t, w)["token"].(string)
}

// registerAdmin signs up through the API, flips the admin flag, and logs in
// again so the fresh token carries the flag.
func registerAdmin(t *testing.T, engine *gin.Engine, db *gorm.DB, username string) string {
	t.Helper()

	registerUser(t, engine, username)
	err := db.Model(&models.User{}).Where("username = ?", username).Update("is_admin", true).Error
	require.NoError(t, err)

	w := doJSON(t, engine, "POST", "/api/v1/auth/login", "", map[string]interface{}{
		"email":    username + "@example.com",
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return decodeBody(t, w)["token"].(string)
}

func seedCatalog(t *testing.T, db *gorm.DB) (models.Tag, models.Ingredient) {
	t.Helper()
	tag := testhelpers.CreateTag(t, db, "Dinner", "#8775D2", "dinner")
	ingredient := testhelpers.CreateIngredient(t, db, "Salt", "g")
	return tag, ingredient
}

func recipePayload(tag models.Tag, ingredient models.Ingredient) map[string]interface{} {
	return map[string]interface{}{
		"name":         "Test Recipe",
		"text":         "Mix everything.",
		"cooking_time": 10,
		"tags":         []string{tag.ID.String()},
		"ingredients": []map[string]interface{}{
			{"id": ingredient.ID.String(), "amount": 5},
		},
	}
}

func createRecipe(t *testing.T, engine *gin.Engine, token string, payload map[string]interface{}) string {
	t.Helper()
	w := doJSON(t, engine, "POST", "/api/v1/recipes", token, payload)
	require.Equal(t, http.StatusCreated, w.Code, "create recipe: %s", w.Body.String())
	return decodeBody(t, w)["id"].(string)
}

func recipePath(id string, parts ...string) string {
	path := "/api/v1/recipes/" + id
	for _, p := range parts {
		path += "/" + p
	}
	return path
}
