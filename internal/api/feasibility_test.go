package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fridgelens/backend/internal/api"
)

func setupFeasibilityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	v1 := router.Group("/api/v1")
	api.NewFeasibilityHandler().RegisterRoutes(v1)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestFeasibilityHandler_MaxServings(t *testing.T) {
	router := setupFeasibilityRouter()

	t.Run("returns the serving count", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/servings", gin.H{
			"ingredients": []gin.H{
				{"name": "egg", "quantity": 2, "unit": "unit"},
			},
			"pantry": []gin.H{
				{"name": "eggs", "quantity": 6, "unit": "pieces"},
			},
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			MaxServings float64 `json:"max_servings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 3.0, resp.MaxServings)
	})

	t.Run("missing ingredient yields zero servings", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/servings", gin.H{
			"ingredients": []gin.H{
				{"name": "saffron", "quantity": 1, "unit": "g"},
			},
			"pantry": []gin.H{
				{"name": "eggs", "quantity": 6, "unit": "pieces"},
			},
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			MaxServings float64 `json:"max_servings"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0.0, resp.MaxServings)
	})

	t.Run("rejects a body without ingredients", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/servings", gin.H{"pantry": []gin.H{}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFeasibilityHandler_ShoppingList(t *testing.T) {
	router := setupFeasibilityRouter()

	t.Run("returns the items to buy", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/shopping-list", gin.H{
			"ingredients": []gin.H{
				{"name": "Egg", "quantity": 1.5, "unit": "unit"},
			},
			"pantry": []gin.H{
				{"name": "eggs", "quantity": 4, "unit": "pieces"},
			},
			"servings": 4,
		})

		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Items []struct {
				Name        string  `json:"name"`
				AmountToBuy float64 `json:"amount_to_buy"`
				Unit        string  `json:"unit"`
			} `json:"items"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Egg", resp.Items[0].Name)
		assert.Equal(t, 2.0, resp.Items[0].AmountToBuy)
		assert.Equal(t, "unit", resp.Items[0].Unit)
	})

	t.Run("fully covered pantry returns an empty list, not null", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/shopping-list", gin.H{
			"ingredients": []gin.H{
				{"name": "egg", "quantity": 1, "unit": "unit"},
			},
			"pantry": []gin.H{
				{"name": "eggs", "quantity": 10, "unit": "pieces"},
			},
			"servings": 2,
		})

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"items":[]`)
	})

	t.Run("rejects zero servings", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/feasibility/shopping-list", gin.H{
			"ingredients": []gin.H{{"name": "egg", "quantity": 1, "unit": "unit"}},
			"pantry":      []gin.H{},
			"servings":    0,
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
