package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fridgelens/backend/internal/api"
	"github.com/fridgelens/backend/internal/model"
	"github.com/fridgelens/backend/internal/router"
	"github.com/fridgelens/backend/internal/service"
	"github.com/fridgelens/backend/internal/testutil/mocks"
)

type app struct {
	router     *gin.Engine
	identifier *mocks.MockIngredientIdentifier
	generator  *mocks.MockRecipeGenerator
	imager     *mocks.MockDishImageGenerator
	translator *mocks.MockTranslator
	store      *mocks.InMemorySnapshotStore
}

func setupApp(t *testing.T) *app {
	gin.SetMode(gin.TestMode)

	a := &app{
		identifier: new(mocks.MockIngredientIdentifier),
		generator:  new(mocks.MockRecipeGenerator),
		imager:     new(mocks.MockDishImageGenerator),
		translator: new(mocks.MockTranslator),
		store:      mocks.NewInMemorySnapshotStore(),
	}

	logger := zap.NewNop()
	batch := service.NewBatchService(a.generator, a.imager, logger).WithSleeper(mocks.NopSleeper{})

	a.router = router.SetupRouter(router.Handlers{
		Ingredients: api.NewIngredientHandler(a.identifier, logger),
		Generate:    api.NewGenerateHandler(batch, a.store, logger),
		Feasibility: api.NewFeasibilityHandler(),
		Translate:   api.NewTranslateHandler(a.translator, logger),
	}, logger)

	return a
}

func (a *app) postJSON(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	a.router.ServeHTTP(w, req)
	return w
}

func (a *app) getJSON(t *testing.T, path string, out any) int {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	a.router.ServeHTTP(w, req)
	if out != nil && w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

// TestPhotoToRecipesFlow walks the full user journey: photos in, pantry out,
// batch generation with polling, feasibility checks on a result, then more
// recipes on top.
func TestPhotoToRecipesFlow(t *testing.T) {
	a := setupApp(t)

	pantry := []model.AvailableIngredient{
		{Name: "eggs", Quantity: 6, Unit: "pieces"},
		{Name: "flour", Quantity: 500, Unit: "g"},
		{Name: "milk", Quantity: 1, Unit: "l"},
	}

	// Step 1: identify ingredients from a photo.
	a.identifier.On("IdentifyIngredients", mock.Anything, mock.Anything).Return(pantry, nil)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("images", "fridge.png")
	require.NoError(t, err)
	_, err = part.Write([]byte{0x89, 0x50, 0x4E, 0x47})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/ingredients/identify", buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var identified struct {
		Ingredients []model.AvailableIngredient `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &identified))
	require.Len(t, identified.Ingredients, 3)

	// Step 2: start a batch from the identified pantry.
	pancakes := model.Recipe{
		Name:        "Pancakes",
		Description: "Fluffy breakfast pancakes",
		Ingredients: []model.Ingredient{
			{Name: "egg", Quantity: 1, Unit: "pieces"},
			{Name: "flour", Quantity: 100, Unit: "g"},
			{Name: "milk", Quantity: 0.2, Unit: "l"},
		},
		Instructions: []string{"mix", "fry"},
	}
	truffleRisotto := model.Recipe{
		Name:        "Truffle Risotto",
		Description: "Needs ingredients the fridge does not have",
		Ingredients: []model.Ingredient{
			{Name: "truffle", Quantity: 10, Unit: "g"},
		},
		Instructions: []string{"cook"},
	}
	a.generator.On("GenerateRecipes", mock.Anything, mock.MatchedBy(func(r service.GenerateRecipesRequest) bool {
		return len(r.ExcludeNames) == 0
	})).Return([]model.Recipe{pancakes, truffleRisotto}, nil).Once()
	a.imager.On("GenerateDishImage", mock.Anything, mock.Anything, mock.Anything).Return("data:image/png;base64,img", nil)

	w = a.postJSON(t, "/api/v1/recipes/generate", gin.H{
		"pantry": identified.Ingredients,
		"count":  2,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var started struct {
		BatchID string `json:"batch_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	// Step 3: poll until complete. The infeasible candidate must have been
	// filtered out.
	var batch struct {
		State   string         `json:"state"`
		Recipes []model.Recipe `json:"recipes"`
	}
	require.Eventually(t, func() bool {
		code := a.getJSON(t, "/api/v1/recipes/batches/"+started.BatchID, &batch)
		return code == http.StatusOK && batch.State == "complete"
	}, 5*time.Second, 10*time.Millisecond)

	require.Len(t, batch.Recipes, 1)
	assert.Equal(t, "Pancakes", batch.Recipes[0].Name)
	assert.NotEmpty(t, batch.Recipes[0].ImageURL)

	// Step 4: feasibility on the surviving recipe.
	w = a.postJSON(t, "/api/v1/feasibility/servings", gin.H{
		"ingredients": batch.Recipes[0].Ingredients,
		"pantry":      identified.Ingredients,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var servings struct {
		MaxServings int `json:"max_servings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &servings))
	assert.Equal(t, 5, servings.MaxServings) // bounded by 500 g flour at 100 g per serving

	w = a.postJSON(t, "/api/v1/feasibility/shopping-list", gin.H{
		"ingredients": batch.Recipes[0].Ingredients,
		"pantry":      identified.Ingredients,
		"servings":    8,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Items []model.ShoppingListItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	// 8 servings: eggs 8 of 6 short by 2, flour 800 g of 500 g short by 300,
	// milk 1.6 l of 1 l short by 0.6.
	require.Len(t, list.Items, 3)

	// Step 5: generate more, excluding what the batch already has.
	frittata := model.Recipe{
		Name:        "Frittata",
		Description: "Oven-baked eggs",
		Ingredients: []model.Ingredient{
			{Name: "egg", Quantity: 2, Unit: "pieces"},
		},
		Instructions: []string{"bake"},
	}
	a.generator.On("GenerateRecipes", mock.Anything, mock.MatchedBy(func(r service.GenerateRecipesRequest) bool {
		return len(r.ExcludeNames) == 1 && r.ExcludeNames[0] == "Pancakes"
	})).Return([]model.Recipe{frittata}, nil).Once()

	w = a.postJSON(t, "/api/v1/recipes/generate-more", gin.H{
		"batch_id": started.BatchID,
		"pantry":   identified.Ingredients,
		"count":    1,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		code := a.getJSON(t, "/api/v1/recipes/batches/"+started.BatchID, &batch)
		return code == http.StatusOK && batch.State == "complete" && len(batch.Recipes) == 2
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, "Pancakes", batch.Recipes[0].Name)
	assert.Equal(t, "Frittata", batch.Recipes[1].Name)

	// Step 6: the store received every intermediate snapshot in order.
	var states []service.BatchState
	for _, s := range a.store.History() {
		states = append(states, s.State)
	}
	assert.Contains(t, states, service.BatchStateGeneratingText)
	assert.Contains(t, states, service.BatchStateGeneratingImages)
	assert.Equal(t, service.BatchStateComplete, states[len(states)-1])
}

func TestNoFeasibleRecipesFlow(t *testing.T) {
	a := setupApp(t)

	a.generator.On("GenerateRecipes", mock.Anything, mock.Anything).Return([]model.Recipe{{
		Name:        "Impossible",
		Ingredients: []model.Ingredient{{Name: "unicorn meat", Quantity: 1, Unit: "kg"}},
	}}, nil)

	w := a.postJSON(t, "/api/v1/recipes/generate", gin.H{
		"pantry": []gin.H{{"name": "eggs", "quantity": 2, "unit": "pieces"}},
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	var started struct {
		BatchID string `json:"batch_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	require.Eventually(t, func() bool {
		snap, err := a.store.Get(context.Background(), started.BatchID)
		return err == nil && snap.State == service.BatchStateNoFeasible
	}, 5*time.Second, 10*time.Millisecond)

	w = httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/recipes/batches/"+started.BatchID, nil)
	a.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "no_feasible_recipes")
	assert.Contains(t, w.Body.String(), "No recipes are possible")
}

func TestHealthEndpoint(t *testing.T) {
	a := setupApp(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	a.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
