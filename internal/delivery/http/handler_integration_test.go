package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/orderlens/backend/config"
	"github.com/orderlens/backend/internal/infrastructure/cache"
	"github.com/orderlens/backend/internal/infrastructure/store"
	"github.com/orderlens/backend/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*"},
		},
		Classifier: config.ClassifierConfig{
			PermissiveThreshold: 0.5,
			StrictThreshold:     0.7,
		},
		RateLimit: config.RateLimitConfig{PerIP: 1000, Burst: 1000},
	}
}

// setupTestRouter wires the full stack against in-memory infrastructure.
func setupTestRouter() *gin.Engine {
	cfg := testConfig()

	classifier := usecase.NewClassifier(usecase.ClassifierConfig{
		PermissiveThreshold: cfg.Classifier.PermissiveThreshold,
		StrictThreshold:     cfg.Classifier.StrictThreshold,
	})
	extraction := usecase.NewExtractionService(
		cache.NewMemoryCache(),
		store.NewMemoryStore(),
		classifier,
		usecase.ExtractionServiceConfig{},
	)
	fill := usecase.NewFillService(usecase.NewMapperService(usecase.MapperConfig{}), nil, usecase.FillServiceConfig{})

	return SetupRouter(cfg, NewHandler(extraction, fill))
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

const orderPageText = "Order Number: ORD-123456 Total: $49.99 ordered on 12 March 2024 Sold by Acme Corp"

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter()

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("status = %v, want healthy", response["status"])
	}
	if response["service"] != "orderlens-backend" {
		t.Errorf("service = %v, want orderlens-backend", response["service"])
	}
}

func TestClassifyEndpoint(t *testing.T) {
	router := setupTestRouter()

	t.Run("classifies an order page", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/classify", map[string]interface{}{
			"url":  "https://shop.example/orders/1",
			"text": orderPageText,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["isOrderPage"] != true {
			t.Errorf("isOrderPage = %v, want true", response["isOrderPage"])
		}
		if response["source"] != "Engine" {
			t.Errorf("source = %v, want Engine", response["source"])
		}
	})

	t.Run("repeat classify is served from cache", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/classify", map[string]interface{}{
			"url":  "https://shop.example/orders/1",
			"text": orderPageText,
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d", w.Code, http.StatusOK)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response["source"] != "Cache" {
			t.Errorf("source = %v, want Cache", response["source"])
		}
	})

	t.Run("missing text is a bad request", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/classify", map[string]interface{}{"url": "https://x"})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

func TestExtractAndFillFlow(t *testing.T) {
	router := setupTestRouter()

	// 1. Extract from the order page; strict classification stores the record.
	w := postJSON(t, router, "/api/v1/extract", map[string]interface{}{
		"url":  "https://shop.example/orders/1",
		"text": orderPageText,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("extract: Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var extractResponse struct {
		Record struct {
			OrderID    string `json:"orderId"`
			Price      string `json:"price"`
			SellerName string `json:"sellerName"`
		} `json:"record"`
		Classification struct {
			IsOrderPage bool `json:"isOrderPage"`
		} `json:"classification"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &extractResponse); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if extractResponse.Record.OrderID != "ORD-123456" {
		t.Errorf("record.orderId = %q, want ORD-123456", extractResponse.Record.OrderID)
	}
	if !extractResponse.Classification.IsOrderPage {
		t.Error("classification.isOrderPage = false, want true")
	}

	// 2. The stored record is readable.
	getReq := httptest.NewRequest("GET", "/api/v1/records/record:latest", nil)
	getW := httptest.NewRecorder()
	router.ServeHTTP(getW, getReq)
	if getW.Code != http.StatusOK {
		t.Fatalf("get record: Status = %d, want %d", getW.Code, http.StatusOK)
	}

	// 3. Fill a portal form from the stored record.
	formHTML := `
		<input type="text" name="order_id">
		<input type="text" name="price">
		<label for="seller">Seller Name</label>
		<input type="text" id="seller" name="seller_name">`
	fillW := postJSON(t, router, "/api/v1/fill", map[string]interface{}{"formHtml": formHTML})
	if fillW.Code != http.StatusOK {
		t.Fatalf("fill: Status = %d, want %d: %s", fillW.Code, http.StatusOK, fillW.Body.String())
	}

	var fillResponse struct {
		Filled    int                    `json:"filled"`
		Attempted int                    `json:"attempted"`
		Plan      map[string]interface{} `json:"plan"`
	}
	if err := json.Unmarshal(fillW.Body.Bytes(), &fillResponse); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if fillResponse.Filled < 3 {
		t.Errorf("filled = %d, want >= 3: %s", fillResponse.Filled, fillW.Body.String())
	}
	if _, ok := fillResponse.Plan["orderId"]; !ok {
		t.Errorf("plan missing orderId entry: %s", fillW.Body.String())
	}

	// 4. Delete the record; reads then report not found.
	delReq := httptest.NewRequest("DELETE", "/api/v1/records/record:latest", nil)
	delW := httptest.NewRecorder()
	router.ServeHTTP(delW, delReq)
	if delW.Code != http.StatusNoContent {
		t.Fatalf("delete record: Status = %d, want %d", delW.Code, http.StatusNoContent)
	}

	goneW := httptest.NewRecorder()
	router.ServeHTTP(goneW, httptest.NewRequest("GET", "/api/v1/records/record:latest", nil))
	if goneW.Code != http.StatusNotFound {
		t.Errorf("get after delete: Status = %d, want %d", goneW.Code, http.StatusNotFound)
	}
}

func TestFillEndpointValidation(t *testing.T) {
	router := setupTestRouter()

	t.Run("fill without a stored record is not found", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/fill", map[string]interface{}{
			"formHtml": `<input type="text" name="order_id">`,
		})
		if w.Code != http.StatusNotFound {
			t.Errorf("Status = %d, want %d: %s", w.Code, http.StatusNotFound, w.Body.String())
		}
	})

	t.Run("inline record with no candidates is a bad request", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/fill", map[string]interface{}{
			"record": map[string]interface{}{"orderId": "ORD-1"},
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("Status = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})

	t.Run("inline record with inline candidates fills", func(t *testing.T) {
		w := postJSON(t, router, "/api/v1/fill", map[string]interface{}{
			"record": map[string]interface{}{"orderId": "ORD-1"},
			"candidates": []map[string]interface{}{
				{"elementRef": "#order_id", "name": "order_id", "kind": "text-input", "visible": true},
			},
		})
		if w.Code != http.StatusOK {
			t.Fatalf("Status = %d, want %d: %s", w.Code, http.StatusOK, w.Body.String())
		}

		var response struct {
			Filled int `json:"filled"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("Failed to unmarshal response: %v", err)
		}
		if response.Filled != 1 {
			t.Errorf("filled = %d, want 1", response.Filled)
		}
	})
}

func TestNotConfiguredEndpoints(t *testing.T) {
	router := SetupRouter(testConfig(), NewHandler(nil, nil))

	w := postJSON(t, router, "/api/v1/classify", map[string]interface{}{"text": "x"})
	if w.Code != http.StatusNotImplemented {
		t.Errorf("classify: Status = %d, want %d", w.Code, http.StatusNotImplemented)
	}

	w = postJSON(t, router, "/api/v1/fill", map[string]interface{}{"formHtml": "<input>"})
	if w.Code != http.StatusNotImplemented {
		t.Errorf("fill: Status = %d, want %d", w.Code, http.StatusNotImplemented)
	}
}
