package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietharvest/agrichat/backend"
)

func TestCatalogRegistersAllTools(t *testing.T) {
	catalog := NewCatalog(backend.NewClient("http://localhost:5000/api", "", time.Second))

	defs := catalog.Definitions()
	want := []string{"search_products", "get_product_detail", "get_user_cart", "add_product_to_cart"}
	if len(defs) != len(want) {
		t.Fatalf("expected %d tools, got %d", len(want), len(defs))
	}
	for i, name := range want {
		if defs[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, defs[i].Name)
		}
	}
}

func TestCatalogSearchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"p1","name":"Bí Giọt Nước"}]}`)
	}))
	defer server.Close()

	catalog := NewCatalog(backend.NewClient(server.URL, "", time.Second))
	out, err := catalog.Execute(context.Background(), "search_products", json.RawMessage(`{"query":"bí giọt nước"}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var products []map[string]any
	if err := json.Unmarshal(out, &products); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if len(products) != 1 || products[0]["name"] != "Bí Giọt Nước" {
		t.Fatalf("unexpected output: %s", out)
	}
}

func TestCatalogBackendFailureReturnsErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	catalog := NewCatalog(backend.NewClient(server.URL, "", time.Second))
	out, err := catalog.Execute(context.Background(), "search_products", json.RawMessage(`{"query":"gạo"}`))
	if err != nil {
		t.Fatalf("backend failure must not propagate, got: %v", err)
	}

	var payload map[string]string
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload["error"] == "" {
		t.Fatalf("expected error payload, got %s", out)
	}
}

func TestCatalogInvalidArgumentsAreErrors(t *testing.T) {
	catalog := NewCatalog(backend.NewClient("http://localhost:5000/api", "", time.Second))
	if _, err := catalog.Execute(context.Background(), "add_product_to_cart", json.RawMessage(`not json`)); err == nil {
		t.Fatalf("expected argument error")
	}
}

func TestCatalogAddProductToCart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"items":[{"productId":"p1","quantity":2}]}}`)
	}))
	defer server.Close()

	catalog := NewCatalog(backend.NewClient(server.URL, "key", time.Second))
	out, err := catalog.Execute(context.Background(), "add_product_to_cart",
		json.RawMessage(`{"user_id":"u1","product_id":"p1","quantity":2}`))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	var cart map[string]any
	if err := json.Unmarshal(out, &cart); err != nil {
		t.Fatalf("decode cart: %v", err)
	}
	if cart["items"] == nil {
		t.Fatalf("unexpected cart: %s", out)
	}
}
