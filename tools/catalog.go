package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/vietharvest/agrichat/backend"
)

// NewCatalog builds the registry of backend-proxy tools. Backend failures
// are converted to an {"error": ...} payload returned to the model rather
// than propagated, so the model can react to them in natural language.
func NewCatalog(client *backend.Client) *Registry {
	r := NewRegistry()

	r.MustRegister(Definition{
		Name:        "search_products",
		Description: "Tìm sản phẩm nông sản theo tên. Trả về danh sách sản phẩm kèm id để lấy chi tiết.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Tên sản phẩm cần tìm",
				},
			},
			"required": []string{"query"},
		},
	}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var params struct {
			Query string `json:"query"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		data, err := client.SearchProducts(ctx, params.Query)
		if err != nil {
			return errorPayload(err), nil
		}
		return data, nil
	})

	r.MustRegister(Definition{
		Name:        "get_product_detail",
		Description: "Lấy chi tiết một sản phẩm theo id.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"product_id": map[string]any{
					"type":        "string",
					"description": "ID của sản phẩm cần lấy chi tiết",
				},
			},
			"required": []string{"product_id"},
		},
	}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var params struct {
			ProductID string `json:"product_id"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		data, err := client.GetProductDetail(ctx, params.ProductID)
		if err != nil {
			return errorPayload(err), nil
		}
		return data, nil
	})

	r.MustRegister(Definition{
		Name:        "get_user_cart",
		Description: "Lấy giỏ hàng của người dùng.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{
					"type":        "string",
					"description": "ID của người dùng",
				},
			},
			"required": []string{"user_id"},
		},
	}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var params struct {
			UserID string `json:"user_id"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		data, err := client.GetUserCart(ctx, params.UserID)
		if err != nil {
			return errorPayload(err), nil
		}
		return data, nil
	})

	r.MustRegister(Definition{
		Name:        "add_product_to_cart",
		Description: "Thêm sản phẩm vào giỏ hàng của người dùng.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"user_id": map[string]any{
					"type":        "string",
					"description": "ID của người dùng",
				},
				"product_id": map[string]any{
					"type":        "string",
					"description": "ID của sản phẩm cần thêm",
				},
				"quantity": map[string]any{
					"type":        "integer",
					"description": "Số lượng sản phẩm cần thêm",
				},
			},
			"required": []string{"user_id", "product_id", "quantity"},
		},
	}, func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
		var params struct {
			UserID    string `json:"user_id"`
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		if err := json.Unmarshal(args, &params); err != nil {
			return nil, fmt.Errorf("invalid arguments: %w", err)
		}
		data, err := client.AddProductToCart(ctx, params.UserID, params.ProductID, params.Quantity)
		if err != nil {
			return errorPayload(err), nil
		}
		return data, nil
	})

	return r
}

func errorPayload(err error) json.RawMessage {
	payload, _ := json.Marshal(map[string]string{"error": err.Error()})
	return payload
}
