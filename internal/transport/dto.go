package transport

import "github.com/kultmet/grocery-store/internal/models"

type EditCartRequest struct {
	Quantity uint `json:"quantity"`
}

type ClearCartResponse struct {
	Removed int64 `json:"removed"`
}

type SearchResponse struct {
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Size  int              `json:"size"`
	Data  []models.Product `json:"data"`
}
