package orderserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invdomain "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/domain"
	invports "github.com/Apurer/go-order-fulfillment/internal/domains/inventory/ports"
	apierrors "github.com/Apurer/go-order-fulfillment/internal/shared/errors"
)

// InventoryReader is the read side of the inventory bounded context.
type InventoryReader interface {
	ListItems(ctx context.Context) ([]*invdomain.Item, error)
	GetItem(ctx context.Context, name string) (*invdomain.Item, error)
}

// InventoryItem is the transport shape of a stocked item.
type InventoryItem struct {
	ItemName    string  `json:"ItemName"`
	Stock       int64   `json:"Stock"`
	Price       float64 `json:"Price"`
	Description string  `json:"Description,omitempty"`
}

func toInventoryItem(item *invdomain.Item) InventoryItem {
	return InventoryItem{
		ItemName:    item.Name,
		Stock:       item.Stock,
		Price:       item.Price.InexactFloat64(),
		Description: item.Description,
	}
}

// InventoryAPI exposes stock levels.
type InventoryAPI struct {
	inventory InventoryReader
}

func NewInventoryAPI(inventory InventoryReader) InventoryAPI {
	return InventoryAPI{inventory: inventory}
}

// Get /v1/inventory
// Returns every stocked item
func (api *InventoryAPI) ListInventory(c *gin.Context) {
	items, err := api.inventory.ListItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]InventoryItem, 0, len(items))
	for _, item := range items {
		out = append(out, toInventoryItem(item))
	}
	c.JSON(http.StatusOK, out)
}

// Get /v1/inventory/:itemName
// Returns the stock level of one item
func (api *InventoryAPI) GetInventoryItem(c *gin.Context) {
	name := c.Param("itemName")
	item, err := api.inventory.GetItem(c.Request.Context(), name)
	if errors.Is(err, invports.ErrNotFound) {
		respondProblem(c, apierrors.NewNotFoundProblem("inventoryItem", name))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInventoryItem(item))
}
