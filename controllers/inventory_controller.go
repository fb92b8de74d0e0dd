package controllers

import (
	"net/http"

	"hotel-pms/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createItemRequest struct {
	Name        string          `json:"name" binding:"required,max=255"`
	Description string          `json:"description" binding:"max=1000"`
	Price       decimal.Decimal `json:"price"`
}

type stockChangeRequest struct {
	ItemID     uint `json:"item_id" binding:"required,gt=0"`
	LocationID uint `json:"location_id" binding:"required,gt=0"`
	Quantity   int  `json:"quantity" binding:"required,gt=0"`
}

type transferRequest struct {
	ItemID                uint `json:"item_id" binding:"required,gt=0"`
	Quantity              int  `json:"quantity" binding:"required,gt=0"`
	SourceLocationID      uint `json:"source_location_id" binding:"required,gt=0"`
	DestinationLocationID uint `json:"destination_location_id" binding:"required,gt=0"`
}

type receiptLineRequest struct {
	ItemID   uint `json:"item_id" binding:"required,gt=0"`
	Quantity int  `json:"quantity" binding:"required,gt=0"`
}

type receiptRequest struct {
	Supplier string               `json:"supplier" binding:"required,max=255"`
	Items    []receiptLineRequest `json:"items" binding:"required,min=1,dive"`
}

type InventoryController struct {
	Inventory *services.InventoryService
	Stock     *services.StockService
}

func NewInventoryController(inv *services.InventoryService, stock *services.StockService) *InventoryController {
	return &InventoryController{Inventory: inv, Stock: stock}
}

func (ic *InventoryController) CreateItem(c *gin.Context) {
	var req createItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := ic.Inventory.CreateItem(c.Request.Context(), services.ItemInput{
		Name: req.Name, Description: req.Description, Price: req.Price,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (ic *InventoryController) ListItems(c *gin.Context) {
	var p pagination
	if !bindQuery(c, &p) {
		return
	}
	items, err := ic.Inventory.ListItems(c.Request.Context(), p.Offset, p.limit())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ic *InventoryController) GetItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	item, err := ic.Inventory.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ic *InventoryController) ItemStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	stock, err := ic.Inventory.StockForItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stock)
}

func (ic *InventoryController) ListLocations(c *gin.Context) {
	locations, err := ic.Inventory.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

func (ic *InventoryController) CentralStorage(c *gin.Context) {
	loc, err := ic.Stock.CentralStorage(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, loc)
}

func (ic *InventoryController) LocationStock(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	entries, err := ic.Inventory.StockAtLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (ic *InventoryController) AddStock(c *gin.Context) {
	var req stockChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := ic.Stock.AddStock(c.Request.Context(), req.ItemID, req.LocationID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (ic *InventoryController) RemoveStock(c *gin.Context) {
	var req stockChangeRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := ic.Stock.RemoveStock(c.Request.Context(), req.ItemID, req.LocationID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (ic *InventoryController) TransferStock(c *gin.Context) {
	var req transferRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := ic.Stock.TransferStock(c.Request.Context(), services.TransferInput{
		ItemID:                req.ItemID,
		Quantity:              req.Quantity,
		SourceLocationID:      req.SourceLocationID,
		DestinationLocationID: req.DestinationLocationID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (ic *InventoryController) ReceiveGoods(c *gin.Context) {
	var req receiptRequest
	if !bindJSON(c, &req) {
		return
	}
	lines := make([]services.ReceiptLineInput, len(req.Items))
	for i, l := range req.Items {
		lines[i] = services.ReceiptLineInput{ItemID: l.ItemID, Quantity: l.Quantity}
	}
	receipt, err := ic.Stock.ReceiveGoods(c.Request.Context(), req.Supplier, lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

func (ic *InventoryController) ListReceipts(c *gin.Context) {
	var p pagination
	if !bindQuery(c, &p) {
		return
	}
	receipts, err := ic.Stock.ListReceipts(c.Request.Context(), p.Offset, p.limit())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

func (ic *InventoryController) GetReceipt(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	receipt, err := ic.Stock.GetReceipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}
