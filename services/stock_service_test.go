package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"hotel-pms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAndRemoveStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	entry, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, entry.Quantity)

	entry, err = f.stock.AddStock(ctx, cola.ID, f.central.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, entry.Quantity)

	entry, err = f.stock.RemoveStock(ctx, cola.ID, f.central.ID, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Quantity)
}

func TestRemoveStockInsufficient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")
	shelf := f.location(t, "Shelf")

	tests := []struct {
		name      string
		seed      int
		remove    int
		available int
	}{
		{name: "no entry", seed: 0, remove: 1, available: 0},
		{name: "not enough", seed: 2, remove: 3, available: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, f.db.Where("1 = 1").Delete(&models.StockEntry{}).Error)
			if tt.seed > 0 {
				_, err := f.stock.AddStock(ctx, cola.ID, shelf.ID, tt.seed)
				require.NoError(t, err)
			}

			_, err := f.stock.RemoveStock(ctx, cola.ID, shelf.ID, tt.remove)
			require.ErrorIs(t, err, ErrInsufficientStock)

			var short *InsufficientStockError
			require.True(t, errors.As(err, &short))
			assert.Equal(t, tt.available, short.Available)
			assert.Equal(t, tt.remove-tt.available, short.Short())
			assert.Equal(t, tt.seed, f.quantity(t, cola.ID, shelf.ID))
		})
	}
}

func TestStockRejectsNonPositiveQuantity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	for _, qty := range []int{0, -1} {
		_, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, qty)
		assert.ErrorIs(t, err, ErrValidation)
		_, err = f.stock.RemoveStock(ctx, cola.ID, f.central.ID, qty)
		assert.ErrorIs(t, err, ErrValidation)
	}
}

func TestAddStockUnknownReferences(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	_, err := f.stock.AddStock(ctx, 999, f.central.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.stock.AddStock(ctx, cola.ID, 999, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTransferConservesTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")
	a := f.location(t, "A")
	b := f.location(t, "B")

	_, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, 30)
	require.NoError(t, err)

	moves := []TransferInput{
		{ItemID: cola.ID, Quantity: 10, SourceLocationID: f.central.ID, DestinationLocationID: a.ID},
		{ItemID: cola.ID, Quantity: 4, SourceLocationID: a.ID, DestinationLocationID: b.ID},
		{ItemID: cola.ID, Quantity: 15, SourceLocationID: f.central.ID, DestinationLocationID: b.ID},
		{ItemID: cola.ID, Quantity: 19, SourceLocationID: b.ID, DestinationLocationID: a.ID},
		{ItemID: cola.ID, Quantity: 50, SourceLocationID: a.ID, DestinationLocationID: b.ID},
	}
	for _, m := range moves {
		_, _ = f.stock.TransferStock(ctx, m)

		total, err := f.inventory.StockForItem(ctx, cola.ID)
		require.NoError(t, err)
		assert.Equal(t, 30, total.Total)
	}
	assert.Equal(t, 5, f.quantity(t, cola.ID, f.central.ID))
	assert.Equal(t, 25, f.quantity(t, cola.ID, a.ID))
	assert.Equal(t, 0, f.quantity(t, cola.ID, b.ID))
}

func TestFailedTransferLeavesStockUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")
	dest := f.location(t, "Dest")

	_, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, 3)
	require.NoError(t, err)
	_, err = f.stock.AddStock(ctx, cola.ID, dest.ID, 2)
	require.NoError(t, err)

	_, err = f.stock.TransferStock(ctx, TransferInput{
		ItemID: cola.ID, Quantity: 4, SourceLocationID: f.central.ID, DestinationLocationID: dest.ID,
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, f.quantity(t, cola.ID, f.central.ID))
	assert.Equal(t, 2, f.quantity(t, cola.ID, dest.ID))
}

func TestTransferRollsBackWhenDestinationMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	_, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, 3)
	require.NoError(t, err)

	_, err = f.stock.TransferStock(ctx, TransferInput{
		ItemID: cola.ID, Quantity: 2, SourceLocationID: f.central.ID, DestinationLocationID: 999,
	})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 3, f.quantity(t, cola.ID, f.central.ID))
}

func TestTransferSameLocation(t *testing.T) {
	f := newFixture(t)
	cola := f.item(t, "Cola", "50")

	_, err := f.stock.TransferStock(context.Background(), TransferInput{
		ItemID: cola.ID, Quantity: 1, SourceLocationID: f.central.ID, DestinationLocationID: f.central.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidTransfer)
}

func TestConcurrentRemovalsNeverGoNegative(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	_, err := f.stock.AddStock(ctx, cola.ID, f.central.ID, 5)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.stock.RemoveStock(ctx, cola.ID, f.central.ID, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, fail)
	assert.Equal(t, 0, f.quantity(t, cola.ID, f.central.ID))
}

func TestReceiveGoods(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")
	chips := f.item(t, "Chips", "30")

	receipt, err := f.stock.ReceiveGoods(ctx, "Acme Drinks", []ReceiptLineInput{
		{ItemID: cola.ID, Quantity: 24},
		{ItemID: chips.ID, Quantity: 10},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.Reference)
	assert.Equal(t, "Acme Drinks", receipt.Supplier)
	require.Len(t, receipt.Lines, 2)
	assert.Equal(t, "Cola", receipt.Lines[0].Item.Name)

	assert.Equal(t, 24, f.quantity(t, cola.ID, f.central.ID))
	assert.Equal(t, 10, f.quantity(t, chips.ID, f.central.ID))
}

func TestReceiveGoodsIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")
	chips := f.item(t, "Chips", "30")

	valid := []ReceiptLineInput{{ItemID: cola.ID, Quantity: 6}, {ItemID: chips.ID, Quantity: 4}}
	for k := 0; k <= len(valid); k++ {
		lines := make([]ReceiptLineInput, 0, len(valid)+1)
		lines = append(lines, valid[:k]...)
		lines = append(lines, ReceiptLineInput{ItemID: 999, Quantity: 1})
		lines = append(lines, valid[k:]...)

		_, err := f.stock.ReceiveGoods(ctx, "Acme", lines)
		require.ErrorIs(t, err, ErrNotFound, "unknown item at line %d", k)

		var receipts int64
		require.NoError(t, f.db.Model(&models.Receipt{}).Count(&receipts).Error)
		var lineCount int64
		require.NoError(t, f.db.Model(&models.ReceiptLine{}).Count(&lineCount).Error)
		assert.Zero(t, receipts)
		assert.Zero(t, lineCount)
		assert.Equal(t, 0, f.quantity(t, cola.ID, f.central.ID))
		assert.Equal(t, 0, f.quantity(t, chips.ID, f.central.ID))
	}
}

func TestReceiveGoodsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cola := f.item(t, "Cola", "50")

	_, err := f.stock.ReceiveGoods(ctx, " ", []ReceiptLineInput{{ItemID: cola.ID, Quantity: 1}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.stock.ReceiveGoods(ctx, "Acme", nil)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = f.stock.ReceiveGoods(ctx, "Acme", []ReceiptLineInput{{ItemID: cola.ID, Quantity: 0}})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCentralStorageIsTheSeededLocation(t *testing.T) {
	h := newHotel(t)

	loc, err := h.stock.CentralStorage(context.Background())
	require.NoError(t, err)
	assert.Equal(t, h.central.ID, loc.ID)
	assert.Equal(t, models.CentralStorageName, loc.Name)
}
