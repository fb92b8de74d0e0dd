package models

// All lists every persisted model in parent -> child order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Location{},
		&InventoryItem{},
		&Room{},
		&RoomBlock{},
		&StockEntry{},
		&Receipt{},
		&ReceiptLine{},
		&RatePlan{},
		&Rate{},
		&Guest{},
		&Reservation{},
		&RoomCharge{},
		&Payment{},
	}
}
