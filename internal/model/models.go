package model

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&AdminUser{},
		&Product{},
		&Customer{},
		&StockIn{},
		&SaleOrder{},
		&SaleOrderItem{},
		&Maintenance{},
	}
}
