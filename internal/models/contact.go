package models

// SupplierModel is a vendor items are purchased from.
type SupplierModel struct {
	Base
	Contact
}

func (SupplierModel) TableName() string { return "suppliers" }

// ClientModel is a customer orders are placed for.
type ClientModel struct {
	Base
	Contact
}

func (ClientModel) TableName() string { return "clients" }
