package dto

// SupplierForm is bound from the supplier create/edit form and from JSON.
type SupplierForm struct {
	ID            string `form:"id"            json:"id"             validate:"omitempty,uuid"`
	Name          string `form:"name"          json:"name"           validate:"required,max=255"`
	ContactPerson string `form:"contactPerson" json:"contact_person" validate:"max=255"`
	Email         string `form:"email"         json:"email"          validate:"omitempty,email"`
	Phone         string `form:"phone"         json:"phone"          validate:"max=50"`
	Address       string `form:"address"       json:"address"`
	City          string `form:"city"          json:"city"           validate:"max=120"`
	Country       string `form:"country"       json:"country"        validate:"max=120"`
	SupplierCode  string `form:"supplierCode"  json:"supplier_code"  validate:"max=50"`
	Active        bool   `form:"active"        json:"active"`
}

// SupplierFilter narrows supplier listings. Status is "active", "inactive" or empty.
type SupplierFilter struct {
	Search  string `form:"search"`
	Status  string `form:"status"  validate:"omitempty,oneof=active inactive"`
	Country string `form:"country"`
}

type SupplierResponse struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	City          *string `json:"city"`
	Country       *string `json:"country"`
	SupplierCode  *string `json:"supplier_code"`
	IsActive      bool    `json:"is_active"`
	ProductCount  int64   `json:"product_count"`
	CreatedAt     string  `json:"created_at"`
}

type SupplierStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}
