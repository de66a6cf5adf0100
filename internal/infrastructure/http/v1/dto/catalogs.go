package dto

import (
	"bookstock/internal/core/types"
	"bookstock/internal/domain/catalogs/item"
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/domain/catalogs/supplier"
)

// --- Items ---

// CreateItemRequest for creating items. Code is optional: an empty code
// is generated from the BK sequence.
type CreateItemRequest struct {
	Code         string      `json:"code"`
	Name         string      `json:"name" binding:"required"`
	ClassLevel   string      `json:"classLevel"`
	Subject      string      `json:"subject"`
	UnitPrice    types.Money `json:"unitPrice"`
	UnitCost     types.Money `json:"unitCost"`
	MinStock     int         `json:"minStock"`
	SupplierName string      `json:"supplierName"`
}

// ToEntity converts the request to a domain entity. Items start at zero
// stock; quantity enters only through stock adjustments and supply
// receipts, so the ledger stays authoritative.
func (r CreateItemRequest) ToEntity() *item.Item {
	it := item.New(r.Code, r.Name, r.UnitPrice, r.UnitCost)
	it.ClassLevel = r.ClassLevel
	it.Subject = r.Subject
	it.MinStock = r.MinStock
	it.SupplierName = r.SupplierName
	return it
}

// UpdateItemRequest for updating items. Nil fields keep current values.
// Stock quantity is deliberately absent: it changes only through
// purchases, supply receipts and stock adjustments.
type UpdateItemRequest struct {
	Name         *string      `json:"name"`
	ClassLevel   *string      `json:"classLevel"`
	Subject      *string      `json:"subject"`
	UnitPrice    *types.Money `json:"unitPrice"`
	UnitCost     *types.Money `json:"unitCost"`
	MinStock     *int         `json:"minStock"`
	SupplierName *string      `json:"supplierName"`
}

// ApplyTo applies non-nil fields to the entity.
func (r UpdateItemRequest) ApplyTo(it *item.Item) {
	if r.Name != nil {
		it.Name = *r.Name
	}
	if r.ClassLevel != nil {
		it.ClassLevel = *r.ClassLevel
	}
	if r.Subject != nil {
		it.Subject = *r.Subject
	}
	if r.UnitPrice != nil {
		it.UnitPrice = *r.UnitPrice
	}
	if r.UnitCost != nil {
		it.UnitCost = *r.UnitCost
	}
	if r.MinStock != nil {
		it.MinStock = *r.MinStock
	}
	if r.SupplierName != nil {
		it.SupplierName = *r.SupplierName
	}
}

// --- Students ---

// CreateStudentRequest for creating students.
type CreateStudentRequest struct {
	Code          string `json:"code"`
	Name          string `json:"name" binding:"required"`
	ClassLevel    string `json:"classLevel"`
	GuardianName  string `json:"guardianName"`
	GuardianPhone string `json:"guardianPhone"`
	Email         string `json:"email"`
}

// ToEntity converts the request to a domain entity.
func (r CreateStudentRequest) ToEntity() *student.Student {
	s := student.New(r.Code, r.Name, r.ClassLevel)
	s.GuardianName = r.GuardianName
	s.GuardianPhone = r.GuardianPhone
	s.Email = r.Email
	return s
}

// UpdateStudentRequest for updating students.
type UpdateStudentRequest struct {
	Name          *string `json:"name"`
	ClassLevel    *string `json:"classLevel"`
	GuardianName  *string `json:"guardianName"`
	GuardianPhone *string `json:"guardianPhone"`
	Email         *string `json:"email"`
}

// ApplyTo applies non-nil fields to the entity.
func (r UpdateStudentRequest) ApplyTo(s *student.Student) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.ClassLevel != nil {
		s.ClassLevel = *r.ClassLevel
	}
	if r.GuardianName != nil {
		s.GuardianName = *r.GuardianName
	}
	if r.GuardianPhone != nil {
		s.GuardianPhone = *r.GuardianPhone
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
}

// --- Suppliers ---

// CreateSupplierRequest for creating suppliers.
type CreateSupplierRequest struct {
	Code        string `json:"code"`
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// ToEntity converts the request to a domain entity.
func (r CreateSupplierRequest) ToEntity() *supplier.Supplier {
	s := supplier.New(r.Code, r.Name)
	s.ContactName = r.ContactName
	s.Phone = r.Phone
	s.Email = r.Email
	s.Address = r.Address
	return s
}

// UpdateSupplierRequest for updating suppliers.
type UpdateSupplierRequest struct {
	Name        *string `json:"name"`
	ContactName *string `json:"contactName"`
	Phone       *string `json:"phone"`
	Email       *string `json:"email"`
	Address     *string `json:"address"`
}

// ApplyTo applies non-nil fields to the entity.
func (r UpdateSupplierRequest) ApplyTo(s *supplier.Supplier) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.ContactName != nil {
		s.ContactName = *r.ContactName
	}
	if r.Phone != nil {
		s.Phone = *r.Phone
	}
	if r.Email != nil {
		s.Email = *r.Email
	}
	if r.Address != nil {
		s.Address = *r.Address
	}
}
