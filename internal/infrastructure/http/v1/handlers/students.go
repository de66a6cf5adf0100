package handlers

import (
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/infrastructure/http/v1/dto"
)

// StudentHandler serves the student catalog.
type StudentHandler struct {
	*CatalogHandler[*student.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest]
}

// NewStudentHandler creates the student handler.
func NewStudentHandler(base *BaseHandler, service *student.Service) *StudentHandler {
	catalog := NewCatalogHandler(base, CatalogHandlerConfig[*student.Student, dto.CreateStudentRequest, dto.UpdateStudentRequest]{
		Service:    service.CatalogService,
		EntityName: "student",
		MapCreateDTO: func(req dto.CreateStudentRequest) *student.Student {
			return req.ToEntity()
		},
		MapUpdateDTO: func(req dto.UpdateStudentRequest, existing *student.Student) *student.Student {
			req.ApplyTo(existing)
			return existing
		},
	})

	return &StudentHandler{CatalogHandler: catalog}
}
