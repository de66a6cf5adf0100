package catalog_repo

import (
	"bookstock/internal/domain/catalogs/student"
	"bookstock/internal/infrastructure/storage/postgres"
)

const studentTable = "cat_students"

// StudentRepo implements student.Repository.
type StudentRepo struct {
	*BaseCatalogRepo[*student.Student]
}

var _ student.Repository = (*StudentRepo)(nil)

// NewStudentRepo creates a new student repository.
func NewStudentRepo(txManager *postgres.TxManager) *StudentRepo {
	return &StudentRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			studentTable,
			postgres.ExtractDBColumns[student.Student](),
			func() *student.Student { return &student.Student{} },
		),
	}
}
