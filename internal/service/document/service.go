package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/ems-hr/ems-backend-go/internal/domain/access"
	"github.com/ems-hr/ems-backend-go/internal/domain/document"
	"github.com/ems-hr/ems-backend-go/internal/domain/employee"
	"github.com/ems-hr/ems-backend-go/internal/domain/identity"
	"github.com/ems-hr/ems-backend-go/internal/pkg/refid"
	"github.com/ems-hr/ems-backend-go/internal/pkg/validator"
	"github.com/ems-hr/ems-backend-go/internal/service/file"
)

type EmployeeReader interface {
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
}

type DepartmentNames interface {
	GetNamesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type DesignationTitles interface {
	GetTitlesByIDs(ctx context.Context, ids []int64) (map[int64]string, error)
}

type documentServiceImpl struct {
	allocator    identity.Allocator
	documentRepo document.DocumentRepository
	employees    EmployeeReader
	departments  DepartmentNames
	designations DesignationTitles
	fileService  file.FileService
}

func NewDocumentService(
	allocator identity.Allocator,
	documentRepo document.DocumentRepository,
	employees EmployeeReader,
	departments DepartmentNames,
	designations DesignationTitles,
	fileService file.FileService,
) document.DocumentService {
	return &documentServiceImpl{
		allocator:    allocator,
		documentRepo: documentRepo,
		employees:    employees,
		departments:  departments,
		designations: designations,
		fileService:  fileService,
	}
}

func toResponse(d document.Document) document.DocumentResponse {
	return document.DocumentResponse{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		Department:  d.Department,
		Designation: d.Designation,
		Category:    d.Category,
		FileName:    d.FileName,
		FileURL:     d.FileURL,
		UploadedBy:  d.UploadedBy,
		UploadedAt:  d.UploadedAt,
	}
}

func toResponses(docs []document.Document) []document.DocumentResponse {
	resp := make([]document.DocumentResponse, len(docs))
	for i, d := range docs {
		resp[i] = toResponse(d)
	}
	return resp
}

// Upload implements document.DocumentService.
func (s *documentServiceImpl) Upload(ctx context.Context, req document.UploadDocumentRequest) (document.DocumentResponse, error) {
	p, ok := access.FromContext(ctx)
	if !ok {
		return document.DocumentResponse{}, access.ErrUnauthenticated
	}
	if req.EmployeeID.IsZero() && !p.IsAdmin() {
		req.EmployeeID = refid.ID(p.EmployeeID)
	}
	if _, err := access.Check(ctx, access.DocumentUpload, req.EmployeeID.Int64()); err != nil {
		return document.DocumentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return document.DocumentResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID.Int64())
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return document.DocumentResponse{}, validator.New("employee_id", fmt.Sprintf("employee %d does not exist", req.EmployeeID))
		}
		return document.DocumentResponse{}, err
	}
	departments, err := s.departments.GetNamesByIDs(ctx, []int64{emp.DepartmentID})
	if err != nil {
		return document.DocumentResponse{}, err
	}
	designations, err := s.designations.GetTitlesByIDs(ctx, []int64{emp.DesignationID})
	if err != nil {
		return document.DocumentResponse{}, err
	}

	uploadedBy := req.UploadedBy
	if uploadedBy == "" {
		uploadedBy = p.Email
	}
	doc := document.Document{
		EmployeeID:  emp.ID,
		Department:  departments[emp.DepartmentID],
		Designation: designations[emp.DesignationID],
		Category:    document.Category(req.Category),
		FileName:    req.FileName,
		FileURL:     req.FileURL,
		UploadedBy:  uploadedBy,
	}

	if file.IsDataURL(req.FileURL) {
		stored, err := s.fileService.UploadDocumentDataURL(ctx, emp.ID, req.Category, req.FileURL)
		if err != nil {
			return document.DocumentResponse{}, err
		}
		doc.FileURL = stored.URL
		doc.StoragePath = &stored.Path
	}

	created, err := s.create(ctx, doc)
	if err != nil {
		if doc.StoragePath != nil {
			s.fileService.DeleteFile(context.WithoutCancel(ctx), *doc.StoragePath)
		}
		return document.DocumentResponse{}, fmt.Errorf("failed to save document: %w", err)
	}

	return toResponse(created), nil
}

func (s *documentServiceImpl) create(ctx context.Context, doc document.Document) (document.Document, error) {
	id, err := s.allocator.NextID(ctx, identity.Document)
	if err != nil {
		return document.Document{}, err
	}
	doc.ID = id
	return s.documentRepo.Create(ctx, doc)
}

// Get implements document.DocumentService.
func (s *documentServiceImpl) Get(ctx context.Context, id int64) (document.DocumentResponse, error) {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return document.DocumentResponse{}, err
	}
	if _, err := access.Check(ctx, access.DocumentRead, doc.EmployeeID); err != nil {
		return document.DocumentResponse{}, err
	}
	return toResponse(doc), nil
}

// ListAll implements document.DocumentService.
func (s *documentServiceImpl) ListAll(ctx context.Context, filter document.DocumentFilter) ([]document.DocumentResponse, error) {
	if _, err := access.Check(ctx, access.DocumentListAll, 0); err != nil {
		return nil, err
	}
	if filter.Category != "" && !validator.IsInSlice(filter.Category, document.Categories) {
		return nil, validator.New("category", "category is invalid")
	}
	docs, err := s.documentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return toResponses(docs), nil
}

// ListByEmployee implements document.DocumentService.
func (s *documentServiceImpl) ListByEmployee(ctx context.Context, employeeID int64) ([]document.DocumentResponse, error) {
	if _, err := access.Check(ctx, access.DocumentRead, employeeID); err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.List(ctx, document.DocumentFilter{EmployeeID: employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return toResponses(docs), nil
}

// Delete implements document.DocumentService.
func (s *documentServiceImpl) Delete(ctx context.Context, id int64) error {
	doc, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if _, err := access.Check(ctx, access.DocumentDelete, doc.EmployeeID); err != nil {
		return err
	}
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		return err
	}
	if doc.StoragePath != nil {
		s.fileService.DeleteFile(ctx, *doc.StoragePath)
	}
	return nil
}
