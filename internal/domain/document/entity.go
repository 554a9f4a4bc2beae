package document

import "time"

type Document struct {
	ID          int64
	EmployeeID  int64
	Department  string
	Designation string
	Category    Category
	FileName    string
	FileURL     string
	// StoragePath is set when the file lives in our blob store.
	StoragePath *string
	UploadedBy  string
	UploadedAt  time.Time
}

type Category string

const (
	CategoryPersonal  Category = "personal"
	CategorySkills    Category = "skills"
	CategoryEducation Category = "education"
)

var Categories = []string{string(CategoryPersonal), string(CategorySkills), string(CategoryEducation)}
