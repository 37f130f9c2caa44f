package dto

// ModuleFormEntry is one row of the module formset. Entries without an ID
// create a module, entries with an ID update it, and entries flagged with
// delete remove it. The whole set validates and applies together.
type ModuleFormEntry struct {
	ID          int64  `json:"id,omitempty" example:"3"`
	Title       string `json:"title" validate:"required_unless=Delete true,max=200" example:"Introduction"`
	Description string `json:"description" validate:"max=5000"`
	Order       int    `json:"order" validate:"gte=0" example:"1"`
	Delete      bool   `json:"delete,omitempty"`
}

// ModuleFormsetRequest replaces the ordered set of modules of a course.
type ModuleFormsetRequest struct {
	Modules []ModuleFormEntry `json:"modules" validate:"required,dive"`
}

// ModuleResponse represents a single module.
type ModuleResponse struct {
	ID          int64  `json:"id" example:"3"`
	CourseID    int64  `json:"courseId" example:"7"`
	Title       string `json:"title" example:"Introduction"`
	Description string `json:"description"`
	Order       int    `json:"order" example:"1"`
}

// ModuleListResponse is the ordered module list of a course.
type ModuleListResponse struct {
	Modules []ModuleResponse `json:"modules"`
}
