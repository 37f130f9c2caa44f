package dto

// SaveCourseRequest is shared by create and update. There is deliberately no
// owner field: the owner is always stamped from the authenticated identity
// and any client-supplied value has nowhere to bind.
type SaveCourseRequest struct {
	Subject  string `json:"subject" validate:"required,max=200" example:"Programming"`
	Title    string `json:"title" validate:"required,max=200" example:"Go for Pythonistas"`
	Slug     string `json:"slug" validate:"required,max=200" example:"go-for-pythonistas"`
	Overview string `json:"overview" validate:"max=5000" example:"A practical introduction..."`
}

// CourseResponse represents a single course.
type CourseResponse struct {
	ID        int64  `json:"id" example:"7"`
	Subject   string `json:"subject" example:"Programming"`
	Title     string `json:"title" example:"Go for Pythonistas"`
	Slug      string `json:"slug" example:"go-for-pythonistas"`
	Overview  string `json:"overview"`
	OwnerID   int64  `json:"ownerId" example:"1"`
	CreatedAt string `json:"createdAt" example:"2024-01-15T10:00:00Z"`
	UpdatedAt string `json:"updatedAt" example:"2024-01-16T11:30:00Z"`
}

// CourseListResponse is a paginated list of courses owned by the requester.
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}
