package dto

// SaveContentRequest carries the user-editable fields of a content item.
// Owner, order and timestamps are system managed and cannot be bound from
// the request. Which payload field is consulted depends on the kind in the
// URL: text kinds read Text, video kinds read URL. For image and file kinds
// the payload is the uploaded file; FilePath is filled in by the controller
// after the upload is stored and is never bound from the body.
type SaveContentRequest struct {
	Title    string `json:"title" form:"title" validate:"required,max=250" example:"Lesson 1 slides"`
	Text     string `json:"text,omitempty" form:"-"`
	URL      string `json:"url,omitempty" form:"-" example:"https://videos.example.com/intro.mp4"`
	FilePath string `json:"-" form:"-"`
}

// ContentResponse represents one content row together with its item.
type ContentResponse struct {
	ID       int64  `json:"id" example:"12"`
	ModuleID int64  `json:"moduleId" example:"3"`
	Kind     string `json:"kind" example:"video"`
	ItemID   int64  `json:"itemId" example:"9"`
	Order    int    `json:"order" example:"1"`
	Title    string `json:"title" example:"Lesson 1 slides"`
	Text     string `json:"text,omitempty"`
	URL      string `json:"url,omitempty"`
	File     string `json:"file,omitempty"`
}

// ContentListResponse is the ordered content list of a module.
type ContentListResponse struct {
	Contents []ContentResponse `json:"contents"`
}
