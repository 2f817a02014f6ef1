package application

// SubmitRequest carries the text fields of the public application form.
type SubmitRequest struct {
	Name        string `form:"name" validate:"required,max=100"`
	Email       string `form:"email" validate:"required,email,max=100"`
	Phone       string `form:"phone" validate:"omitempty,max=15"`
	Position    string `form:"position" validate:"required,oneof=developer designer manager analyst"`
	CoverLetter string `form:"cover_letter"`
}

// UpdateStatusRequest is the PATCH body for the status toggle.
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required,oneof=pending reviewed"`
}

// ListFilter narrows the admin listing. Zero values mean "no filter".
type ListFilter struct {
	Status   *Status
	Position string
	Search   string
	Limit    int
	Offset   int
}

// Stats summarizes the dashboard counters.
type Stats struct {
	Pending  int64 `json:"pending"`
	Reviewed int64 `json:"reviewed"`
	Total    int64 `json:"total"`
}
