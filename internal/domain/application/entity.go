package application

import "time"

// Status is the review state of an application. The dashboard toggles
// between the two values; nothing else is ever stored.
type Status string

const (
	StatusPending  Status = "pending"
	StatusReviewed Status = "reviewed"
)

func (s Status) Valid() bool {
	return s == StatusPending || s == StatusReviewed
}

// Category tags which form field a document came from.
type Category string

const (
	CategoryResume      Category = "resume"
	CategoryCoverLetter Category = "cover_letter"
	CategoryAdditional  Category = "additional"
)

// Application is one candidate submission.
type Application struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;size:100;not null" json:"name"`
	Email       string    `gorm:"column:email;size:100;not null" json:"email"`
	Phone       string    `gorm:"column:phone;size:15" json:"phone"`
	Position    string    `gorm:"column:position;size:100;not null" json:"position"`
	CoverLetter string    `gorm:"column:cover_letter;type:text" json:"cover_letter"`
	Resume      string    `gorm:"column:resume;type:text;not null" json:"resume"` // stored path of the resume file
	Status      Status    `gorm:"column:status;size:20;not null;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`

	Files []ApplicationFile `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"files"`
}

func (Application) TableName() string { return "applications" }

// ApplicationFile is one uploaded document tied to an application.
type ApplicationFile struct {
	ID            int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID int64     `gorm:"column:application_id;not null;index" json:"application_id"`
	FileName      string    `gorm:"column:file_name;size:255;not null" json:"file_name"`
	FilePath      string    `gorm:"column:file_path;size:500;not null" json:"file_path"`
	FileType      string    `gorm:"column:file_type;size:50" json:"file_type"`
	FileSize      int64     `gorm:"column:file_size" json:"file_size"`
	Category      Category  `gorm:"column:category;size:50" json:"category"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (ApplicationFile) TableName() string { return "application_files" }
