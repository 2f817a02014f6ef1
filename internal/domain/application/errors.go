package application

import "errors"

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrResumeRequired      = errors.New("resume file is required")
	ErrFileTooLarge        = errors.New("file too large, maximum size is 5MB")
	ErrFileTypeNotAllowed  = errors.New("only PDF, DOC, DOCX, TXT, JPG, JPEG, PNG files are allowed")
	ErrTooManyAdditional   = errors.New("at most 3 additional documents are allowed")
	ErrDuplicateFileSlot   = errors.New("only one file is allowed per slot")
)
