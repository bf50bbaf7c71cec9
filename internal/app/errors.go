package app

import "errors"

var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrEmailExists         = errors.New("email already exists")
	ErrInvalidCredential   = errors.New("invalid email or password")
	ErrUnsupportedFileKind = errors.New("only .xls and .xlsx files are allowed")
	ErrEmptyDataset        = errors.New("excel file is empty or has no data")
	ErrInvalidFile         = errors.New("excel file could not be read")
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("access denied")
	ErrStorage             = errors.New("storage unavailable")
)
