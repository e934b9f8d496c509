package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: unauthorized.
	StatusUnauthorized = 401
	// StatusForbidden - 403: forbidden.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: resource conflict.
	StatusConflict = 409
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
)

// Generic error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request body binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
)

// Auth error codes (101xxx).
const (
	// ErrUserTypeInvalid - 400: unknown user type.
	ErrUserTypeInvalid int = iota + 101000
	// ErrPasswordIncorrect - 401: wrong password.
	ErrPasswordIncorrect
)

// Department error codes (102xxx).
const (
	// ErrDepartmentNotFound - 404: department does not exist.
	ErrDepartmentNotFound int = iota + 102000
	// ErrDepartmentAlreadyExist - 409: department name already taken.
	ErrDepartmentAlreadyExist
	// ErrDepartmentUnavailable - 400: department is not Available.
	ErrDepartmentUnavailable
	// ErrDepartmentStatusInvalid - 400: unknown department status.
	ErrDepartmentStatusInvalid
	// ErrDepartmentLimit - 403: department limit reached.
	ErrDepartmentLimit
)

// Call error codes (103xxx).
const (
	// ErrCallNotFound - 404: call record does not exist.
	ErrCallNotFound int = iota + 103000
	// ErrNoIncomingCall - 400: no incoming call to act on.
	ErrNoIncomingCall
)

// Database error codes (104xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 104000
	// ErrRecordNotFound - 404: record does not exist.
	ErrRecordNotFound
)
