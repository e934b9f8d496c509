package code

// Error code to user-facing message mapping
var codeMessageMap = map[int]string{
	// Generic
	ErrSuccess:    "Éxito",
	ErrUnknown:    "Error interno del servidor",
	ErrBind:       "Cuerpo de la solicitud inválido",
	ErrValidation: "Parámetros de la solicitud inválidos",

	// Auth
	ErrUserTypeInvalid:   "Tipo de usuario no válido",
	ErrPasswordIncorrect: "Contraseña incorrecta",

	// Departments
	ErrDepartmentNotFound:      "Departamento no encontrado",
	ErrDepartmentAlreadyExist:  "Ya existe un departamento con ese nombre",
	ErrDepartmentUnavailable:   "Departamento no disponible",
	ErrDepartmentStatusInvalid: "Estado no válido",
	ErrDepartmentLimit:         "Se alcanzó el límite máximo de departamentos",

	// Calls
	ErrCallNotFound:   "Registro de llamada no encontrado",
	ErrNoIncomingCall: "No hay llamada entrante",

	// Database
	ErrDatabase:       "Error de base de datos",
	ErrRecordNotFound: "Registro no encontrado",
}

// Error code to HTTP status mapping
var codeStatusMap = map[int]int{
	// Generic
	ErrSuccess:    StatusOK,
	ErrUnknown:    StatusInternalServerError,
	ErrBind:       StatusBadRequest,
	ErrValidation: StatusBadRequest,

	// Auth
	ErrUserTypeInvalid:   StatusBadRequest,
	ErrPasswordIncorrect: StatusUnauthorized,

	// Departments
	ErrDepartmentNotFound:      StatusNotFound,
	ErrDepartmentAlreadyExist:  StatusConflict,
	ErrDepartmentUnavailable:   StatusBadRequest,
	ErrDepartmentStatusInvalid: StatusBadRequest,
	ErrDepartmentLimit:         StatusForbidden,

	// Calls
	ErrCallNotFound:   StatusNotFound,
	ErrNoIncomingCall: StatusBadRequest,

	// Database
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage returns the message for an error code
func GetMessage(errorCode int) string {
	if msg, ok := codeMessageMap[errorCode]; ok {
		return msg
	}
	return codeMessageMap[ErrUnknown]
}

// GetStatus returns the HTTP status for an error code
func GetStatus(errorCode int) int {
	if status, ok := codeStatusMap[errorCode]; ok {
		return status
	}
	return StatusInternalServerError
}
