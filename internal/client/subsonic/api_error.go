package subsonic

import (
	"errors"
	"math"
)

// APIErrorCode is the numeric error code a Subsonic server sends in a failed response.
// The values are part of the protocol and must never be renumbered.
type APIErrorCode uint16

const (
	// APIErrorCodeGeneric is a generic error; the server message explains it.
	APIErrorCodeGeneric APIErrorCode = 0
	// APIErrorCodeMissingParameter means a required parameter is missing.
	APIErrorCodeMissingParameter APIErrorCode = 10
	// APIErrorCodeClientMustUpgrade means the client protocol version is too old.
	APIErrorCodeClientMustUpgrade APIErrorCode = 20
	// APIErrorCodeServerMustUpgrade means the server protocol version is too old.
	APIErrorCodeServerMustUpgrade APIErrorCode = 30
	// APIErrorCodeWrongAuth means wrong username or password.
	APIErrorCodeWrongAuth APIErrorCode = 40
	// APIErrorCodeLDAP means token authentication is not supported for LDAP users.
	APIErrorCodeLDAP APIErrorCode = 41
	// APIErrorCodeNotAuthorized means the user is not authorized for the operation.
	APIErrorCodeNotAuthorized APIErrorCode = 50
	// APIErrorCodeTrialExpired means the server trial period is over.
	APIErrorCodeTrialExpired APIErrorCode = 60
	// APIErrorCodeNotFound means the requested data was not found.
	APIErrorCodeNotFound APIErrorCode = 70
)

// APIError is a structured error reported by the server.
// Only Generic and NotAuthorized errors carry the server message.
type APIError struct {
	code    APIErrorCode
	message string
}

// Sentinels for the variants that carry no message.
// They compare by code, so errors.Is(err, ErrAPIWrongAuth) works for decoded errors too.
var (
	ErrAPIMissingParameter  = &APIError{code: APIErrorCodeMissingParameter}
	ErrAPIClientMustUpgrade = &APIError{code: APIErrorCodeClientMustUpgrade}
	ErrAPIServerMustUpgrade = &APIError{code: APIErrorCodeServerMustUpgrade}
	ErrAPIWrongAuth         = &APIError{code: APIErrorCodeWrongAuth}
	ErrAPILDAP              = &APIError{code: APIErrorCodeLDAP}
	ErrAPITrialExpired      = &APIError{code: APIErrorCodeTrialExpired}
	ErrAPINotFound          = &APIError{code: APIErrorCodeNotFound}
)

// ErrUnknownAPIErrorCode is the cause attached when a server sends a code outside the protocol table.
var ErrUnknownAPIErrorCode = errors.New("unknown API error code")

// NewGenericAPIError returns a Generic error carrying the server message.
func NewGenericAPIError(message string) *APIError {
	return &APIError{code: APIErrorCodeGeneric, message: message}
}

// NewNotAuthorizedAPIError returns a NotAuthorized error carrying the server message.
func NewNotAuthorizedAPIError(message string) *APIError {
	return &APIError{code: APIErrorCodeNotAuthorized, message: message}
}

// APIErrorFromCode builds an error from a bare numeric code.
// Only variants that need no message can be built this way.
func APIErrorFromCode(code uint16) (*APIError, error) {
	switch APIErrorCode(code) {
	case APIErrorCodeMissingParameter,
		APIErrorCodeWrongAuth,
		APIErrorCodeLDAP,
		APIErrorCodeTrialExpired,
		APIErrorCodeNotFound:
		return &APIError{code: APIErrorCode(code)}, nil
	default:
		return nil, &UnknownError{Reason: "cannot build API error from a bare code; a message is required"}
	}
}

// DecodeAPIError decodes the error object of a failed response:
//
//	{"code": 40, "message": "Wrong username or password"}
//
// The caller must already know the response is a failure.
// Unlike record fields, the code must be a JSON number; a quoted code is rejected.
func DecodeAPIError(payload any) (*APIError, error) {
	object, err := asObject(payload)
	if err != nil {
		return nil, err
	}

	rawCode, err := requiredNumber(object, "code")
	if err != nil {
		return nil, err
	}

	message, err := requiredString(object, "message")
	if err != nil {
		return nil, err
	}

	if rawCode > math.MaxUint16 {
		return nil, &FieldParseError{Field: "code", Err: ErrUnknownAPIErrorCode}
	}

	code := APIErrorCode(rawCode)

	switch code {
	case APIErrorCodeGeneric, APIErrorCodeNotAuthorized:
		return &APIError{code: code, message: message}, nil
	case APIErrorCodeMissingParameter,
		APIErrorCodeClientMustUpgrade,
		APIErrorCodeServerMustUpgrade,
		APIErrorCodeWrongAuth,
		APIErrorCodeLDAP,
		APIErrorCodeTrialExpired,
		APIErrorCodeNotFound:
		return &APIError{code: code}, nil
	default:
		return nil, &FieldParseError{Field: "code", Err: ErrUnknownAPIErrorCode}
	}
}

// Code returns the numeric wire code.
func (e *APIError) Code() uint16 {
	return uint16(e.code)
}

// Message returns the server message for Generic and NotAuthorized errors, and "" otherwise.
func (e *APIError) Message() string {
	return e.message
}

func (e *APIError) Error() string {
	switch e.code {
	case APIErrorCodeGeneric:
		return "generic error: " + e.message
	case APIErrorCodeMissingParameter:
		return "required parameter is missing"
	case APIErrorCodeClientMustUpgrade:
		return "incompatible protocol; client must upgrade"
	case APIErrorCodeServerMustUpgrade:
		return "incompatible protocol; server must upgrade"
	case APIErrorCodeWrongAuth:
		return "wrong username or password"
	case APIErrorCodeLDAP:
		return "token authentication not supported for LDAP users"
	case APIErrorCodeNotAuthorized:
		return "not authorized: " + e.message
	case APIErrorCodeTrialExpired:
		return "trial period has expired"
	case APIErrorCodeNotFound:
		return "requested data not found"
	}

	return "unrecognized API error"
}

// Is reports whether target is an APIError with the same code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError) //nolint:errorlint // Is is called with the unwrapped target.
	if !ok {
		return false
	}

	return e.code == t.code
}

// Kind implements Error.
func (*APIError) Kind() ErrorKind { return ErrorKindAPI }

func (*APIError) isSubsonicError() {}
