package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/showroom/internal/auth/domain"
	chatdomain "github.com/smallbiznis/showroom/internal/chat/domain"
	"github.com/smallbiznis/showroom/internal/csvimport"
	customerdomain "github.com/smallbiznis/showroom/internal/customer/domain"
	footfalldomain "github.com/smallbiznis/showroom/internal/footfall/domain"
	orderdomain "github.com/smallbiznis/showroom/internal/order/domain"
	productdomain "github.com/smallbiznis/showroom/internal/product/domain"
	sharelinkdomain "github.com/smallbiznis/showroom/internal/sharelink/domain"
	solddomain "github.com/smallbiznis/showroom/internal/sold/domain"
	videodomain "github.com/smallbiznis/showroom/internal/video/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	var keyErr *csvimport.KeyError
	if errors.As(err, &keyErr) {
		return http.StatusInternalServerError, errorPayload{
			Type:    "import_failed",
			Message: "import failed at key " + keyErr.Key + "; earlier keys were saved",
			Errors: []ValidationError{
				{
					Field:   "key",
					Code:    "storage_error",
					Message: keyErr.Key,
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrMissingToken),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authdomain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: unauthorizedMessage(err),
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authdomain.ErrForbidden),
		errors.Is(err, authdomain.ErrInactiveUser):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: forbiddenMessage(err),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	case errors.Is(err, authdomain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many attempts, try again later",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: notFoundMessage(err),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog feeds the request logger with the same type and code
// the client receives.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

var validationErrors = []error{
	ErrInvalidRequest,
	csvimport.ErrNoFile,
	csvimport.ErrFileType,
	csvimport.ErrFileTooLarge,
	csvimport.ErrNoValidRows,
	csvimport.ErrEmptyFile,

	authdomain.ErrInvalidUsername,
	authdomain.ErrInvalidPassword,
	authdomain.ErrInvalidRole,
	authdomain.ErrInvalidStatus,
	authdomain.ErrInvalidID,

	footfalldomain.ErrInvalidUserID,
	footfalldomain.ErrInvalidEntryID,
	footfalldomain.ErrEmptyEntries,
	footfalldomain.ErrInvalidCount,
	footfalldomain.ErrInvalidTimestamp,

	productdomain.ErrInvalidJewelCode,

	customerdomain.ErrInvalidID,
	customerdomain.ErrInvalidName,
	customerdomain.ErrInvalidMobile,
	customerdomain.ErrInvalidProductName,
	customerdomain.ErrInvalidPrice,
	customerdomain.ErrInvalidStatus,
	customerdomain.ErrInvalidSeriousness,
	customerdomain.ErrInvalidSalesperson,
	customerdomain.ErrMissingImage,

	chatdomain.ErrInvalidCustomerID,
	chatdomain.ErrInvalidMessageID,
	chatdomain.ErrEmptyMessage,

	solddomain.ErrInvalidID,
	solddomain.ErrInvalidFullName,
	solddomain.ErrInvalidMobile,
	solddomain.ErrInvalidAmount,
	solddomain.ErrMissingUpload,

	videodomain.ErrInvalidID,
	videodomain.ErrInvalidCategory,
	videodomain.ErrEmptySearch,
	videodomain.ErrMissingUpload,

	sharelinkdomain.ErrEmptyVideoIDs,
	sharelinkdomain.ErrInvalidVideoID,
	sharelinkdomain.ErrMissingExpiry,
	sharelinkdomain.ErrMissingToken,
	sharelinkdomain.ErrInvalidFavoriteID,

	orderdomain.ErrInvalidID,
	orderdomain.ErrInvalidParty,
	orderdomain.ErrInvalidDeliveryDate,
	orderdomain.ErrInvalidQuantity,
	orderdomain.ErrInvalidGoldWeight,
	orderdomain.ErrInvalidItemCategory,
	orderdomain.ErrInvalidPurity,
	orderdomain.ErrInvalidStatus,
	orderdomain.ErrMissingImage,
	orderdomain.ErrInvalidName,
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, customerdomain.ErrDuplicateMobile),
		errors.Is(err, videodomain.ErrDuplicateTagNumber),
		errors.Is(err, sharelinkdomain.ErrFavoriteExists),
		errors.Is(err, orderdomain.ErrOrderNumberConflict),
		errors.Is(err, orderdomain.ErrDuplicateName),
		errors.Is(err, csvimport.ErrImportRunning):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, footfalldomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, chatdomain.ErrNotFound),
		errors.Is(err, chatdomain.ErrCustomerNotFound),
		errors.Is(err, chatdomain.ErrMessageNotFound),
		errors.Is(err, solddomain.ErrNotFound),
		errors.Is(err, videodomain.ErrNotFound),
		errors.Is(err, videodomain.ErrFileNotFound),
		errors.Is(err, sharelinkdomain.ErrLinkNotFound),
		errors.Is(err, sharelinkdomain.ErrLinkExpired),
		errors.Is(err, sharelinkdomain.ErrFavoriteNotFound),
		errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func unauthorizedMessage(err error) string {
	switch {
	case errors.Is(err, authdomain.ErrInvalidCredentials):
		return "invalid credentials"
	case errors.Is(err, authdomain.ErrInvalidToken):
		return "invalid or expired token"
	default:
		return "unauthorized"
	}
}

func forbiddenMessage(err error) string {
	if errors.Is(err, authdomain.ErrInactiveUser) {
		return "user account is inactive"
	}
	return "forbidden"
}

func notFoundMessage(err error) string {
	if errors.Is(err, sharelinkdomain.ErrLinkExpired) {
		return "link expired"
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return "not found"
	}
	return strings.ReplaceAll(err.Error(), "_", " ")
}

func validationErrorCode(err error) string {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}

func validationErrorField(code string) string {
	switch code {
	case "invalid_request":
		return "request"
	case csvimport.ErrNoFile.Error(),
		csvimport.ErrFileType.Error(),
		csvimport.ErrFileTooLarge.Error(),
		csvimport.ErrNoValidRows.Error(),
		csvimport.ErrEmptyFile.Error():
		return "file"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case csvimport.ErrNoFile.Error():
		return "no file uploaded"
	case csvimport.ErrFileType.Error():
		return "file type not allowed"
	case csvimport.ErrFileTooLarge.Error():
		return "file exceeds the upload limit"
	case csvimport.ErrNoValidRows.Error():
		return "file has no valid rows"
	case csvimport.ErrEmptyFile.Error():
		return "file is empty"
	default:
		return "invalid value"
	}
}
