package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a code plus a message safe to show to the user.
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError maps a database or infrastructure error to a user-facing code
// and message. context is a short hint such as "member" or "delete rating"
// used to phrase the message; raw driver text is never returned.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	errStr := err.Error()
	errStrLower := strings.ToLower(errStr)

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(context)
	}

	// PostgreSQL 23505 / SQLite UNIQUE
	if strings.Contains(errStrLower, "duplicate key") || strings.Contains(errStrLower, "unique constraint") {
		return parseDuplicateKeyError(errStrLower)
	}

	// 23503
	if strings.Contains(errStrLower, "foreign key constraint") {
		return parseForeignKeyError(errStrLower, context)
	}

	// 23502
	if strings.Contains(errStrLower, "not-null constraint") || strings.Contains(errStrLower, "not null constraint") {
		return parseNotNullError(errStrLower)
	}

	if strings.Contains(errStrLower, "check constraint") {
		if strings.Contains(errStrLower, "rating") {
			return ErrorInfo{Code: RatingInvalidValue, Message: "Rating must be between 0 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "Invalid input"}
	}

	if strings.Contains(errStrLower, "connection refused") ||
		strings.Contains(errStrLower, "no such host") ||
		strings.Contains(errStrLower, "timeout") {
		return ErrorInfo{
			Code:    InternalExternalAPI,
			Message: "A backing service is unavailable. Please try again shortly",
		}
	}

	return ErrorInfo{
		Code:    InternalServerError,
		Message: defaultMessage(context),
	}
}

func parseDuplicateKeyError(errLower string) ErrorInfo {
	switch {
	case strings.Contains(errLower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "Email is already registered"}
	case strings.Contains(errLower, "member_families"):
		return ErrorInfo{Code: FamilyAlreadyExists, Message: "Family details already exist for this member"}
	case strings.Contains(errLower, "referrals"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "Referral already recorded for this member"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "Record already exists"}
}

func parseForeignKeyError(errLower, context string) ErrorInfo {
	if strings.Contains(errLower, "still referenced") {
		return ErrorInfo{
			Code:    ResourceConflict,
			Message: "Cannot delete " + subject(context) + " while other records reference it",
		}
	}
	switch {
	case strings.Contains(errLower, "business_id"):
		return ErrorInfo{Code: BusinessNotFound, Message: "Business profile not found"}
	case strings.Contains(errLower, "mid") || strings.Contains(errLower, "member_id"):
		return ErrorInfo{Code: MemberNotFound, Message: "Member not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Referenced record not found"}
}

func parseNotNullError(errLower string) ErrorInfo {
	for _, field := range []string{"email", "first_name", "company_name", "password"} {
		if strings.Contains(errLower, field) {
			return ErrorInfo{Code: ValidationRequired, Message: field + " is required"}
		}
	}
	return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
}

func notFound(context string) ErrorInfo {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "business"):
		return ErrorInfo{Code: BusinessNotFound, Message: "Business profile not found"}
	case strings.Contains(c, "family"):
		return ErrorInfo{Code: FamilyNotFound, Message: "Family details not found"}
	case strings.Contains(c, "rating"):
		return ErrorInfo{Code: RatingNotFound, Message: "Rating not found"}
	case strings.Contains(c, "member"):
		return ErrorInfo{Code: MemberNotFound, Message: "Member not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "Requested record not found"}
}

func subject(context string) string {
	c := strings.ToLower(context)
	for _, s := range []string{"business profile", "member", "rating", "family"} {
		if strings.Contains(c, strings.Fields(s)[0]) {
			return s
		}
	}
	return "record"
}

func defaultMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "create") || strings.Contains(c, "register"):
		return "Failed to save. Please try again shortly"
	case strings.Contains(c, "update"):
		return "Failed to update. Please try again shortly"
	case strings.Contains(c, "delete"):
		return "Failed to delete. Please try again shortly"
	}
	return "Something went wrong. Please try again shortly"
}

// ParseAndRespond parses err and writes the error envelope.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
