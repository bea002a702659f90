package v1

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is a lightweight error used for 400 responses.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "validation failed"
	}
	if e.Reason == "" {
		return e.Field + ": invalid"
	}
	return e.Field + ": " + e.Reason
}

// AnalyzeRequest is the body of POST /analyze.
type AnalyzeRequest struct {
	Target    string `json:"target"`
	ScanDepth string `json:"scan_depth,omitempty"`
}

// ValidateAnalyzeRequest checks the request body shape. Target safety,
// including the empty case, is the target gate's concern and carries the
// InvalidTarget kind; here we only reject unknown depths early.
func ValidateAnalyzeRequest(req AnalyzeRequest) error {
	if req.ScanDepth != "" {
		if err := validate.Var(req.ScanDepth, "oneof=quick normal deep"); err != nil {
			return &ValidationError{Field: "scan_depth", Reason: "must be one of: quick,normal,deep"}
		}
	}
	return nil
}

// ParseEngagementsLimit parses and validates the limit query parameter.
// Omitted limits return defaultLimit; explicit limits are validated within
// [1, maxLimit].
func ParseEngagementsLimit(r *http.Request, defaultLimit, maxLimit int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return defaultLimit, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &ValidationError{Field: "limit", Reason: "must be an integer"}
	}
	if err := validate.Var(n, "min=1"); err != nil {
		return 0, &ValidationError{Field: "limit", Reason: "must be positive"}
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}
