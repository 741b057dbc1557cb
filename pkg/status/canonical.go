package status

import "github.com/aretw0/hodr/pkg/domain"

// Canonical builds the canonical status for an HTTP status, naming the
// source that inferred it and the step it was inferred by.
func Canonical(httpStatus int, inferredFrom, inferredBy string) domain.CanonicalStatus {
	return domain.CanonicalStatus{
		Code:         string(HTTPToCode[httpStatus]),
		HTTPStatus:   httpStatus,
		InferredFrom: inferredFrom,
		InferredBy:   inferredBy,
	}
}

// RecordCanonical stores the canonical status of a 2xx response on exec,
// attributing it to the current step. Other statuses are ignored.
func RecordCanonical(exec *domain.ExecutionContext, httpStatus int, inferredFrom string) {
	if httpStatus < 200 || httpStatus >= 300 {
		return
	}
	var by string
	if step := exec.CurrentStep(); step != nil {
		by = step.Name
	}
	exec.SetCanonicalStatus(Canonical(httpStatus, inferredFrom, by))
}

// ResolveCanonicalHTTP returns the HTTP status exec resolved to: the recorded
// HTTP status, else the status of the recorded code, else fallback.
func ResolveCanonicalHTTP(exec *domain.ExecutionContext, fallback int) int {
	cs, ok := exec.CanonicalStatus()
	if !ok {
		return fallback
	}
	if cs.HTTPStatus != 0 {
		return cs.HTTPStatus
	}
	if n, ok := CodeToHTTP[Code(cs.Code)]; ok {
		return n
	}
	return fallback
}

// HTTPForError returns the HTTP status for an error code, or 500.
func HTTPForError(code string) int {
	if n, ok := ErrorCodeToHTTP[Code(code)]; ok {
		return n
	}
	return 500
}
