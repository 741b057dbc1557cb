// Package status translates between the protocol-neutral status vocabulary and
// HTTP status codes, and remaps status codes with declarative condition maps.
package status

// Code is a protocol-neutral status code.
type Code string

// Informational and redirection codes.
const (
	Continue          Code = "continue"
	SwitchingProtocol Code = "switching-protocol"
	MultipleChoices   Code = "multiple-choices"
	MovedPermanently  Code = "moved-permanently"
	Found             Code = "found"
	NotModified       Code = "not-modified"
)

// Success codes.
const (
	OK              Code = "ok"
	Created         Code = "created"
	Accepted        Code = "accepted"
	NonAuthorative  Code = "non-authorative"
	NoContent       Code = "no-content"
	ResetContent    Code = "reset-content"
	PartialContent  Code = "partial-content"
	MultiStatus     Code = "multi-status"
	AlreadyReported Code = "already-reported"
	IMUsed          Code = "im-used"
)

// Error codes.
const (
	BadRequest                    Code = "bad-request"
	Unauthorized                  Code = "unauthorized"
	PaymentRequired               Code = "payment-required"
	Forbidden                     Code = "forbidden"
	ResourceNotFound              Code = "resource-not-found"
	NotAllowed                    Code = "not-allowed"
	NotAcceptable                 Code = "not-acceptable"
	ProxyAuthenticationRequired   Code = "proxy-authentication-required"
	RequestTimeout                Code = "request-timeout"
	Conflict                      Code = "conflict"
	Gone                          Code = "gone"
	LengthRequired                Code = "length-required"
	PreconditionFailed            Code = "precondition-failed"
	PayloadTooLarge               Code = "payload-too-large"
	URITooLong                    Code = "uri-too-long"
	UnsupportedMediaType          Code = "unsupported-media-type"
	RangeNotSatisfiable           Code = "range-not-satisfiable"
	ExpectationFailed             Code = "expectation-failed"
	IAmATeapot                    Code = "i-am-a-teapot"
	MisdirectedRequest            Code = "misdirected-request"
	UnprocessableEntity           Code = "unprocessable-entity"
	Locked                        Code = "locked"
	FailedDependency              Code = "failed-dependency"
	TooEarly                      Code = "too-early"
	UpgradeRequired               Code = "upgrade-required"
	PreconditionRequired          Code = "precondition-required"
	TooManyRequests               Code = "too-many-requests"
	RequestHeaderFieldsTooLarge   Code = "request-header-fields-too-large"
	UnavailableForLegalReasons    Code = "unavailable-for-legal-reasons"
	InternalError                 Code = "internal-error"
	NotImplemented                Code = "not-implemented"
	BadGateway                    Code = "bad-gateway"
	ServiceUnavailable            Code = "service-unavailable"
	GatewayTimeout                Code = "gateway-timeout"
	HTTPVersionNotSupported       Code = "http-version-not-supported"
	VariantAlsoNegotiates         Code = "variant-also-negotiates"
	InsufficientStorage           Code = "insufficient-storage"
	LoopDetected                  Code = "loop-detected"
	NotExtended                   Code = "not-extended"
	NetworkAuthenticationRequired Code = "network-authentication-required"
)

// IsError reports whether c belongs to the error vocabulary.
func (c Code) IsError() bool {
	_, ok := ErrorCodeToHTTP[c]
	return ok
}

// HTTP returns the HTTP status for c, or 0 when c is unknown.
func (c Code) HTTP() int {
	return CodeToHTTP[c]
}
