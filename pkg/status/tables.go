package status

// HTTPErrorToCode maps HTTP error statuses to error codes.
var HTTPErrorToCode = map[int]Code{
	400: BadRequest,
	401: Unauthorized,
	402: PaymentRequired,
	403: Forbidden,
	404: ResourceNotFound,
	405: NotAllowed,
	406: NotAcceptable,
	407: ProxyAuthenticationRequired,
	408: RequestTimeout,
	409: Conflict,
	410: Gone,
	411: LengthRequired,
	412: PreconditionFailed,
	413: PayloadTooLarge,
	414: URITooLong,
	415: UnsupportedMediaType,
	416: RangeNotSatisfiable,
	417: ExpectationFailed,
	418: IAmATeapot,
	421: MisdirectedRequest,
	422: UnprocessableEntity,
	423: Locked,
	424: FailedDependency,
	425: TooEarly,
	426: UpgradeRequired,
	428: PreconditionRequired,
	429: TooManyRequests,
	431: RequestHeaderFieldsTooLarge,
	451: UnavailableForLegalReasons,
	500: InternalError,
	501: NotImplemented,
	502: BadGateway,
	503: ServiceUnavailable,
	504: GatewayTimeout,
	505: HTTPVersionNotSupported,
	506: VariantAlsoNegotiates,
	507: InsufficientStorage,
	508: LoopDetected,
	510: NotExtended,
	511: NetworkAuthenticationRequired,
}

var httpOtherToCode = map[int]Code{
	100: Continue,
	101: SwitchingProtocol,
	200: OK,
	201: Created,
	202: Accepted,
	203: NonAuthorative,
	204: NoContent,
	205: ResetContent,
	206: PartialContent,
	207: MultiStatus,
	208: AlreadyReported,
	226: IMUsed,
	300: MultipleChoices,
	301: MovedPermanently,
	302: Found,
	304: NotModified,
}

var (
	// HTTPToCode maps every supported HTTP status to its code.
	HTTPToCode = union(httpOtherToCode, HTTPErrorToCode)

	// ErrorCodeToHTTP maps error codes back to HTTP statuses.
	ErrorCodeToHTTP = invert(HTTPErrorToCode)

	// SuccessCodeToHTTP maps the 2xx codes back to HTTP statuses.
	SuccessCodeToHTTP = invert(filter(httpOtherToCode, func(n int) bool { return n >= 200 && n < 300 }))

	// CodeToHTTP maps every code back to its HTTP status.
	CodeToHTTP = invert(HTTPToCode)
)

// FromHTTP returns the code for an HTTP status.
func FromHTTP(httpStatus int) (Code, bool) {
	c, ok := HTTPToCode[httpStatus]
	return c, ok
}

// ErrorFromHTTP returns the error code for an HTTP status, falling back to
// InternalError for statuses outside the error table.
func ErrorFromHTTP(httpStatus int) Code {
	if c, ok := HTTPErrorToCode[httpStatus]; ok {
		return c
	}
	return InternalError
}

func union(tables ...map[int]Code) map[int]Code {
	out := make(map[int]Code)
	for _, t := range tables {
		for k, v := range t {
			out[k] = v
		}
	}
	return out
}

func invert(t map[int]Code) map[Code]int {
	out := make(map[Code]int, len(t))
	for k, v := range t {
		out[v] = k
	}
	return out
}

func filter(t map[int]Code, keep func(int) bool) map[int]Code {
	out := make(map[int]Code)
	for k, v := range t {
		if keep(k) {
			out[k] = v
		}
	}
	return out
}
