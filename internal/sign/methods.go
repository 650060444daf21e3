package sign

// methods.go defines the closed sign-method, auth-type and status
// enumerations used throughout the service.

// SignMethod identifies how a document is (to be) signed.
type SignMethod string

const (
	// SignMethodUnset is the zero value for SignMethod.
	SignMethodUnset SignMethod = ""

	// SignMethodXML signs an inline XML document (XMLDSig).
	SignMethodXML SignMethod = "XML"

	// SignMethodCMSWithData produces a CMS container that embeds the data.
	SignMethodCMSWithData SignMethod = "CMS_WITH_DATA"

	// SignMethodCMSSignOnly produces a detached CMS signature.
	SignMethodCMSSignOnly SignMethod = "CMS_SIGN_ONLY"

	// SignMethodSignBytesArray signs a raw byte payload.
	SignMethodSignBytesArray SignMethod = "SIGN_BYTES_ARRAY"

	// SignMethodMix is only valid at the bundle level and means each
	// document carries its own authoritative signMethod.
	SignMethodMix SignMethod = "MIX_SIGN"
)

// effectiveSignMethods are the methods a single document may effectively
// resolve to (MIX_SIGN is a bundle-level dispatch marker, never effective).
var effectiveSignMethods = []SignMethod{
	SignMethodXML,
	SignMethodCMSWithData,
	SignMethodCMSSignOnly,
	SignMethodSignBytesArray,
}

// IsEffective reports whether m is one of the four per-document methods.
func (m SignMethod) IsEffective() bool {
	for _, v := range effectiveSignMethods {
		if m == v {
			return true
		}
	}
	return false
}

// AuthType selects the proof-of-possession scheme required to retrieve the
// documents and submit the signed result.
type AuthType string

const (
	// AuthTypeToken gates the flow with a bearer token; only a salted hash
	// of the token is persisted.
	AuthTypeToken AuthType = "Token"

	// AuthTypeEds gates the flow with a signed XML proof verified through
	// the external oracle.
	AuthTypeEds AuthType = "Eds"

	// AuthTypeNone is accepted at creation time as a placeholder only; the
	// retrieval and submission endpoints reject it.
	AuthTypeNone AuthType = "None"
)

// ParseAuthType maps a wire value to an AuthType. An empty value defaults to
// None, mirroring creation requests that omit the auth block.
func ParseAuthType(s string) (AuthType, bool) {
	switch AuthType(s) {
	case AuthTypeToken, AuthTypeEds, AuthTypeNone:
		return AuthType(s), true
	case "":
		return AuthTypeNone, true
	default:
		return AuthTypeNone, false
	}
}

// Status is the lifecycle state of a signing transaction.
type Status string

const (
	// StatusPending is the initial state set at creation.
	StatusPending Status = "PENDING"

	// StatusSigned is the terminal success state.
	StatusSigned Status = "SIGNED"

	// StatusFailed is the terminal failure state.
	StatusFailed Status = "FAILED"
)

// Terminal reports whether no further status writes are allowed.
func (s Status) Terminal() bool {
	return s == StatusSigned || s == StatusFailed
}

// CanTransitionTo reports whether the next status is reachable from s.
// The only legal transitions are PENDING -> SIGNED and PENDING -> FAILED.
func (s Status) CanTransitionTo(next Status) bool {
	if s != StatusPending {
		return false
	}
	return next == StatusSigned || next == StatusFailed
}
