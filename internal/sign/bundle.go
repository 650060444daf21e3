package sign

// bundle.go defines the document bundle exchanged with the signing device.
// The JSON field names are part of the device-facing wire contract and are
// also the shape persisted in the documents_to_sign/signed_documents jsonb
// columns, so they must stay stable.

// DocumentBundle is the ordered collection of documents to sign plus the
// bundle-level signing metadata.
type DocumentBundle struct {
	// SignMethod applies to every document unless it is MIX_SIGN.
	SignMethod SignMethod `json:"signMethod,omitempty"`

	// Version of the bundle format. Must be positive; currently always 1.
	Version int `json:"version"`

	DocumentsToSign []DocumentToSign `json:"documentsToSign"`
}

// DocumentToSign is one entry of the bundle.
type DocumentToSign struct {
	ID int `json:"id"`

	// SignMethod is authoritative only when the bundle method is MIX_SIGN.
	SignMethod SignMethod `json:"signMethod,omitempty"`

	NameRu string `json:"nameRu,omitempty"`
	NameKz string `json:"nameKz,omitempty"`
	NameEn string `json:"nameEn,omitempty"`

	Meta []Meta `json:"meta,omitempty"`

	// DocumentXML carries the inline payload for the XML method
	// (the signed XML after submission).
	DocumentXML string `json:"documentXml,omitempty"`

	// Document carries the binary payload for the CMS and byte-array
	// methods.
	Document *DocumentData `json:"document,omitempty"`
}

// Meta is an opaque name/value pair attached to a document by the caller.
type Meta struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DocumentData wraps the file payload of a binary-carrying document.
type DocumentData struct {
	File *FileContent `json:"file"`
}

// FileContent is a base64-encoded payload with its MIME type.
type FileContent struct {
	Mime string `json:"mime"`
	Data string `json:"data"`
}

// EffectiveMethod resolves the method that applies to doc within the bundle:
// the bundle-level method, or the per-document method when the bundle is
// MIX_SIGN. The second return is false when no method is specified at the
// applicable level.
func (b *DocumentBundle) EffectiveMethod(doc *DocumentToSign) (SignMethod, bool) {
	if b.SignMethod == SignMethodMix {
		if doc.SignMethod == SignMethodUnset {
			return SignMethodUnset, false
		}
		return doc.SignMethod, true
	}
	if b.SignMethod == SignMethodUnset {
		return SignMethodUnset, false
	}
	return b.SignMethod, true
}
