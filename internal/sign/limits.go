package sign

import "fmt"

// limits.go caps every caller-supplied string and collection so a single
// request cannot exhaust memory or storage. The ceilings are deliberately
// generous; hitting one is treated as an ordinary validation rejection.

const (
	// MaxDescriptionLen caps the transaction description.
	MaxDescriptionLen = 4096

	// MaxNameLen caps organisation and document display names and
	// metadata names/values.
	MaxNameLen = 255

	// MaxTokenLen caps a caller-supplied auth token.
	MaxTokenLen = 255

	// MaxURLLen caps the callback URL.
	MaxURLLen = 512

	// MaxDocuments caps the number of documents per bundle.
	MaxDocuments = 100

	// MaxMetaEntries caps the metadata pairs per document.
	MaxMetaEntries = 32

	// MaxDocumentXMLLen caps an inline XML payload (bytes).
	MaxDocumentXMLLen = 1 << 20 // 1MB

	// MaxFileDataLen caps a base64-encoded file payload (bytes).
	MaxFileDataLen = 10 << 20 // 10MB
)

// CheckBundleLimits enforces the per-document size ceilings. It is separate
// from ValidateBundle: the structural rules decide *what* must be present,
// the ceilings bound *how big* anything may be.
func CheckBundleLimits(b *DocumentBundle) error {
	if b == nil {
		return nil
	}
	if len(b.DocumentsToSign) > MaxDocuments {
		return NewValidationError(ReasonFieldTooLarge,
			fmt.Sprintf("bundle has %d documents, limit is %d", len(b.DocumentsToSign), MaxDocuments))
	}
	for i := range b.DocumentsToSign {
		d := &b.DocumentsToSign[i]
		if err := checkLen("nameRu", d.NameRu, MaxNameLen); err != nil {
			return err
		}
		if err := checkLen("nameKz", d.NameKz, MaxNameLen); err != nil {
			return err
		}
		if err := checkLen("nameEn", d.NameEn, MaxNameLen); err != nil {
			return err
		}
		if len(d.Meta) > MaxMetaEntries {
			return NewValidationError(ReasonFieldTooLarge,
				fmt.Sprintf("document %d has %d meta entries, limit is %d", d.ID, len(d.Meta), MaxMetaEntries))
		}
		for _, m := range d.Meta {
			if err := checkLen("meta.name", m.Name, MaxNameLen); err != nil {
				return err
			}
			if err := checkLen("meta.value", m.Value, MaxNameLen); err != nil {
				return err
			}
		}
		if err := checkLen("documentXml", d.DocumentXML, MaxDocumentXMLLen); err != nil {
			return err
		}
		if d.Document != nil && d.Document.File != nil {
			if err := checkLen("document.file.mime", d.Document.File.Mime, MaxNameLen); err != nil {
				return err
			}
			if err := checkLen("document.file.data", d.Document.File.Data, MaxFileDataLen); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckFieldLen validates a single caller-supplied field against a ceiling.
func CheckFieldLen(field, value string, limit int) error {
	return checkLen(field, value, limit)
}

func checkLen(field, value string, limit int) error {
	if len(value) > limit {
		return NewValidationError(ReasonFieldTooLarge,
			fmt.Sprintf("field %s is %d bytes, limit is %d", field, len(value), limit))
	}
	return nil
}
