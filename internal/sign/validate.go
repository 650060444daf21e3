package sign

import "fmt"

// validate.go implements the structural validation of an incoming document
// bundle. The first failing rule wins; there is no multi-error aggregation.

// ValidateBundle checks the structure of a bundle submitted at transaction
// creation. Rules are applied in a fixed order:
//
//  1. the bundle must be present and carry a positive version
//  2. the document list must be non-empty
//  3. every document must resolve to an effective method (per-document when
//     the bundle method is MIX_SIGN, bundle-level otherwise)
//  4. the effective method must be one of the four supported methods
//  5. XML documents must carry a non-blank inline XML payload
//  6. binary-carrying documents must carry document.file with non-blank
//     mime and base64 data
func ValidateBundle(b *DocumentBundle) error {
	if b == nil {
		return NewValidationError(ReasonMissingBundle, "documents bundle is missing")
	}
	if b.Version <= 0 {
		return NewValidationError(ReasonInvalidVersion,
			fmt.Sprintf("bundle version must be positive, got %d", b.Version))
	}
	if len(b.DocumentsToSign) == 0 {
		return NewValidationError(ReasonEmptyDocumentList, "documentsToSign list is empty")
	}

	for i := range b.DocumentsToSign {
		d := &b.DocumentsToSign[i]

		method, ok := b.EffectiveMethod(d)
		if !ok {
			return NewValidationError(ReasonMissingSignMethod,
				fmt.Sprintf("document %d: no signMethod specified and no bundle-level signMethod set", d.ID))
		}

		switch method {
		case SignMethodXML:
			if isBlank(d.DocumentXML) {
				return NewValidationError(ReasonMissingXML,
					fmt.Sprintf("document %d: method XML requires a non-empty documentXml field", d.ID))
			}
		case SignMethodCMSWithData, SignMethodCMSSignOnly, SignMethodSignBytesArray:
			if d.Document == nil || d.Document.File == nil {
				return NewValidationError(ReasonMissingFile,
					fmt.Sprintf("document %d: method %s requires a document.file object", d.ID, method))
			}
			if isBlank(d.Document.File.Mime) {
				return NewValidationError(ReasonMissingFileMime,
					fmt.Sprintf("document %d: document.file.mime is required", d.ID))
			}
			if isBlank(d.Document.File.Data) {
				return NewValidationError(ReasonMissingFileData,
					fmt.Sprintf("document %d: document.file.data is required", d.ID))
			}
		default:
			return NewValidationError(ReasonInvalidSignMethod,
				fmt.Sprintf("document %d: invalid signMethod %q, valid values: XML, CMS_WITH_DATA, CMS_SIGN_ONLY, SIGN_BYTES_ARRAY, MIX_SIGN", d.ID, method))
		}
	}
	return nil
}

// isBlank reports whether s is empty or whitespace only.
func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
