package sign

import (
	"errors"
	"strings"
	"testing"
)

func bundleWith(method SignMethod, docs ...DocumentToSign) *DocumentBundle {
	return &DocumentBundle{
		SignMethod:      method,
		Version:         1,
		DocumentsToSign: docs,
	}
}

func xmlDoc(id int, xml string) DocumentToSign {
	return DocumentToSign{ID: id, NameRu: "Документ", DocumentXML: xml}
}

func fileDoc(id int, mime, data string) DocumentToSign {
	return DocumentToSign{
		ID:       id,
		NameRu:   "Документ",
		Document: &DocumentData{File: &FileContent{Mime: mime, Data: data}},
	}
}

func TestValidateBundle(t *testing.T) {
	tests := []struct {
		name       string
		bundle     *DocumentBundle
		wantReason Reason
		errMsg     string
	}{
		{
			name:   "valid xml bundle",
			bundle: bundleWith(SignMethodXML, xmlDoc(1, "<doc/>")),
		},
		{
			name:   "valid cms bundle",
			bundle: bundleWith(SignMethodCMSWithData, fileDoc(1, "application/pdf", "JVBERi0=")),
		},
		{
			name: "valid mix bundle",
			bundle: bundleWith(SignMethodMix,
				DocumentToSign{ID: 1, SignMethod: SignMethodXML, DocumentXML: "<doc/>"},
				DocumentToSign{
					ID: 2, SignMethod: SignMethodSignBytesArray,
					Document: &DocumentData{File: &FileContent{Mime: "application/pdf", Data: "JVBERi0="}},
				}),
		},
		{
			name:       "nil bundle",
			bundle:     nil,
			wantReason: ReasonMissingBundle,
		},
		{
			name: "zero version",
			bundle: &DocumentBundle{
				SignMethod:      SignMethodXML,
				DocumentsToSign: []DocumentToSign{xmlDoc(1, "<doc/>")},
			},
			wantReason: ReasonInvalidVersion,
		},
		{
			name:       "empty document list",
			bundle:     bundleWith(SignMethodXML),
			wantReason: ReasonEmptyDocumentList,
		},
		{
			name:       "mix bundle without per-document method",
			bundle:     bundleWith(SignMethodMix, xmlDoc(1, "<doc/>")),
			wantReason: ReasonMissingSignMethod,
		},
		{
			name:       "no method anywhere",
			bundle:     bundleWith(SignMethodUnset, xmlDoc(1, "<doc/>")),
			wantReason: ReasonMissingSignMethod,
		},
		{
			name:       "unknown method",
			bundle:     bundleWith(SignMethod("PKCS11"), xmlDoc(1, "<doc/>")),
			wantReason: ReasonInvalidSignMethod,
			errMsg:     "XML, CMS_WITH_DATA, CMS_SIGN_ONLY, SIGN_BYTES_ARRAY, MIX_SIGN",
		},
		{
			name: "nested mix method is rejected",
			bundle: bundleWith(SignMethodMix,
				DocumentToSign{ID: 1, SignMethod: SignMethodMix, DocumentXML: "<doc/>"}),
			wantReason: ReasonInvalidSignMethod,
		},
		{
			name:       "xml method without payload",
			bundle:     bundleWith(SignMethodXML, xmlDoc(7, "   ")),
			wantReason: ReasonMissingXML,
			errMsg:     "document 7",
		},
		{
			name:       "cms method without file",
			bundle:     bundleWith(SignMethodCMSSignOnly, DocumentToSign{ID: 1}),
			wantReason: ReasonMissingFile,
		},
		{
			name:       "file without mime",
			bundle:     bundleWith(SignMethodSignBytesArray, fileDoc(1, "", "JVBERi0=")),
			wantReason: ReasonMissingFileMime,
		},
		{
			name:       "file without data",
			bundle:     bundleWith(SignMethodCMSWithData, fileDoc(1, "application/pdf", "")),
			wantReason: ReasonMissingFileData,
		},
		{
			name: "first failing document wins",
			bundle: bundleWith(SignMethodXML,
				xmlDoc(1, "<doc/>"),
				xmlDoc(2, ""),
				DocumentToSign{ID: 3}),
			wantReason: ReasonMissingXML,
			errMsg:     "document 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBundle(tt.bundle)
			if tt.wantReason == "" {
				if err != nil {
					t.Fatalf("ValidateBundle() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateBundle() expected error with reason %q, got nil", tt.wantReason)
			}
			var signErr *Error
			if !errors.As(err, &signErr) {
				t.Fatalf("ValidateBundle() error type = %T, want *sign.Error", err)
			}
			if signErr.Code() != ErrCodeValidation {
				t.Errorf("ValidateBundle() code = %v, want %v", signErr.Code(), ErrCodeValidation)
			}
			if signErr.Reason() != tt.wantReason {
				t.Errorf("ValidateBundle() reason = %v, want %v", signErr.Reason(), tt.wantReason)
			}
			if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("ValidateBundle() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}
