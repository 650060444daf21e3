package sign

import (
	"strings"
	"testing"
)

func TestCheckBundleLimits(t *testing.T) {
	tests := []struct {
		name    string
		bundle  *DocumentBundle
		wantErr bool
		errMsg  string
	}{
		{
			name:   "nil bundle passes",
			bundle: nil,
		},
		{
			name:   "ordinary bundle passes",
			bundle: bundleWith(SignMethodXML, xmlDoc(1, "<doc/>")),
		},
		{
			name: "too many documents",
			bundle: func() *DocumentBundle {
				docs := make([]DocumentToSign, MaxDocuments+1)
				return bundleWith(SignMethodXML, docs...)
			}(),
			wantErr: true,
			errMsg:  "documents",
		},
		{
			name: "oversized name",
			bundle: bundleWith(SignMethodXML,
				DocumentToSign{ID: 1, NameRu: strings.Repeat("a", MaxNameLen+1)}),
			wantErr: true,
			errMsg:  "nameRu",
		},
		{
			name: "too many meta entries",
			bundle: bundleWith(SignMethodXML,
				DocumentToSign{ID: 1, Meta: make([]Meta, MaxMetaEntries+1)}),
			wantErr: true,
			errMsg:  "meta entries",
		},
		{
			name: "oversized meta value",
			bundle: bundleWith(SignMethodXML,
				DocumentToSign{ID: 1, Meta: []Meta{{Name: "k", Value: strings.Repeat("v", MaxNameLen+1)}}}),
			wantErr: true,
			errMsg:  "meta.value",
		},
		{
			name: "oversized xml payload",
			bundle: bundleWith(SignMethodXML,
				xmlDoc(1, strings.Repeat("x", MaxDocumentXMLLen+1))),
			wantErr: true,
			errMsg:  "documentXml",
		},
		{
			name: "oversized file data",
			bundle: bundleWith(SignMethodCMSWithData,
				fileDoc(1, "application/pdf", strings.Repeat("A", MaxFileDataLen+1))),
			wantErr: true,
			errMsg:  "document.file.data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBundleLimits(tt.bundle)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CheckBundleLimits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("CheckBundleLimits() error = %v, want error containing %q", err, tt.errMsg)
			}
		})
	}
}
