package verify

import (
	"context"
	"fmt"

	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// Oracle is the slice of the oracle client the verifiers depend on.
type Oracle interface {
	VerifyCMS(ctx context.Context, cmsBase64 string) (bool, error)
	VerifyXML(ctx context.Context, xml string) (bool, error)
	VerifyRaw(ctx context.Context, dataBase64 string) (bool, error)
}

// BundleVerifier checks every signature in a signed document bundle.
type BundleVerifier struct {
	oracle Oracle
}

// NewBundleVerifier returns a verifier backed by the given oracle.
func NewBundleVerifier(oracle Oracle) *BundleVerifier {
	return &BundleVerifier{oracle: oracle}
}

// VerifyBundle checks each document in order and stops at the first one
// that fails: documents after a failure are never sent to the oracle. A nil
// return means every document carried a valid signature.
func (v *BundleVerifier) VerifyBundle(ctx context.Context, b *sign.DocumentBundle) error {
	if b == nil || len(b.DocumentsToSign) == 0 {
		return sign.NewVerificationError("signed bundle is empty")
	}

	for i := range b.DocumentsToSign {
		d := &b.DocumentsToSign[i]
		if err := v.verifyDocument(ctx, b, d); err != nil {
			return err
		}
	}
	return nil
}

func (v *BundleVerifier) verifyDocument(ctx context.Context, b *sign.DocumentBundle, d *sign.DocumentToSign) error {
	method, ok := b.EffectiveMethod(d)
	if !ok || !method.IsEffective() {
		return sign.NewVerificationError(
			fmt.Sprintf("document %d: unsupported signature method %q", d.ID, method))
	}

	var (
		valid bool
		err   error
	)
	switch method {
	case sign.SignMethodXML:
		if d.DocumentXML == "" {
			return sign.NewVerificationError(
				fmt.Sprintf("document %d: signed XML payload is missing", d.ID))
		}
		valid, err = v.oracle.VerifyXML(ctx, d.DocumentXML)
	case sign.SignMethodCMSWithData, sign.SignMethodCMSSignOnly:
		data, derr := signedFileData(d)
		if derr != nil {
			return derr
		}
		valid, err = v.oracle.VerifyCMS(ctx, data)
	case sign.SignMethodSignBytesArray:
		data, derr := signedFileData(d)
		if derr != nil {
			return derr
		}
		valid, err = v.oracle.VerifyRaw(ctx, data)
	}
	if err != nil {
		return sign.WrapVerificationError(err,
			fmt.Sprintf("document %d: verification could not be completed", d.ID))
	}
	if !valid {
		return sign.NewVerificationError(
			fmt.Sprintf("document %d: signature is not valid", d.ID))
	}
	return nil
}

func signedFileData(d *sign.DocumentToSign) (string, error) {
	if d.Document == nil || d.Document.File == nil || d.Document.File.Data == "" {
		return "", sign.NewVerificationError(
			fmt.Sprintf("document %d: signed file payload is missing", d.ID))
	}
	return d.Document.File.Data, nil
}
