package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// fakeStore is an in-memory stand-in for *database.Queries.
type fakeStore struct {
	orgs         map[string]database.Organisation
	transactions map[string]database.SignTransaction
	history      []database.InsertStatusHistoryParams

	nextOrgID  int64
	orgWrites  int
	historyErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		orgs:         make(map[string]database.Organisation),
		transactions: make(map[string]database.SignTransaction),
	}
}

func (f *fakeStore) GetOrganisationByBin(_ context.Context, bin string) (database.Organisation, error) {
	o, ok := f.orgs[bin]
	if !ok {
		return database.Organisation{}, pgx.ErrNoRows
	}
	return o, nil
}

func (f *fakeStore) GetOrganisationByID(_ context.Context, id int64) (database.Organisation, error) {
	for _, o := range f.orgs {
		if o.ID == id {
			return o, nil
		}
	}
	return database.Organisation{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateOrganisation(_ context.Context, arg database.CreateOrganisationParams) (database.Organisation, error) {
	f.nextOrgID++
	f.orgWrites++
	o := database.Organisation{
		ID:        f.nextOrgID,
		Bin:       arg.Bin,
		NameRu:    arg.NameRu,
		NameKz:    arg.NameKz,
		NameEn:    arg.NameEn,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	f.orgs[arg.Bin] = o
	return o, nil
}

func (f *fakeStore) UpdateOrganisationNames(_ context.Context, arg database.UpdateOrganisationNamesParams) (database.Organisation, error) {
	for bin, o := range f.orgs {
		if o.ID == arg.ID {
			f.orgWrites++
			o.NameRu, o.NameKz, o.NameEn = arg.NameRu, arg.NameKz, arg.NameEn
			o.UpdatedAt = time.Now()
			f.orgs[bin] = o
			return o, nil
		}
	}
	return database.Organisation{}, pgx.ErrNoRows
}

func (f *fakeStore) CreateSignTransaction(_ context.Context, arg database.CreateSignTransactionParams) (database.SignTransaction, error) {
	t := database.SignTransaction{
		TransactionID:   arg.TransactionID,
		OrganisationID:  arg.OrganisationID,
		CreationDate:    arg.CreationDate,
		ExpiryDate:      arg.ExpiryDate,
		AuthType:        arg.AuthType,
		AuthTokenHash:   arg.AuthTokenHash,
		Description:     arg.Description,
		Api2URI:         arg.Api2URI,
		BackURL:         arg.BackURL,
		Status:          arg.Status,
		DocumentsToSign: arg.DocumentsToSign,
	}
	f.transactions[arg.TransactionID] = t
	return t, nil
}

func (f *fakeStore) GetSignTransaction(_ context.Context, transactionID string) (database.SignTransaction, error) {
	t, ok := f.transactions[transactionID]
	if !ok {
		return database.SignTransaction{}, pgx.ErrNoRows
	}
	return t, nil
}

func (f *fakeStore) CompleteSignTransaction(_ context.Context, arg database.CompleteSignTransactionParams) (int64, error) {
	t, ok := f.transactions[arg.TransactionID]
	if !ok || t.Status != string(sign.StatusPending) {
		return 0, nil
	}
	t.Status = arg.Status
	t.SignedDocuments = arg.SignedDocuments
	f.transactions[arg.TransactionID] = t
	return 1, nil
}

func (f *fakeStore) InsertStatusHistory(_ context.Context, arg database.InsertStatusHistoryParams) error {
	if f.historyErr != nil {
		return f.historyErr
	}
	f.history = append(f.history, arg)
	return nil
}

// fakeBundleChecker counts verifications and returns a canned result.
type fakeBundleChecker struct {
	err   error
	calls int
}

func (f *fakeBundleChecker) VerifyBundle(context.Context, *sign.DocumentBundle) error {
	f.calls++
	return f.err
}

// fakeEdsVerifier approves proofs whose XML matches the expected string.
type fakeEdsVerifier struct {
	acceptXML string
	login     string
}

func (f *fakeEdsVerifier) VerifyProof(_ context.Context, signedXML, _ string) (string, error) {
	if signedXML == f.acceptXML {
		return f.login, nil
	}
	return "", sign.NewAuthenticationError(sign.ReasonAuthRejected, "proof rejected")
}
