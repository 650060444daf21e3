package services

import (
	"context"

	"github.com/egov-mobile/qr-sign-service/app/internal/database"
)

// OrganisationStore is the slice of the query layer the organisation
// resolver needs. *database.Queries satisfies it.
type OrganisationStore interface {
	GetOrganisationByBin(ctx context.Context, bin string) (database.Organisation, error)
	GetOrganisationByID(ctx context.Context, id int64) (database.Organisation, error)
	CreateOrganisation(ctx context.Context, arg database.CreateOrganisationParams) (database.Organisation, error)
	UpdateOrganisationNames(ctx context.Context, arg database.UpdateOrganisationNamesParams) (database.Organisation, error)
}

// TransactionStore is the slice of the query layer the signing lifecycle
// needs. *database.Queries satisfies it.
type TransactionStore interface {
	CreateSignTransaction(ctx context.Context, arg database.CreateSignTransactionParams) (database.SignTransaction, error)
	GetSignTransaction(ctx context.Context, transactionID string) (database.SignTransaction, error)
	CompleteSignTransaction(ctx context.Context, arg database.CompleteSignTransactionParams) (int64, error)
	InsertStatusHistory(ctx context.Context, arg database.InsertStatusHistoryParams) error
}
