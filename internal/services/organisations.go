package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/egov-mobile/qr-sign-service/app/internal/database"
	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// Sentinel organisation display names, used when a creation request does
// not identify the requesting organisation.
const (
	unknownOrgNameRu = "Неизвестная организация"
	unknownOrgNameKz = "Белгісіз ұйым"
	unknownOrgNameEn = "Unknown organisation"
)

// OrganisationResolver finds or registers the organisation behind a
// creation request.
type OrganisationResolver struct {
	store OrganisationStore
}

// NewOrganisationResolver returns a resolver backed by store.
func NewOrganisationResolver(store OrganisationStore) *OrganisationResolver {
	return &OrganisationResolver{store: store}
}

// Resolve returns the organisation row for org, creating or updating it as
// needed. A missing or blank BIN resolves to the all-zero sentinel
// organisation. Name updates happen only when a provided name actually
// differs from the stored one; an unchanged organisation causes no write.
func (r *OrganisationResolver) Resolve(ctx context.Context, org *qrsign.InitOrganisation) (database.Organisation, error) {
	if org == nil || strings.TrimSpace(org.BIN) == "" {
		return r.resolveSentinel(ctx)
	}

	bin := strings.TrimSpace(org.BIN)
	if err := sign.ValidateBIN(bin); err != nil {
		return database.Organisation{}, err
	}

	existing, err := r.store.GetOrganisationByBin(ctx, bin)
	if errors.Is(err, pgx.ErrNoRows) {
		slog.Info("registering new organisation", slog.String("bin", bin))
		created, cerr := r.store.CreateOrganisation(ctx, database.CreateOrganisationParams{
			Bin:    bin,
			NameRu: org.NameRu,
			NameKz: org.NameKz,
			NameEn: org.NameEn,
		})
		if cerr != nil {
			return database.Organisation{}, sign.WrapInternalError(cerr, "creating organisation")
		}
		return created, nil
	}
	if err != nil {
		return database.Organisation{}, sign.WrapInternalError(err, "looking up organisation")
	}

	return r.refreshNames(ctx, existing, org)
}

// refreshNames writes the organisation back only when a non-blank provided
// name differs from the stored one.
func (r *OrganisationResolver) refreshNames(ctx context.Context, existing database.Organisation, org *qrsign.InitOrganisation) (database.Organisation, error) {
	updated := existing
	needsUpdate := false

	if org.NameRu != "" && org.NameRu != existing.NameRu {
		updated.NameRu = org.NameRu
		needsUpdate = true
	}
	if org.NameKz != "" && org.NameKz != existing.NameKz {
		updated.NameKz = org.NameKz
		needsUpdate = true
	}
	if org.NameEn != "" && org.NameEn != existing.NameEn {
		updated.NameEn = org.NameEn
		needsUpdate = true
	}
	if !needsUpdate {
		return existing, nil
	}

	slog.Info("updating organisation names", slog.String("bin", existing.Bin))
	saved, err := r.store.UpdateOrganisationNames(ctx, database.UpdateOrganisationNamesParams{
		ID:     existing.ID,
		NameRu: updated.NameRu,
		NameKz: updated.NameKz,
		NameEn: updated.NameEn,
	})
	if err != nil {
		return database.Organisation{}, sign.WrapInternalError(err, "updating organisation names")
	}
	return saved, nil
}

func (r *OrganisationResolver) resolveSentinel(ctx context.Context) (database.Organisation, error) {
	existing, err := r.store.GetOrganisationByBin(ctx, sign.UnknownOrganisationBIN)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return database.Organisation{}, sign.WrapInternalError(err, "looking up sentinel organisation")
	}

	created, err := r.store.CreateOrganisation(ctx, database.CreateOrganisationParams{
		Bin:    sign.UnknownOrganisationBIN,
		NameRu: unknownOrgNameRu,
		NameKz: unknownOrgNameKz,
		NameEn: unknownOrgNameEn,
	})
	if err != nil {
		// a concurrent request may have inserted the sentinel first
		if again, gerr := r.store.GetOrganisationByBin(ctx, sign.UnknownOrganisationBIN); gerr == nil {
			return again, nil
		}
		return database.Organisation{}, sign.WrapInternalError(err, "creating sentinel organisation")
	}
	return created, nil
}
