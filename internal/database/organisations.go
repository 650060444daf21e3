package database

import "context"

const getOrganisationByBin = `
SELECT id, bin, name_ru, name_kz, name_en, created_at, updated_at
FROM organisations
WHERE bin = $1
`

// GetOrganisationByBin returns the organisation registered under bin, or
// pgx.ErrNoRows.
func (q *Queries) GetOrganisationByBin(ctx context.Context, bin string) (Organisation, error) {
	row := q.db.QueryRow(ctx, getOrganisationByBin, bin)
	var o Organisation
	err := row.Scan(&o.ID, &o.Bin, &o.NameRu, &o.NameKz, &o.NameEn, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const getOrganisationByID = `
SELECT id, bin, name_ru, name_kz, name_en, created_at, updated_at
FROM organisations
WHERE id = $1
`

// GetOrganisationByID returns the organisation row with the given id, or
// pgx.ErrNoRows.
func (q *Queries) GetOrganisationByID(ctx context.Context, id int64) (Organisation, error) {
	row := q.db.QueryRow(ctx, getOrganisationByID, id)
	var o Organisation
	err := row.Scan(&o.ID, &o.Bin, &o.NameRu, &o.NameKz, &o.NameEn, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const createOrganisation = `
INSERT INTO organisations (bin, name_ru, name_kz, name_en)
VALUES ($1, $2, $3, $4)
RETURNING id, bin, name_ru, name_kz, name_en, created_at, updated_at
`

type CreateOrganisationParams struct {
	Bin    string
	NameRu string
	NameKz string
	NameEn string
}

// CreateOrganisation inserts a new organisation row.
func (q *Queries) CreateOrganisation(ctx context.Context, arg CreateOrganisationParams) (Organisation, error) {
	row := q.db.QueryRow(ctx, createOrganisation, arg.Bin, arg.NameRu, arg.NameKz, arg.NameEn)
	var o Organisation
	err := row.Scan(&o.ID, &o.Bin, &o.NameRu, &o.NameKz, &o.NameEn, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

const updateOrganisationNames = `
UPDATE organisations
SET name_ru = $2, name_kz = $3, name_en = $4, updated_at = now()
WHERE id = $1
RETURNING id, bin, name_ru, name_kz, name_en, created_at, updated_at
`

type UpdateOrganisationNamesParams struct {
	ID     int64
	NameRu string
	NameKz string
	NameEn string
}

// UpdateOrganisationNames replaces the display names of an existing
// organisation.
func (q *Queries) UpdateOrganisationNames(ctx context.Context, arg UpdateOrganisationNamesParams) (Organisation, error) {
	row := q.db.QueryRow(ctx, updateOrganisationNames, arg.ID, arg.NameRu, arg.NameKz, arg.NameEn)
	var o Organisation
	err := row.Scan(&o.ID, &o.Bin, &o.NameRu, &o.NameKz, &o.NameEn, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
