// Package store persists forms and their entries. Schema blobs
// (fields, steps, settings, styling, embedding, pages) are opaque JSON
// text columns; the looseness stays isolated here, behind decode into
// the typed model.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/formhive/formhive/model"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrConflict = errors.New("store: version conflict")
)

// CreateForm inserts a new form document, assigning its id and
// initial version.
func CreateForm(ctx context.Context, db *sql.DB, form *model.Form) error {
	if form.ID == "" {
		form.ID = uuid.NewString()
	}
	form.Version = 1
	now := time.Now().UTC()
	form.CreatedAt = now
	form.UpdatedAt = now

	fields, err := marshalNullable(form.Fields)
	if err != nil {
		return err
	}
	steps, err := marshalNullable(form.Steps)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(form.Settings)
	if err != nil {
		return err
	}
	styling, err := marshalNullable(form.Styling)
	if err != nil {
		return err
	}
	embedding, err := json.Marshal(form.Embedding)
	if err != nil {
		return err
	}
	thankYou, err := marshalNullable(form.ThankYouPage)
	if err != nil {
		return err
	}
	errorPage, err := marshalNullable(form.ErrorPage)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO form (
			id, organization_id, title, description,
			is_active, is_multistep, fields, steps,
			settings, styling, embedding, thank_you_page, error_page,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		form.ID, form.OrganizationID, form.Title, form.Description,
		form.IsActive, form.IsMultistep, fields, steps,
		string(settings), styling, string(embedding), thankYou, errorPage,
		form.Version, form.CreatedAt, form.UpdatedAt,
	)
	return err
}

// GetForm loads a form by id regardless of its active flag.
func GetForm(ctx context.Context, db *sql.DB, id string) (*model.Form, error) {
	row := db.QueryRowContext(ctx, `
		SELECT
			id, organization_id, title, description,
			is_active, is_multistep, fields, steps,
			settings, styling, embedding, thank_you_page, error_page,
			version, created_at, updated_at
		FROM form
		WHERE id = ?`,
		id,
	)
	return scanForm(row)
}

// GetActiveForm loads a form for the public endpoints: inactive and
// missing forms are indistinguishable to anonymous callers.
func GetActiveForm(ctx context.Context, db *sql.DB, id string) (*model.Form, error) {
	form, err := GetForm(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if !form.IsActive {
		return nil, ErrNotFound
	}
	return form, nil
}

// ListForms returns every form owned by the organization.
func ListForms(ctx context.Context, db *sql.DB, orgID string) ([]model.Form, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
			id, organization_id, title, description,
			is_active, is_multistep, fields, steps,
			settings, styling, embedding, thank_you_page, error_page,
			version, created_at, updated_at
		FROM form
		WHERE organization_id = ?
		ORDER BY created_at DESC`,
		orgID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []model.Form{}
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, *form)
	}
	return forms, rows.Err()
}

// UpdateForm replaces the form's content under optimistic locking:
// the caller's version must match the stored one or ErrConflict.
func UpdateForm(ctx context.Context, db *sql.DB, form *model.Form) error {
	fields, err := marshalNullable(form.Fields)
	if err != nil {
		return err
	}
	steps, err := marshalNullable(form.Steps)
	if err != nil {
		return err
	}
	settings, err := json.Marshal(form.Settings)
	if err != nil {
		return err
	}
	styling, err := marshalNullable(form.Styling)
	if err != nil {
		return err
	}
	embedding, err := json.Marshal(form.Embedding)
	if err != nil {
		return err
	}
	thankYou, err := marshalNullable(form.ThankYouPage)
	if err != nil {
		return err
	}
	errorPage, err := marshalNullable(form.ErrorPage)
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		UPDATE form
		SET
			title = ?, description = ?,
			is_active = ?, is_multistep = ?, fields = ?, steps = ?,
			settings = ?, styling = ?, embedding = ?,
			thank_you_page = ?, error_page = ?,
			version = version + 1, updated_at = ?
		WHERE id = ?
			AND version = ?`,
		form.Title, form.Description,
		form.IsActive, form.IsMultistep, fields, steps,
		string(settings), styling, string(embedding),
		thankYou, errorPage,
		time.Now().UTC(),
		form.ID, form.Version,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrConflict)
}

// UpdateEmbedding replaces only the embedding settings blob.
func UpdateEmbedding(ctx context.Context, db *sql.DB, id string, emb model.FormEmbedding) error {
	embedding, err := json.Marshal(emb)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `
		UPDATE form
		SET embedding = ?, updated_at = ?
		WHERE id = ?`,
		string(embedding), time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// DeleteForm removes the form; its entries go with it (cascade).
func DeleteForm(ctx context.Context, db *sql.DB, id string) error {
	res, err := db.ExecContext(ctx, "DELETE FROM form WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

// InsertEntry persists one submission. Answers already contain the
// _metadata sub-object assembled by the endpoint.
func InsertEntry(ctx context.Context, db *sql.DB, formID string, answers map[string]any) (*model.FormEntry, error) {
	entry := &model.FormEntry{
		ID:        uuid.NewString(),
		FormID:    formID,
		Answers:   answers,
		CreatedAt: time.Now().UTC(),
	}
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO form_entry (id, form_id, answers, created_at)
		VALUES (?, ?, ?, ?)`,
		entry.ID, entry.FormID, string(answersJSON), entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries returns a form's submissions, newest first.
func ListEntries(ctx context.Context, db *sql.DB, formID string) ([]model.FormEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, form_id, answers, created_at
		FROM form_entry
		WHERE form_id = ?
		ORDER BY created_at DESC`,
		formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.FormEntry{}
	for rows.Next() {
		e := model.FormEntry{}
		var answers string
		if err := rows.Scan(&e.ID, &e.FormID, &answers, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(answers), &e.Answers); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HasSubmissionFromIP reports whether the form already has an entry
// whose recorded metadata IP matches clientKey. Heuristic identity:
// shared or rotating addresses make this both over- and under-match.
func HasSubmissionFromIP(ctx context.Context, db *sql.DB, formID, clientKey string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM form_entry
			WHERE form_id = ?
				AND json_extract(answers, '$._metadata.ipAddress') = ?
		)`,
		formID, clientKey,
	).Scan(&exists)
	return exists, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanForm(row scanner) (*model.Form, error) {
	form := model.Form{}
	var fields, steps, styling, thankYou, errorPage sql.NullString
	var settings, embedding string

	err := row.Scan(
		&form.ID, &form.OrganizationID, &form.Title, &form.Description,
		&form.IsActive, &form.IsMultistep, &fields, &steps,
		&settings, &styling, &embedding, &thankYou, &errorPage,
		&form.Version, &form.CreatedAt, &form.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := unmarshalNullable(fields, &form.Fields); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(steps, &form.Steps); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(settings), &form.Settings); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(styling, &form.Styling); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(embedding), &form.Embedding); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(thankYou, &form.ThankYouPage); err != nil {
		return nil, err
	}
	if err := unmarshalNullable(errorPage, &form.ErrorPage); err != nil {
		return nil, err
	}
	return &form, nil
}

func marshalNullable(v any) (any, error) {
	if isNil(v) {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalNullable(col sql.NullString, dst any) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}

func isNil(v any) bool {
	switch v := v.(type) {
	case []model.FormField:
		return v == nil
	case []model.FormStep:
		return v == nil
	case map[string]any:
		return v == nil
	}
	return v == nil
}

func expectOneRow(res sql.Result, sentinel error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n < 1 {
		return sentinel
	}
	return nil
}
