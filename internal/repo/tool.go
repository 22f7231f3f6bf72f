package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/toolhub/toolhub/internal/models"
)

// ========================
// REPOSITORY STRUCT
// ========================

type ToolRepo struct {
	DB *sql.DB
}

func NewToolRepo(db *sql.DB) *ToolRepo {
	return &ToolRepo{DB: db}
}

const toolColumns = `id, class, label, COALESCE(description, ''), owner, contributor,
	inputs, outputs, base_command, arguments, requirements, hints,
	COALESCE(cwl_version, ''), COALESCE(stdin, ''), COALESCE(stdout, ''),
	success_codes, temporary_fail_codes, permanent_fail_codes, created_at, updated_at`

// jsonbArg prepares a raw JSON fragment for a jsonb parameter. Empty fragments
// become NULL instead of an invalid empty string.
func jsonbArg(m json.RawMessage) interface{} {
	if len(m) == 0 {
		return nil
	}
	return string(m)
}

// jsonbSlice marshals v for a jsonb parameter.
func jsonbSlice(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ========================
// CREATE TOOL
// ========================

func (r *ToolRepo) Create(ctx context.Context, t *models.Tool) (models.Tool, error) {
	inputs, err := jsonbSlice(t.Inputs)
	if err != nil {
		return models.Tool{}, err
	}
	outputs, err := jsonbSlice(t.Outputs)
	if err != nil {
		return models.Tool{}, err
	}

	row := r.DB.QueryRowContext(ctx,
		`INSERT INTO tools (id, class, label, description, owner, contributor,
		                    inputs, outputs, base_command, arguments, requirements, hints,
		                    cwl_version, stdin, stdout,
		                    success_codes, temporary_fail_codes, permanent_fail_codes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		 RETURNING `+toolColumns,
		t.ID, t.Class, t.Label, t.Description,
		pq.Array(t.Owner), pq.Array(t.Contributor),
		inputs, outputs,
		jsonbArg(t.BaseCommand), jsonbArg(t.Arguments), jsonbArg(t.Requirements), jsonbArg(t.Hints),
		t.CWLVersion, t.Stdin, t.Stdout,
		pq.Array(t.SuccessCodes), pq.Array(t.TemporaryFailCodes), pq.Array(t.PermanentFailCodes),
	)
	return scanTool(row)
}

// ========================
// GET TOOL BY ID
// ========================

func (r *ToolRepo) GetByID(ctx context.Context, id string) (models.Tool, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+toolColumns+` FROM tools WHERE id = $1`, id)
	return scanTool(row)
}

// ========================
// LIST TOOLS (PAGINATED)
// ========================

func (r *ToolRepo) ListPaginated(ctx context.Context, limit, offset int) ([]models.Tool, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+toolColumns+` FROM tools ORDER BY id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []models.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// ========================
// SEARCH TOOLS BY LABEL
// ========================

func (r *ToolRepo) SearchPaginated(ctx context.Context, label string, limit, offset int) ([]models.Tool, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+toolColumns+` FROM tools WHERE label ILIKE '%' || $1 || '%' ORDER BY id LIMIT $2 OFFSET $3`,
		label, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tools []models.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		tools = append(tools, t)
	}
	return tools, rows.Err()
}

// ========================
// COUNT TOOLS
// ========================

func (r *ToolRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM tools`).Scan(&n)
	return n, err
}

// ========================
// UPDATE TOOL BY ID
// ========================

func (r *ToolRepo) UpdateByID(ctx context.Context, t *models.Tool) (models.Tool, error) {
	inputs, err := jsonbSlice(t.Inputs)
	if err != nil {
		return models.Tool{}, err
	}
	outputs, err := jsonbSlice(t.Outputs)
	if err != nil {
		return models.Tool{}, err
	}

	row := r.DB.QueryRowContext(ctx,
		`UPDATE tools
		 SET class = $2, label = $3, description = $4, owner = $5, contributor = $6,
		     inputs = $7, outputs = $8, base_command = $9, arguments = $10,
		     requirements = $11, hints = $12, cwl_version = $13, stdin = $14, stdout = $15,
		     success_codes = $16, temporary_fail_codes = $17, permanent_fail_codes = $18,
		     updated_at = now()
		 WHERE id = $1
		 RETURNING `+toolColumns,
		t.ID, t.Class, t.Label, t.Description,
		pq.Array(t.Owner), pq.Array(t.Contributor),
		inputs, outputs,
		jsonbArg(t.BaseCommand), jsonbArg(t.Arguments), jsonbArg(t.Requirements), jsonbArg(t.Hints),
		t.CWLVersion, t.Stdin, t.Stdout,
		pq.Array(t.SuccessCodes), pq.Array(t.TemporaryFailCodes), pq.Array(t.PermanentFailCodes),
	)
	return scanTool(row)
}

// ========================
// DELETE TOOL BY ID
// ========================

func (r *ToolRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM tools WHERE id = $1`, id)
	return err
}

// ========================
// ROW SCANNING
// ========================

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTool(row rowScanner) (models.Tool, error) {
	var (
		t                      models.Tool
		inputs, outputs        []byte
		baseCommand, arguments []byte
		requirements, hints    []byte
	)

	err := row.Scan(
		&t.ID, &t.Class, &t.Label, &t.Description,
		pq.Array(&t.Owner), pq.Array(&t.Contributor),
		&inputs, &outputs, &baseCommand, &arguments, &requirements, &hints,
		&t.CWLVersion, &t.Stdin, &t.Stdout,
		pq.Array(&t.SuccessCodes), pq.Array(&t.TemporaryFailCodes), pq.Array(&t.PermanentFailCodes),
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return t, err
	}

	if len(inputs) > 0 {
		if err := json.Unmarshal(inputs, &t.Inputs); err != nil {
			return t, err
		}
	}
	if len(outputs) > 0 {
		if err := json.Unmarshal(outputs, &t.Outputs); err != nil {
			return t, err
		}
	}
	t.BaseCommand = json.RawMessage(baseCommand)
	t.Arguments = json.RawMessage(arguments)
	t.Requirements = json.RawMessage(requirements)
	t.Hints = json.RawMessage(hints)

	return t, nil
}
