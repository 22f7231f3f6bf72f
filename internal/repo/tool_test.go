package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/toolhub/toolhub/internal/models"
)

func toolColumnsList() []string {
	return []string{
		"id", "class", "label", "description", "owner", "contributor",
		"inputs", "outputs", "base_command", "arguments", "requirements", "hints",
		"cwl_version", "stdin", "stdout",
		"success_codes", "temporary_fail_codes", "permanent_fail_codes",
		"created_at", "updated_at",
	}
}

func toolRow(rows *sqlmock.Rows, id string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(
		id, "CommandLineTool", "BWA MEM", "aligner", "{alice}", "{}",
		[]byte(`[{"id":"reads","required":true}]`), []byte(`[]`),
		[]byte(`["bwa","mem"]`), nil, nil, nil,
		"cwl:draft-2", "", "",
		"{0}", "{}", "{}",
		now, now,
	)
}

func TestToolRepo_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM tools WHERE id = \$1`).
		WithArgs("bwa-mem").
		WillReturnRows(toolRow(sqlmock.NewRows(toolColumnsList()), "bwa-mem"))

	repo := NewToolRepo(db)
	tool, err := repo.GetByID(context.Background(), "bwa-mem")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if tool.ID != "bwa-mem" || tool.Class != "CommandLineTool" || tool.Label != "BWA MEM" {
		t.Errorf("unexpected tool: %+v", tool)
	}
	if len(tool.Inputs) != 1 || tool.Inputs[0].ID != "reads" {
		t.Errorf("unexpected inputs: %+v", tool.Inputs)
	}
	if len(tool.Owner) != 1 || tool.Owner[0] != "alice" {
		t.Errorf("unexpected owner: %+v", tool.Owner)
	}
	if string(tool.BaseCommand) != `["bwa","mem"]` {
		t.Errorf("unexpected baseCommand: %s", tool.BaseCommand)
	}
	if len(tool.SuccessCodes) != 1 || tool.SuccessCodes[0] != 0 {
		t.Errorf("unexpected successCodes: %+v", tool.SuccessCodes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestToolRepo_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM tools WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	repo := NewToolRepo(db)
	if _, err := repo.GetByID(context.Background(), "missing"); err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestToolRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO tools`).
		WillReturnRows(toolRow(sqlmock.NewRows(toolColumnsList()), "bwa-mem"))

	repo := NewToolRepo(db)
	tool, err := repo.Create(context.Background(), &models.Tool{
		ID:    "bwa-mem",
		Class: "CommandLineTool",
		Label: "BWA MEM",
		Owner: []string{"alice"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if tool.ID != "bwa-mem" {
		t.Errorf("unexpected tool: %+v", tool)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestToolRepo_ListPaginated(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	rows := toolRow(sqlmock.NewRows(toolColumnsList()), "bwa-mem")
	rows = toolRow(rows, "samtools-sort")
	mock.ExpectQuery(`SELECT (.+) FROM tools ORDER BY id LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	repo := NewToolRepo(db)
	tools, err := repo.ListPaginated(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("ListPaginated: %v", err)
	}
	if len(tools) != 2 || tools[0].ID != "bwa-mem" || tools[1].ID != "samtools-sort" {
		t.Errorf("unexpected tools: %+v", tools)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestToolRepo_DeleteByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`DELETE FROM tools WHERE id = \$1`).
		WithArgs("bwa-mem").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewToolRepo(db)
	if err := repo.DeleteByID(context.Background(), "bwa-mem"); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
