package models

import (
	"encoding/json"
	"time"
)

// CWLVersionDraft2 is the only CWL version the catalog accepts for now.
const CWLVersionDraft2 = "cwl:draft-2"

// ToolInput describes one input port of a tool. Type and the binding blocks
// are free-form CWL fragments, kept as raw JSON.
type ToolInput struct {
	ID           string          `json:"id"`
	Type         json.RawMessage `json:"type,omitempty"`
	Label        string          `json:"label,omitempty"`
	Description  string          `json:"description,omitempty"`
	Default      json.RawMessage `json:"default,omitempty"`
	InputBinding json.RawMessage `json:"inputBinding,omitempty"`
	Required     bool            `json:"required"`
}

// ToolOutput describes one output port of a tool.
type ToolOutput struct {
	ID            string          `json:"id"`
	Type          json.RawMessage `json:"type,omitempty"`
	Label         string          `json:"label,omitempty"`
	Default       json.RawMessage `json:"default,omitempty"`
	Description   string          `json:"description,omitempty"`
	OutputBinding json.RawMessage `json:"outputBinding,omitempty"`
	Required      bool            `json:"required"`
}

// Tool is a CWL command-line tool description: inputs/outputs of a single
// program that may be used in workflows.
type Tool struct {
	ID                 string          `json:"id"`
	Class              string          `json:"class"`
	Label              string          `json:"label"`
	Description        string          `json:"description,omitempty"`
	Owner              []string        `json:"owner,omitempty"`
	Contributor        []string        `json:"contributor,omitempty"`
	Inputs             []ToolInput     `json:"inputs"`
	Outputs            []ToolOutput    `json:"outputs"`
	BaseCommand        json.RawMessage `json:"baseCommand,omitempty"`
	Arguments          json.RawMessage `json:"arguments,omitempty"`
	Requirements       json.RawMessage `json:"requirements,omitempty"`
	Hints              json.RawMessage `json:"hints,omitempty"`
	CWLVersion         string          `json:"cwlVersion,omitempty"`
	Stdin              string          `json:"stdin,omitempty"`
	Stdout             string          `json:"stdout,omitempty"`
	SuccessCodes       []int64         `json:"successCodes,omitempty"`
	TemporaryFailCodes []int64         `json:"temporaryFailCodes,omitempty"`
	PermanentFailCodes []int64         `json:"permanentFailCodes,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}
