package domain

// ProgramStructure maps a sub-program to its owning (function, unit) pair.
// A sub-program name maps to exactly one pair; the directory is keyed by
// sub-program.
type ProgramStructure struct {
	SubProgram string `json:"sub_program"`
	Unit       string `json:"unit"`
	Function   string `json:"function"`
}

// TeamSubProgramMap associates a sub-program with a team, function and unit
// for display filtering. It is an independently-owned view, entered by
// admins, parallel to ProgramStructure.
type TeamSubProgramMap struct {
	SubProgram string `json:"sub_program"`
	Team       string `json:"team"`
	Function   string `json:"function"`
	Unit       string `json:"unit"`
}

// StructureMismatch reports one divergence between the structure directory
// and the team map, produced by reconciliation tooling.
type StructureMismatch struct {
	SubProgram string `json:"sub_program"`
	Field      string `json:"field"` // "missing-in-team-map", "missing-in-structure", "unit", "function"
	Structure  string `json:"structure_value,omitempty"`
	TeamMap    string `json:"team_map_value,omitempty"`
}
