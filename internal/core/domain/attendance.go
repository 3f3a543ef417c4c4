package domain

import "strings"

// AttendanceRecord is one fact per (member, date, sub-program). The ID is
// the deterministic composite key, so saving twice overwrites instead of
// duplicating. Function, unit, gender and paid type are denormalized at
// write time for reporting.
type AttendanceRecord struct {
	ID         string `json:"id"`
	MemberID   string `json:"member_id"`
	MemberName string `json:"member_name"`
	Date       string `json:"date"` // YYYY-MM-DD
	SubProgram string `json:"sub_program"`
	Function   string `json:"function"`
	Unit       string `json:"unit"`
	Gender     string `json:"gender"`
	PaidType   string `json:"paid_type"`
	Attended   bool   `json:"attended"`
}

// AttendanceKey builds the composite key guaranteeing idempotent upserts.
func AttendanceKey(memberID, date, subProgram string) string {
	return memberID + "_" + date + "_" + subProgram
}

// Key returns the record's composite key, computing it when unset.
func (r AttendanceRecord) Key() string {
	if r.ID != "" {
		return r.ID
	}
	return AttendanceKey(r.MemberID, r.Date, r.SubProgram)
}

// AttendanceStats is the aggregate over a date range.
type AttendanceStats struct {
	Total   int `json:"total"`
	Present int `json:"present"`
}

// IsPresent is the single canonical predicate for "this member is present".
// The persisted field has historically held booleans, localized strings and
// legacy markers, so raw truthy checks are not reliable; every consumer of
// the attended value must go through here. Total over any input, never
// panics.
func IsPresent(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "출석", "present", "y", "1":
			return true
		}
		return false
	default:
		return false
	}
}
