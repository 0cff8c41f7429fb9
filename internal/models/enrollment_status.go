package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// EnrollmentStatus is the lifecycle stage of an enrollment. Transitions only
// move forward: Tentative, then InProgress, then Completed.
type EnrollmentStatus uint8

const (
	// EnrollmentStatusUnknown is what unrecognized stored data decodes to.
	EnrollmentStatusUnknown EnrollmentStatus = iota
	EnrollmentStatusTentative
	EnrollmentStatusInProgress
	EnrollmentStatusCompleted
)

var statusCodes = map[EnrollmentStatus]string{
	EnrollmentStatusTentative:  "TENTATIVE",
	EnrollmentStatusInProgress: "IN_PROGRESS",
	EnrollmentStatusCompleted:  "COMPLETED",
}

// legacy rows written by the first generation of the system
var legacyStatusCodes = map[string]EnrollmentStatus{
	"仮申し込み": EnrollmentStatusTentative,
	"受講中":   EnrollmentStatusInProgress,
	"完了":    EnrollmentStatusCompleted,
}

// ParseEnrollmentStatus resolves a stored or user supplied code. Matching is
// case-insensitive and also accepts hyphenated forms such as "in-progress".
func ParseEnrollmentStatus(raw string) (EnrollmentStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if s, ok := legacyStatusCodes[trimmed]; ok {
		return s, nil
	}
	code := strings.ToUpper(strings.ReplaceAll(trimmed, "-", "_"))
	for s, c := range statusCodes {
		if c == code {
			return s, nil
		}
	}
	return EnrollmentStatusUnknown, fmt.Errorf("unknown enrollment status %q", raw)
}

// String returns the stored code.
func (s EnrollmentStatus) String() string {
	if c, ok := statusCodes[s]; ok {
		return c
	}
	return "UNKNOWN"
}

// Valid reports whether s is one of the three lifecycle stages.
func (s EnrollmentStatus) Valid() bool {
	_, ok := statusCodes[s]
	return ok
}

// Value implements driver.Valuer.
func (s EnrollmentStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot store enrollment status %d", uint8(s))
	}
	return s.String(), nil
}

// Scan implements sql.Scanner. Unrecognized values decode to Unknown instead
// of failing so that callers can reject them with a domain error.
func (s *EnrollmentStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		*s, _ = ParseEnrollmentStatus(v)
	case []byte:
		*s, _ = ParseEnrollmentStatus(string(v))
	case nil:
		*s = EnrollmentStatusUnknown
	default:
		return fmt.Errorf("unsupported enrollment status type %T", src)
	}
	return nil
}

// StoredCodes lists every value a row in this stage may hold, the current code
// first and the legacy code after it. Unknown has none.
func (s EnrollmentStatus) StoredCodes() []string {
	code, ok := statusCodes[s]
	if !ok {
		return nil
	}
	codes := []string{code}
	for legacy, status := range legacyStatusCodes {
		if status == s {
			codes = append(codes, legacy)
		}
	}
	return codes
}

// MarshalText implements encoding.TextMarshaler.
func (s EnrollmentStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *EnrollmentStatus) UnmarshalText(text []byte) error {
	parsed, err := ParseEnrollmentStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
