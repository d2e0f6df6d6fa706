package metadata

import (
	"fmt"
	"strings"
)

type ChangeType string

const (
	ChangeTypeImport ChangeType = "import"
	ChangeTypeExport ChangeType = "export"
)

func NewChangeType(value string) (ChangeType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	changeType := ChangeType(normalized)
	if !changeType.IsValid() {
		return changeType, fmt.Errorf(
			"value not valid, only valid values are: %s, %s",
			ChangeTypeImport, ChangeTypeExport,
		)
	}

	return changeType, nil
}

func (t ChangeType) IsValid() bool {
	switch t {
	case ChangeTypeImport, ChangeTypeExport:
		return true
	default:
		return false
	}
}

// SignedDelta converts a stored positive quantity into the delta applied
// to equipment stock: positive for import, negative for export.
func (t ChangeType) SignedDelta(quantity int) int {
	if t == ChangeTypeExport {
		return -quantity
	}
	return quantity
}

func (t ChangeType) String() string {
	return string(t)
}
