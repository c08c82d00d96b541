package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Current schema versions - bump these when making breaking changes.
//
// The deck document carries no schema tag by contract; only the global
// config is versioned.
//
// CHECKLIST when bumping a version:
//  1. Update the constant below
//  2. Add entry to MinElysianVersion map (tested by TestMinElysianVersionCompleteness)
const (
	CurrentGlobalVersion = 1
)

// GlobalSchemaPrefix is the schema type prefix for the global config.
const GlobalSchemaPrefix = "global/"

// MinElysianVersion maps schema identifiers to the minimum Elysian version required.
// Used to provide helpful upgrade messages when encountering newer schemas.
var MinElysianVersion = map[string]string{
	"global/1": "0.1.0",
}

// FormatGlobalSchema creates a global schema string from a version number.
// Example: FormatGlobalSchema(1) returns "global/1"
func FormatGlobalSchema(v int) string {
	return fmt.Sprintf("%s%d", GlobalSchemaPrefix, v)
}

// ParseGlobalVersion extracts the version number from a global schema string.
// Returns an error if the format is invalid.
func ParseGlobalVersion(schema string) (int, error) {
	return parseSchemaVersion(schema, GlobalSchemaPrefix, "global")
}

func parseSchemaVersion(schema, prefix, schemaType string) (int, error) {
	if !strings.HasPrefix(schema, prefix) {
		return 0, fmt.Errorf("invalid %s schema format: %q (expected %sN)", schemaType, schema, prefix)
	}
	versionStr := strings.TrimPrefix(schema, prefix)
	v, err := strconv.Atoi(versionStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s schema version: %q", schemaType, versionStr)
	}
	if v < 1 {
		return 0, fmt.Errorf("invalid %s schema version: %d (must be >= 1)", schemaType, v)
	}
	return v, nil
}

// CurrentGlobalSchema returns the current global schema string.
func CurrentGlobalSchema() string {
	return FormatGlobalSchema(CurrentGlobalVersion)
}
