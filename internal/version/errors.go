package version

import (
	"fmt"
)

// SchemaVersionError indicates a schema version problem during config read.
type SchemaVersionError struct {
	FileType    string // "global config"
	FilePath    string // Path to the problematic file
	Found       string // What was found (e.g., "missing", "global/2")
	Expected    string // What was expected (e.g., "global/1")
	MinRequired string // Minimum Elysian version required (if upgrade needed)
}

func (e *SchemaVersionError) Error() string {
	if e.MinRequired != "" {
		return fmt.Sprintf(
			"%s schema version %s requires Elysian >= %s (file: %s, supports up to: %s)",
			e.FileType, e.Found, e.MinRequired, e.FilePath, e.Expected,
		)
	}
	if e.Found == "missing" {
		return fmt.Sprintf(
			"%s has no schema version (file: %s). Add elysian_schema = %q.",
			e.FileType, e.FilePath, e.Expected,
		)
	}
	return fmt.Sprintf(
		"%s has invalid schema version: found %s, expected %s (file: %s)",
		e.FileType, e.Found, e.Expected, e.FilePath,
	)
}

// MissingGlobalSchema creates an error for a global config missing elysian_schema.
func MissingGlobalSchema(path string) error {
	return &SchemaVersionError{
		FileType: "global config",
		FilePath: path,
		Found:    "missing",
		Expected: CurrentGlobalSchema(),
	}
}

// InvalidGlobalSchema creates an error for a global config with unsupported schema.
func InvalidGlobalSchema(path, found string) error {
	e := &SchemaVersionError{
		FileType: "global config",
		FilePath: path,
		Found:    found,
		Expected: CurrentGlobalSchema(),
	}
	// Check if it's a future version
	if v, err := ParseGlobalVersion(found); err == nil && v > CurrentGlobalVersion {
		if minVersion, ok := MinElysianVersion[found]; ok {
			e.MinRequired = minVersion
		} else {
			e.MinRequired = "a newer version"
		}
	}
	return e
}
