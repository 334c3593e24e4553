package healthcheck

import (
	"fmt"

	lookup "github.com/mcuadros/go-lookup"
)

// LookupField resolves a dotted field path (e.g. "FailingStreak" or
// "Status") against a TimerSnapshot, for the --inspect-field CLI mode. The
// same go-lookup package the teacher uses to resolve a StatPath against a
// stats struct is used here identically against this engine's own struct.
func LookupField(snapshot TimerSnapshot, path string) (string, error) {
	value, err := lookup.LookupString(snapshot, path)
	if err != nil {
		return "", fmt.Errorf("inspecting field %q: %w", path, err)
	}
	return fmt.Sprintf("%v", value.Interface()), nil
}
