package registry

import (
	"fmt"
	"regexp"
	"strings"
)

const MaxNameLength = 51

var nameRegex = regexp.MustCompile(fmt.Sprintf(`^([a-zA-Z0-9][a-zA-Z0-9-]{0,%d}[a-zA-Z0-9]|[a-zA-Z0-9])$`, MaxNameLength-2))

// Names are case insensitive, the registry keeps them lowercase
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		return fmt.Errorf("%w: %q may only contain letters, digits and inner dashes", ErrInvalidName, name)
	}
	return nil
}
