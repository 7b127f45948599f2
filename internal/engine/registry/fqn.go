// # internal/engine/registry/fqn.go
package registry

import (
	"regexp"
	"strings"

	"classlink/internal/core/errors"
)

// MaxFQNLength is the soft length cap. Longer names register fine but are
// surfaced as warnings.
const MaxFQNLength = 255

var fqnPattern = regexp.MustCompile(`^[A-Za-z_]\w*(\.[A-Za-z_]\w*)*$`)

// ValidateFQN checks structural well-formedness: non-empty, no empty
// segments, dot-separated identifiers. Length is deliberately not checked
// here; see IsOverlongFQN.
func ValidateFQN(fqn string) error {
	if fqn == "" {
		return errors.New(errors.CodeValidationError, "fqn must not be empty")
	}
	if strings.Contains(fqn, "..") {
		return errors.New(errors.CodeValidationError, "fqn contains an empty segment")
	}
	if !fqnPattern.MatchString(fqn) {
		return errors.New(errors.CodeValidationError, "fqn must be dot-separated identifiers")
	}
	return nil
}

// IsOverlongFQN reports whether the fqn exceeds the soft length cap.
func IsOverlongFQN(fqn string) bool {
	return len(fqn) > MaxFQNLength
}
