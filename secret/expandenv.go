package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnvStrict expands ${VAR} references in s. A reference to a
// variable missing from the environment is an error rather than an
// empty substitution; a typo in an endpoint variable should fail fast,
// not dial nothing. "$$" escapes a literal dollar sign.
func ExpandEnvStrict(s string) (string, error) {
	const escaped = "\x00querycache\x00"
	s = strings.ReplaceAll(s, "$$", escaped)

	var missing []string
	seen := make(map[string]bool)
	out := envRefPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := match[2 : len(match)-1]
		v, ok := os.LookupEnv(key)
		if !ok {
			if !seen[key] {
				seen[key] = true
				missing = append(missing, key)
			}
			return match
		}
		return v
	})
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", fmt.Errorf("secret: missing environment variables: %s", strings.Join(missing, ", "))
	}

	return strings.ReplaceAll(out, escaped, "$"), nil
}
