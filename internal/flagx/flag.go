// Package flagx contains a small helper for splitting command-line
// arguments between independent flag sets.
package flagx

import "strings"

// FilterArgs returns the subset of args containing only the allowed flags
// and their values. Two forms are recognized: a flag with a separate value
// ("-c conf.json") and a combined form ("--config=conf.json"). Arguments
// for flags outside allowedFlags are dropped, which lets each component
// parse its own flags without tripping over the others'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		// "--flag=value" form
		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		// separate-value form; a following token that starts with "-" is
		// treated as the next flag, not a value
		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}
