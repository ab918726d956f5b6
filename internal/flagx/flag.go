// Package flagx lets several loaders share one command line: each loader
// keeps only the flags it owns and parses them with its own FlagSet.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// ConfigFileFlags are the flag spellings that select a JSON config file.
var ConfigFileFlags = []string{"-c", "-config", "--config"}

// FilterArgs returns the subset of args made of the allowed flags and their
// values, in input order.
//
// Both "-f value" and "-f=value" forms are recognized. A token that follows an
// allowed flag is taken as its value unless it starts with '-'.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if allowed[name] {
				filtered = append(filtered, arg)
			}
			continue
		}

		if !allowed[arg] {
			continue
		}
		filtered = append(filtered, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFilePath extracts the JSON config path given via -c, -config or
// --config. The last occurrence wins; "" means no file was requested.
func ConfigFilePath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, ConfigFileFlags))

	return path
}
