// Package resources embeds the default name corpus and generator
// configuration used when no external files are configured.
package resources

import (
	_ "embed"
	"strings"
)

//go:embed names.txt
var namesFile string

//go:embed generators.yaml
var generatorsFile []byte

// Names returns the default training corpus.
func Names() []string {
	return ParseNames(namesFile)
}

// Generators returns the default generator configuration as YAML.
func Generators() []byte {
	out := make([]byte, len(generatorsFile))
	copy(out, generatorsFile)
	return out
}

// ParseNames splits a newline separated corpus, dropping blank lines and
// lines starting with '#'.
func ParseNames(data string) []string {
	var names []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	return names
}
