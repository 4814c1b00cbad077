package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ScriptList is the ordered list of script filenames read from the YAML file.
type ScriptList struct {
	Scripts []string
	// Ignored counts entries under scripts that were not plain strings.
	Ignored int
}

// scriptsFile is the raw YAML document. Only the scripts key is read;
// anything else in the file is ignored.
type scriptsFile struct {
	Scripts yaml.Node `yaml:"scripts"`
}

// LoadScripts reads the YAML file at path and returns the list under the
// scripts key. An absent or null key yields an empty list.
func LoadScripts(path string) (*ScriptList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}

		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var raw scriptsFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	list, err := fromNode(&raw.Scripts)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return list, nil
}

func fromNode(n *yaml.Node) (*ScriptList, error) {
	list := &ScriptList{}
	n = deref(n)

	switch n.Kind {
	case 0:
		return list, nil
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return list, nil
		}

		return nil, fmt.Errorf("%w (line %d)", ErrScriptsNotList, n.Line)
	case yaml.SequenceNode:
	default:
		return nil, fmt.Errorf("%w (line %d)", ErrScriptsNotList, n.Line)
	}

	for _, item := range n.Content {
		item = deref(item)
		if item.Kind != yaml.ScalarNode || item.ShortTag() != "!!str" {
			list.Ignored++
			continue
		}

		list.Scripts = append(list.Scripts, item.Value)
	}

	return list, nil
}

// deref follows aliases (*name) to the anchored node they refer to.
func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}

	return n
}
