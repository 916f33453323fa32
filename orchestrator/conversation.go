package orchestrator

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type conversationFile struct {
	Turns []Turn `yaml:"turns"`
}

// LoadConversation reads the turns of a conversation from a YAML file.
// Relative audio paths are resolved against the file's directory.
func LoadConversation(path string) ([]Turn, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f conversationFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("conversation %s: %w", path, err)
	}
	if len(f.Turns) == 0 {
		return nil, fmt.Errorf("conversation %s: no turns", path)
	}
	base := filepath.Dir(path)
	for i := range f.Turns {
		if a := f.Turns[i].Audio; a != "" && !filepath.IsAbs(a) {
			f.Turns[i].Audio = filepath.Join(base, a)
		}
	}
	return f.Turns, nil
}
