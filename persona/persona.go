// Package persona loads the bot's system instruction from a markdown file
// with optional YAML frontmatter.
package persona

import (
	"bufio"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/JAssiston43/whatsapp-ai-bot/internal/fsstore"
)

const defaultSystem = "You are a helpful WhatsApp assistant. Answer briefly and plainly; the reply is rendered on a phone screen. Do not use markdown."

type Frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type Persona struct {
	Name        string
	Description string
	System      string
}

// Default returns the built-in persona used when no file is configured.
func Default() Persona {
	return Persona{Name: "assistant", System: defaultSystem}
}

// Load reads a persona file. A missing file falls back to the default; a
// present-but-unreadable file is an error so a bad deployment is noticed.
func Load(path string) (Persona, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	contents, ok, err := fsstore.ReadText(path)
	if err != nil {
		return Persona{}, fmt.Errorf("persona: %w", err)
	}
	if !ok {
		return Default(), nil
	}

	fm, body, _ := parseFrontmatter(contents)
	system := strings.TrimSpace(body)
	if system == "" {
		system = defaultSystem
	}
	name := strings.TrimSpace(fm.Name)
	if name == "" {
		name = "assistant"
	}
	return Persona{
		Name:        name,
		Description: strings.TrimSpace(fm.Description),
		System:      system,
	}, nil
}

func parseFrontmatter(contents string) (Frontmatter, string, bool) {
	sc := bufio.NewScanner(strings.NewReader(contents))
	if !sc.Scan() {
		return Frontmatter{}, contents, false
	}
	if strings.TrimSpace(sc.Text()) != "---" {
		return Frontmatter{}, contents, false
	}

	var yamlLines []string
	var bodyLines []string
	foundEnd := false
	for sc.Scan() {
		line := sc.Text()
		if !foundEnd {
			if strings.TrimSpace(line) == "---" {
				foundEnd = true
				continue
			}
			yamlLines = append(yamlLines, line)
			continue
		}
		bodyLines = append(bodyLines, line)
	}
	if !foundEnd {
		return Frontmatter{}, contents, false
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(yamlLines, "\n")), &fm); err != nil {
		return Frontmatter{}, strings.Join(bodyLines, "\n"), false
	}
	return fm, strings.Join(bodyLines, "\n"), true
}
