// Package navigation models the picker's screen flow as an explicit state machine.
package navigation

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

//go:embed menu.yaml
var defaultMenu []byte

// Group is a broad muscle group button and the specific muscles behind it.
type Group struct {
	Key     string   `yaml:"key" json:"key"`
	Label   string   `yaml:"label" json:"label"`
	Muscles []string `yaml:"muscles" json:"muscles"`
}

// Menu holds every option the screens can offer.
type Menu struct {
	Equipment []domain.EquipmentType `yaml:"equipment" json:"equipment"`
	Groups    []Group                `yaml:"groups" json:"groups"`
}

// DefaultMenu returns the menu shipped with the application.
func DefaultMenu() Menu {
	m, err := ParseMenu(defaultMenu)
	if err != nil {
		panic(fmt.Sprintf("embedded menu: %v", err))
	}
	return m
}

// ParseMenu decodes and validates a YAML menu definition.
func ParseMenu(data []byte) (Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Menu{}, fmt.Errorf("decode menu: %w", err)
	}
	if err := m.validate(); err != nil {
		return Menu{}, err
	}
	return m, nil
}

func (m Menu) validate() error {
	if len(m.Equipment) == 0 {
		return fmt.Errorf("menu has no equipment options")
	}
	for _, eq := range m.Equipment {
		if _, ok := domain.ParseEquipmentType(string(eq)); !ok {
			return fmt.Errorf("menu equipment %q is not a known equipment type", eq)
		}
	}
	if len(m.Groups) == 0 {
		return fmt.Errorf("menu has no muscle groups")
	}
	seen := make(map[string]struct{}, len(m.Groups))
	for _, g := range m.Groups {
		if strings.TrimSpace(g.Key) == "" || strings.TrimSpace(g.Label) == "" {
			return fmt.Errorf("menu group needs a key and a label")
		}
		if _, dup := seen[g.Key]; dup {
			return fmt.Errorf("menu group %q declared twice", g.Key)
		}
		seen[g.Key] = struct{}{}
		if len(g.Muscles) == 0 {
			return fmt.Errorf("menu group %q has no muscles", g.Key)
		}
	}
	return nil
}

func (m Menu) group(key string) (Group, bool) {
	for _, g := range m.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return Group{}, false
}

func (m Menu) hasEquipment(eq domain.EquipmentType) bool {
	for _, candidate := range m.Equipment {
		if candidate == eq {
			return true
		}
	}
	return false
}
