package navigation

import (
	"errors"
	"fmt"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
)

// Screen identifies one step of the picker flow.
type Screen int

const (
	ScreenEquipment Screen = iota
	ScreenMuscleGroup
	ScreenTargetArea
	ScreenResults
)

func (s Screen) String() string {
	switch s {
	case ScreenEquipment:
		return "equipment"
	case ScreenMuscleGroup:
		return "muscle_group"
	case ScreenTargetArea:
		return "target_area"
	case ScreenResults:
		return "results"
	default:
		return fmt.Sprintf("screen(%d)", int(s))
	}
}

// ErrInvalidTransition is returned when an event does not apply to the current screen.
var ErrInvalidTransition = errors.New("invalid transition")

// State is the user's position in the flow together with the choices made so far.
type State struct {
	Screen    Screen
	Equipment domain.EquipmentType
	Group     string
	Muscle    string
}

// Event is a user action.
type Event struct {
	kind  eventKind
	value string
}

type eventKind int

const (
	eventChooseEquipment eventKind = iota
	eventChooseGroup
	eventChooseMuscle
	eventBack
	eventStartOver
)

// ChooseEquipment selects an equipment label on the equipment screen.
func ChooseEquipment(label string) Event { return Event{kind: eventChooseEquipment, value: label} }

// ChooseGroup selects a broad muscle group by key.
func ChooseGroup(key string) Event { return Event{kind: eventChooseGroup, value: key} }

// ChooseMuscle selects a specific muscle.
func ChooseMuscle(name string) Event { return Event{kind: eventChooseMuscle, value: name} }

// Back returns to the previous screen.
func Back() Event { return Event{kind: eventBack} }

// StartOver resets to the equipment screen.
func StartOver() Event { return Event{kind: eventStartOver} }

// Option is one button on a screen. Value is what the matching event carries.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Navigator applies events against a menu.
type Navigator struct {
	menu Menu
}

// NewNavigator builds a navigator over menu.
func NewNavigator(menu Menu) *Navigator {
	return &Navigator{menu: menu}
}

// Menu returns the menu the navigator was built with.
func (n *Navigator) Menu() Menu { return n.menu }

// Start returns the initial state.
func Start() State {
	return State{Screen: ScreenEquipment}
}

// Apply returns the state reached by ev from s. The input state is never modified.
func (n *Navigator) Apply(s State, ev Event) (State, error) {
	if ev.kind == eventStartOver {
		return Start(), nil
	}

	switch s.Screen {
	case ScreenEquipment:
		if ev.kind != eventChooseEquipment {
			break
		}
		eq := domain.EquipmentType(ev.value)
		if !n.menu.hasEquipment(eq) {
			return s, fmt.Errorf("%w: unknown equipment %q", ErrInvalidTransition, ev.value)
		}
		return State{Screen: ScreenMuscleGroup, Equipment: eq}, nil

	case ScreenMuscleGroup:
		switch ev.kind {
		case eventBack:
			return Start(), nil
		case eventChooseGroup:
			if _, ok := n.menu.group(ev.value); !ok {
				return s, fmt.Errorf("%w: unknown muscle group %q", ErrInvalidTransition, ev.value)
			}
			return State{Screen: ScreenTargetArea, Equipment: s.Equipment, Group: ev.value}, nil
		}

	case ScreenTargetArea:
		switch ev.kind {
		case eventBack:
			return State{Screen: ScreenMuscleGroup, Equipment: s.Equipment}, nil
		case eventChooseMuscle:
			g, _ := n.menu.group(s.Group)
			if !contains(g.Muscles, ev.value) {
				return s, fmt.Errorf("%w: %q is not part of %s", ErrInvalidTransition, ev.value, s.Group)
			}
			return State{Screen: ScreenResults, Equipment: s.Equipment, Group: s.Group, Muscle: ev.value}, nil
		}
	}
	return s, fmt.Errorf("%w: event not accepted on %s screen", ErrInvalidTransition, s.Screen)
}

// Options lists the choices offered on the state's screen. The results screen
// has none besides starting over.
func (n *Navigator) Options(s State) []Option {
	switch s.Screen {
	case ScreenEquipment:
		out := make([]Option, 0, len(n.menu.Equipment))
		for _, eq := range n.menu.Equipment {
			out = append(out, Option{Label: string(eq), Value: string(eq)})
		}
		return out
	case ScreenMuscleGroup:
		out := make([]Option, 0, len(n.menu.Groups))
		for _, g := range n.menu.Groups {
			out = append(out, Option{Label: g.Label, Value: g.Key})
		}
		return out
	case ScreenTargetArea:
		g, _ := n.menu.group(s.Group)
		out := make([]Option, 0, len(g.Muscles))
		for _, m := range g.Muscles {
			out = append(out, Option{Label: m, Value: m})
		}
		return out
	default:
		return []Option{}
	}
}

// CanGoBack reports whether Back applies to the state's screen.
func CanGoBack(s State) bool {
	return s.Screen == ScreenMuscleGroup || s.Screen == ScreenTargetArea
}

// Choose maps the option value onto the event the screen expects.
func Choose(s State, value string) (Event, error) {
	switch s.Screen {
	case ScreenEquipment:
		return ChooseEquipment(value), nil
	case ScreenMuscleGroup:
		return ChooseGroup(value), nil
	case ScreenTargetArea:
		return ChooseMuscle(value), nil
	default:
		return Event{}, fmt.Errorf("%w: nothing to choose on %s screen", ErrInvalidTransition, s.Screen)
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
