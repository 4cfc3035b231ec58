// Package picker renders the four picker screens on a line-oriented terminal.
package picker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/domain"
	"github.com/CE-DE-ML-NathanSchoff/ExerciseApp/internal/navigation"
)

// Recommender answers the results screen.
type Recommender interface {
	Recommend(ctx context.Context, equipment domain.EquipmentType, muscle string, k int) (domain.Recommendation, error)
}

// Session drives one user through the screens until they quit or input ends.
type Session struct {
	nav *navigation.Navigator
	rec Recommender
	k   int
	in  *bufio.Scanner
	out io.Writer
}

// NewSession builds a session reading choices from in and rendering to out.
func NewSession(nav *navigation.Navigator, rec Recommender, k int, in io.Reader, out io.Writer) *Session {
	return &Session{nav: nav, rec: rec, k: k, in: bufio.NewScanner(in), out: out}
}

// Run loops over screens. It returns nil when the user quits or input is exhausted.
func (s *Session) Run(ctx context.Context) error {
	state := navigation.Start()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.render(ctx, state); err != nil {
			return err
		}

		line, ok := s.readLine()
		if !ok {
			return s.in.Err()
		}

		next, quit, err := s.handle(state, line)
		if quit {
			return nil
		}
		if err != nil {
			fmt.Fprintf(s.out, "! %s\n", describe(err))
			continue
		}
		state = next
	}
}

func (s *Session) readLine() (string, bool) {
	fmt.Fprint(s.out, "> ")
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

func (s *Session) handle(state navigation.State, line string) (navigation.State, bool, error) {
	switch strings.ToLower(line) {
	case "q", "quit":
		return state, true, nil
	case "b", "back":
		next, err := s.nav.Apply(state, navigation.Back())
		return next, false, err
	}

	if state.Screen == navigation.ScreenResults {
		next, err := s.nav.Apply(state, navigation.StartOver())
		return next, false, err
	}

	options := s.nav.Options(state)
	n, err := strconv.Atoi(line)
	if err != nil || n < 1 || n > len(options) {
		return state, false, fmt.Errorf("%w: enter a number between 1 and %d", errBadInput, len(options))
	}
	ev, err := navigation.Choose(state, options[n-1].Value)
	if err != nil {
		return state, false, err
	}
	next, err := s.nav.Apply(state, ev)
	return next, false, err
}

var errBadInput = errors.New("unrecognised choice")

func describe(err error) string {
	switch {
	case errors.Is(err, errBadInput):
		return err.Error()
	case errors.Is(err, navigation.ErrInvalidTransition):
		return "that option is not available here"
	default:
		return err.Error()
	}
}

func (s *Session) render(ctx context.Context, state navigation.State) error {
	fmt.Fprintln(s.out)
	switch state.Screen {
	case navigation.ScreenEquipment:
		fmt.Fprintln(s.out, "Step 1: Select Equipment")
	case navigation.ScreenMuscleGroup:
		fmt.Fprintf(s.out, "Equipment: %s\n", state.Equipment)
		fmt.Fprintln(s.out, "Step 2: Select Muscle Group")
	case navigation.ScreenTargetArea:
		fmt.Fprintln(s.out, "Step 3: Target Area")
	case navigation.ScreenResults:
		return s.renderResults(ctx, state)
	}

	for i, opt := range s.nav.Options(state) {
		fmt.Fprintf(s.out, "  %d) %s\n", i+1, opt.Label)
	}
	if navigation.CanGoBack(state) {
		fmt.Fprintln(s.out, "  b) Back")
	}
	fmt.Fprintln(s.out, "  q) Quit")
	return nil
}

func (s *Session) renderResults(ctx context.Context, state navigation.State) error {
	fmt.Fprintln(s.out, "Top Recommended Exercises")
	fmt.Fprintf(s.out, "%s / %s\n\n", state.Equipment, state.Muscle)

	got, err := s.rec.Recommend(ctx, state.Equipment, state.Muscle, s.k)
	if err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if len(got.Items) == 0 {
		fmt.Fprintln(s.out, "No exercises found for this combination.")
	}
	for i, item := range got.Items {
		notes := item.Notes
		if notes == "" {
			notes = "No notes available."
		}
		fmt.Fprintf(s.out, "#%d: %s\n", i+1, item.Name)
		fmt.Fprintf(s.out, "   Intensity: %d/10\n", item.IntensityScore)
		fmt.Fprintf(s.out, "   Notes: %s\n", notes)
	}
	fmt.Fprintln(s.out)
	fmt.Fprintln(s.out, "  Enter) Start Over")
	fmt.Fprintln(s.out, "  q) Quit")
	return nil
}
