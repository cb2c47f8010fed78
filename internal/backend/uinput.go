package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Alia5/autotyper/internal/keymap"
)

// DefaultUInputPath is the kernel's user-space input device.
const DefaultUInputPath = "/dev/uinput"

// escapeSettle is the minimum pause after the Unicode escape trigger;
// input methods drop digits typed immediately after it.
const escapeSettle = 50 * time.Millisecond

// keyDevice is the subset of a uinput keyboard the session needs.
type keyDevice interface {
	KeyDown(key int) error
	KeyUp(key int) error
	Close() error
}

// UInput injects events through a virtual keyboard created on
// /dev/uinput. It works under X11 and Wayland alike.
type UInput struct {
	Path   string
	probe  func(path string) error
	create func(path, name string) (keyDevice, error)
}

// NewUInput returns the uinput backend for DefaultUInputPath.
func NewUInput() *UInput {
	return &UInput{Path: DefaultUInputPath, probe: probeUInput, create: createUInput}
}

func (u *UInput) Name() string { return UInputName }

func (u *UInput) Probe() error { return u.probe(u.Path) }

// Open creates the virtual keyboard. New devices need a moment before
// the compositor routes their events, so Open waits PrimeDelay and, with
// Prime, taps Shift once so the first real character is not swallowed.
func (u *UInput) Open(ctx context.Context, opts Options) (Session, error) {
	opts = opts.withDefaults()
	dev, err := u.create(u.Path, opts.DeviceName)
	if err != nil {
		return nil, err
	}
	s := &uinputSession{dev: dev, opts: opts, held: map[keymap.Keycode]bool{}}
	if err := s.prime(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// modifierKeys is the press order; releases run in reverse.
var modifierKeys = []struct {
	mod  keymap.Modifier
	code keymap.Keycode
}{
	{keymap.ModCtrl, keymap.KeyLeftCtrl},
	{keymap.ModAltGr, keymap.KeyRightAlt},
	{keymap.ModShift, keymap.KeyLeftShift},
}

type uinputSession struct {
	dev  keyDevice
	opts Options

	mu        sync.Mutex
	held      map[keymap.Keycode]bool
	closeOnce sync.Once
	closeErr  error
}

func (s *uinputSession) prime(ctx context.Context) error {
	if err := s.opts.Sleep(ctx, s.opts.PrimeDelay); err != nil {
		return err
	}
	if !s.opts.Prime {
		return nil
	}
	if err := s.tap(keymap.Stroke{Code: keymap.KeyLeftShift}); err != nil {
		return fmt.Errorf("prime virtual keyboard: %w", err)
	}
	return s.opts.Sleep(ctx, s.opts.PrimeDelay)
}

// Press sends every stroke of a. Strokes inside one action are spaced by
// half the rate; after an escape trigger the pause is at least
// escapeSettle. Modifiers never stay down past a single stroke.
func (s *uinputSession) Press(ctx context.Context, a Action) error {
	for i, st := range a.Strokes {
		if i > 0 {
			delay := s.opts.Rate / 2
			if i == 1 && a.Spec.IsEscape() {
				delay = max(escapeSettle, s.opts.Rate)
			}
			if err := s.opts.Sleep(ctx, delay); err != nil {
				return err
			}
		}
		if err := s.tap(st); err != nil {
			return fmt.Errorf("stroke %d (%s): %w", i, st, err)
		}
	}
	return nil
}

// tap presses modifiers, taps the main key and releases the modifiers in
// reverse order. Releases run even when the main key fails.
func (s *uinputSession) tap(st keymap.Stroke) (err error) {
	var pressed []keymap.Keycode
	defer func() {
		for i := len(pressed) - 1; i >= 0; i-- {
			if uerr := s.up(pressed[i]); uerr != nil {
				err = errors.Join(err, uerr)
			}
		}
	}()

	for _, m := range modifierKeys {
		if !st.Mods.Has(m.mod) {
			continue
		}
		if err := s.down(m.code); err != nil {
			return err
		}
		pressed = append(pressed, m.code)
	}
	if err := s.down(st.Code); err != nil {
		return err
	}
	return s.up(st.Code)
}

func (s *uinputSession) down(code keymap.Keycode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.KeyDown(int(code)); err != nil {
		return fmt.Errorf("key down %s: %w", code, err)
	}
	s.held[code] = true
	return nil
}

func (s *uinputSession) up(code keymap.Keycode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.dev.KeyUp(int(code)); err != nil {
		return fmt.Errorf("key up %s: %w", code, err)
	}
	delete(s.held, code)
	return nil
}

// Close releases anything still held and destroys the device. Only the
// first call has an effect.
func (s *uinputSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		held := make([]keymap.Keycode, 0, len(s.held))
		for code := range s.held {
			held = append(held, code)
		}
		s.mu.Unlock()
		sort.Slice(held, func(i, j int) bool { return held[i] < held[j] })

		var errs []error
		if len(held) > 0 {
			s.opts.Logger.Warn("releasing keys left down", "count", len(held))
		}
		for _, code := range held {
			if err := s.up(code); err != nil {
				errs = append(errs, err)
			}
		}
		if err := s.dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close virtual keyboard: %w", err))
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}
