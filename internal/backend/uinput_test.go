package backend

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Alia5/autotyper/internal/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	events    []string
	failDown  map[int]error
	failUpOne map[int]bool
	closed    int
}

func (d *fakeDevice) KeyDown(key int) error {
	if err := d.failDown[key]; err != nil {
		return err
	}
	d.events = append(d.events, "down "+keymap.Keycode(key).String())
	return nil
}

func (d *fakeDevice) KeyUp(key int) error {
	if d.failUpOne[key] {
		delete(d.failUpOne, key)
		return errors.New("write failed")
	}
	d.events = append(d.events, "up "+keymap.Keycode(key).String())
	return nil
}

func (d *fakeDevice) Close() error {
	d.closed++
	return nil
}

type sleepLog struct{ waits []time.Duration }

func (s *sleepLog) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func openFake(t *testing.T, dev *fakeDevice, opts Options) (Session, *sleepLog) {
	t.Helper()
	sl := &sleepLog{}
	opts.Sleep = sl.sleep
	u := &UInput{
		Path:   "/dev/null",
		probe:  func(string) error { return nil },
		create: func(string, string) (keyDevice, error) { return dev, nil },
	}
	s, err := u.Open(context.Background(), opts)
	require.NoError(t, err)
	return s, sl
}

func TestUInputModifierOrder(t *testing.T) {
	dev := &fakeDevice{}
	s, _ := openFake(t, dev, Options{})
	defer s.Close()

	st := keymap.Stroke{Code: keymap.KeyA, Mods: keymap.ModShift | keymap.ModAltGr | keymap.ModCtrl}
	require.NoError(t, s.Press(context.Background(), Action{Rune: 'x', Strokes: []keymap.Stroke{st}}))

	assert.Equal(t, []string{
		"down KEY_LEFTCTRL",
		"down KEY_RIGHTALT",
		"down KEY_LEFTSHIFT",
		"down KEY_A",
		"up KEY_A",
		"up KEY_LEFTSHIFT",
		"up KEY_RIGHTALT",
		"up KEY_LEFTCTRL",
	}, dev.events)
}

func TestUInputReleasesModifiersWhenMainKeyFails(t *testing.T) {
	testCases := []keymap.Modifier{
		keymap.ModShift,
		keymap.ModAltGr,
		keymap.ModCtrl,
		keymap.ModShift | keymap.ModAltGr,
		keymap.ModShift | keymap.ModAltGr | keymap.ModCtrl,
	}

	for _, mods := range testCases {
		t.Run(mods.String(), func(t *testing.T) {
			dev := &fakeDevice{failDown: map[int]error{int(keymap.KeyE): errors.New("permission revoked")}}
			s, _ := openFake(t, dev, Options{})

			err := s.Press(context.Background(), Action{Strokes: []keymap.Stroke{{Code: keymap.KeyE, Mods: mods}}})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "permission revoked")

			downs := map[string]int{}
			for _, ev := range dev.events {
				var verb, key string
				_, _ = fmt.Sscan(ev, &verb, &key)
				if verb == "down" {
					downs[key]++
				} else {
					downs[key]--
				}
			}
			for key, n := range downs {
				assert.Zero(t, n, "%s left down", key)
			}
			assert.NotEmpty(t, dev.events)
			require.NoError(t, s.Close())
		})
	}
}

func TestUInputPrime(t *testing.T) {
	dev := &fakeDevice{}
	s, sl := openFake(t, dev, Options{Prime: true, PrimeDelay: 250 * time.Millisecond})
	defer s.Close()

	assert.Equal(t, []string{"down KEY_LEFTSHIFT", "up KEY_LEFTSHIFT"}, dev.events)
	assert.Equal(t, []time.Duration{250 * time.Millisecond, 250 * time.Millisecond}, sl.waits)
}

func TestUInputNoPrime(t *testing.T) {
	dev := &fakeDevice{}
	s, sl := openFake(t, dev, Options{PrimeDelay: 100 * time.Millisecond})
	defer s.Close()

	assert.Empty(t, dev.events)
	assert.Equal(t, []time.Duration{100 * time.Millisecond}, sl.waits)
}

func TestUInputEscapeTiming(t *testing.T) {
	us, err := keymap.Lookup(keymap.LayoutUS)
	require.NoError(t, err)
	spec := keymap.Unicode('ß')
	strokes, err := us.Expand(spec, keymap.DefaultEscape)
	require.NoError(t, err)

	dev := &fakeDevice{}
	s, sl := openFake(t, dev, Options{Rate: 60 * time.Millisecond})
	defer s.Close()
	sl.waits = nil

	require.NoError(t, s.Press(context.Background(), Action{Rune: 'ß', Spec: spec, Strokes: strokes}))

	assert.Equal(t, []time.Duration{60 * time.Millisecond, 30 * time.Millisecond, 30 * time.Millisecond}, sl.waits)
	assert.Equal(t, []string{
		"down KEY_LEFTCTRL", "down KEY_LEFTSHIFT", "down KEY_U", "up KEY_U", "up KEY_LEFTSHIFT", "up KEY_LEFTCTRL",
		"down KEY_D", "up KEY_D",
		"down KEY_F", "up KEY_F",
		"down KEY_SPACE", "up KEY_SPACE",
	}, dev.events)
}

func TestUInputEscapeSettleMinimum(t *testing.T) {
	us, err := keymap.Lookup(keymap.LayoutUS)
	require.NoError(t, err)
	spec := keymap.Unicode('€')
	strokes, err := us.Expand(spec, keymap.DefaultEscape)
	require.NoError(t, err)

	dev := &fakeDevice{}
	s, sl := openFake(t, dev, Options{Rate: 10 * time.Millisecond})
	defer s.Close()
	sl.waits = nil

	require.NoError(t, s.Press(context.Background(), Action{Rune: '€', Spec: spec, Strokes: strokes}))
	require.NotEmpty(t, sl.waits)
	assert.Equal(t, escapeSettle, sl.waits[0])
}

func TestUInputCancelledMidAction(t *testing.T) {
	us, err := keymap.Lookup(keymap.LayoutUS)
	require.NoError(t, err)
	spec := keymap.Unicode('ß')
	strokes, err := us.Expand(spec, keymap.DefaultEscape)
	require.NoError(t, err)

	dev := &fakeDevice{}
	s, _ := openFake(t, dev, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = s.Press(ctx, Action{Spec: spec, Strokes: strokes})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{
		"down KEY_LEFTCTRL", "down KEY_LEFTSHIFT", "down KEY_U", "up KEY_U", "up KEY_LEFTSHIFT", "up KEY_LEFTCTRL",
	}, dev.events)
	require.NoError(t, s.Close())
}

func TestUInputCloseReleasesHeldKeysOnce(t *testing.T) {
	dev := &fakeDevice{failUpOne: map[int]bool{int(keymap.KeyA): true}}
	s, _ := openFake(t, dev, Options{})

	err := s.Press(context.Background(), Action{Strokes: []keymap.Stroke{{Code: keymap.KeyA, Mods: keymap.ModShift}}})
	require.Error(t, err)
	assert.Equal(t, []string{"down KEY_LEFTSHIFT", "down KEY_A", "up KEY_LEFTSHIFT"}, dev.events)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, "up KEY_A", dev.events[len(dev.events)-1])
	assert.Equal(t, 1, dev.closed)
}

func TestUInputOpenFailure(t *testing.T) {
	u := &UInput{
		Path:   "/dev/uinput",
		probe:  func(string) error { return nil },
		create: func(string, string) (keyDevice, error) { return nil, errors.New("EACCES") },
	}
	_, err := u.Open(context.Background(), Options{})
	assert.EqualError(t, err, "EACCES")
}

func TestUInputPrimeCancelledClosesDevice(t *testing.T) {
	dev := &fakeDevice{}
	u := &UInput{
		probe:  func(string) error { return nil },
		create: func(string, string) (keyDevice, error) { return dev, nil },
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := u.Open(ctx, Options{Prime: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, dev.closed)
}
