package detect_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/autotyper/internal/detect"
)

type fakeProbe struct {
	name  string
	hint  string
	err   error
	calls *int
}

func (f fakeProbe) Name() string { return f.name }

func (f fakeProbe) Hint(context.Context) (string, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.hint, f.err
}

func TestDetectorFirstMatchWins(t *testing.T) {
	var lastCalls int
	d := detect.New(nil,
		fakeProbe{name: "broken", err: errors.New("no bus")},
		fakeProbe{name: "unknown", hint: "de"},
		fakeProbe{name: "fr", hint: "fr"},
		fakeProbe{name: "us", hint: "us", calls: &lastCalls},
	)
	assert.Equal(t, "fr", d.Hint(context.Background()))
	assert.Zero(t, lastCalls, "probes after the first match are not run")
}

func TestDetectorNoMatch(t *testing.T) {
	d := detect.New(nil, fakeProbe{name: "unknown", hint: "de"})
	assert.Empty(t, d.Hint(context.Background()))
}

type fakeLocale1 struct {
	dbus.BusObject
	value  any
	gotCtx context.Context
	method string
	args   []any
}

func (f *fakeLocale1) CallWithContext(ctx context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	f.gotCtx, f.method, f.args = ctx, method, args
	if err := ctx.Err(); err != nil {
		return &dbus.Call{Err: err}
	}
	return &dbus.Call{Body: []any{dbus.MakeVariant(f.value)}}
}

func TestLocale1(t *testing.T) {
	t.Run("reads X11Layout with the caller's context", func(t *testing.T) {
		obj := &fakeLocale1{value: "fr"}
		p := detect.Locale1{Object: func() (dbus.BusObject, error) { return obj, nil }}
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		h, err := p.Hint(ctx)
		require.NoError(t, err)
		assert.Equal(t, "fr", h)
		assert.Equal(t, ctx, obj.gotCtx)
		assert.Equal(t, "org.freedesktop.DBus.Properties.Get", obj.method)
		assert.Equal(t, []any{"org.freedesktop.locale1", "X11Layout"}, obj.args)
	})

	t.Run("cancelled context skips the bus", func(t *testing.T) {
		dialed := false
		p := detect.Locale1{Object: func() (dbus.BusObject, error) {
			dialed = true
			return &fakeLocale1{value: "fr"}, nil
		}}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.Hint(ctx)
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, dialed)
	})

	t.Run("non-string property", func(t *testing.T) {
		p := detect.Locale1{Object: func() (dbus.BusObject, error) { return &fakeLocale1{value: uint32(1)}, nil }}
		_, err := p.Hint(context.Background())
		assert.Error(t, err)
	})

	t.Run("no bus", func(t *testing.T) {
		p := detect.Locale1{Object: func() (dbus.BusObject, error) { return nil, errors.New("no system bus") }}
		_, err := p.Hint(context.Background())
		assert.EqualError(t, err, "no system bus")
	})
}

func TestGSettings(t *testing.T) {
	var gotArgs []string
	p := detect.GSettings{Run: func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		return []byte("[('xkb', 'fr'), ('xkb', 'us')]\n"), nil
	}}
	h, err := p.Hint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[('xkb', 'fr'), ('xkb', 'us')]", h)
	assert.Equal(t, []string{"gsettings", "get", "org.gnome.desktop.input-sources", "sources"}, gotArgs)
}

func TestLocalectl(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{
			name: "x11 layout preferred",
			out:  "   System Locale: LANG=en_US.UTF-8\n       VC Keymap: us\n      X11 Layout: fr\n",
			want: "fr",
		},
		{
			name: "console keymap fallback",
			out:  "   System Locale: LANG=en_US.UTF-8\n       VC Keymap: fr\n      X11 Layout: n/a\n",
			want: "fr",
		},
		{
			name:    "nothing",
			out:     "   System Locale: LANG=C\n",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := detect.Localectl{Run: func(context.Context, string, ...string) ([]byte, error) {
				return []byte(tt.out), nil
			}}
			h, err := p.Hint(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, h)
		})
	}
}

func TestEnv(t *testing.T) {
	env := map[string]string{"LANG": "fr_FR.UTF-8"}
	h, err := detect.Env{Getenv: func(k string) string { return env[k] }}.Hint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fr_FR.UTF-8", h)

	_, err = detect.Env{Getenv: func(string) string { return "" }}.Hint(context.Background())
	assert.Error(t, err)
}
