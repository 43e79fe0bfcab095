package guard_test

import (
	"errors"
	"testing"

	"exportflow/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("constructed guard validates with or without a custom error", func(t *testing.T) {
		// When
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("command not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero value returns the custom error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expected := errors.New("milestone not constructed")

		// When
		err := g.Validate(expected)

		// Then
		require.Error(t, err)
		assert.Equal(t, expected, err)
	})

	t.Run("zero value falls back to the default error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})

	t.Run("copies keep the constructed state", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()
		copied := g

		// Then
		require.NoError(t, copied.Validate(nil))
	})
}

func TestConstructorGuard_EmbeddedInCommand(t *testing.T) {
	errNotConstructed := errors.New("RejectDelayCommand must be created via NewRejectDelayCommand")

	type rejectDelayCommand struct {
		note  string
		guard guard.ConstructorGuard
	}

	newCommand := func(note string) (rejectDelayCommand, error) {
		if note == "" {
			return rejectDelayCommand{}, errors.New("note is required")
		}
		return rejectDelayCommand{note: note, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("command built by constructor is valid", func(t *testing.T) {
		cmd, err := newCommand("supplier confirmed original date")

		require.NoError(t, err)
		require.NoError(t, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("struct literal is rejected", func(t *testing.T) {
		cmd := rejectDelayCommand{note: "literal"}

		assert.Equal(t, errNotConstructed, cmd.guard.Validate(errNotConstructed))
	})

	t.Run("constructor rejects bad input before the guard is set", func(t *testing.T) {
		_, err := newCommand("")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "note is required")
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	done := make(chan struct{})

	for range 50 {
		go func() {
			defer func() { done <- struct{}{} }()
			for range 500 {
				assert.NoError(t, g.Validate(nil))
			}
		}()
	}
	for range 50 {
		<-done
	}
}

func BenchmarkConstructorGuard_Validate(b *testing.B) {
	g := guard.NewConstructorGuard()
	for range b.N {
		_ = g.Validate(nil)
	}
}
