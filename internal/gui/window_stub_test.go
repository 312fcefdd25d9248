//go:build !opengl

package gui

import (
	"errors"
	"testing"
)

func TestNewWindow_Unavailable(t *testing.T) {
	if _, err := NewWindow(100, 100, 1, DefaultTitle); !errors.Is(err, ErrNoWindow) {
		t.Errorf("expected ErrNoWindow, got %v", err)
	}
}
