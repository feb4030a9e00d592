package main

import (
	"testing"

	"github.com/miruku-pixel/poddo-pos-engine/internal/config"
)

func TestResolvePort(t *testing.T) {
	withConfig := &config.Config{Server: config.ServerConfig{Port: 8080}}
	withoutConfig := &config.Config{}

	if got := resolvePort(9000, withConfig); got != 9000 {
		t.Errorf("flag should win: got %d", got)
	}
	if got := resolvePort(0, withConfig); got != 8080 {
		t.Errorf("config port should apply when the flag is absent: got %d", got)
	}
	if got := resolvePort(0, withoutConfig); got != 3000 {
		t.Errorf("default should apply last: got %d", got)
	}
}
