package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestSetupWriterJSON(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	if err := SetupWriter(&buf, "debug", false); err != nil {
		t.Fatalf("expected setup to succeed: %v", err)
	}
	logger := Component("game")
	logger.Debug().Int("plies", 3).Msg("searched")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected a JSON line, got %q: %v", buf.String(), err)
	}
	if line["component"] != "game" || line["message"] != "searched" || line["plies"] != float64(3) {
		t.Fatalf("expected component, message and field, got %v", line)
	}
}

func TestSetupWriterFiltersLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	if err := SetupWriter(&buf, "warn", false); err != nil {
		t.Fatalf("expected setup to succeed: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("expected only the warning, got %q", buf.String())
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	if err := SetupWriter(&bytes.Buffer{}, "chatty", false); err == nil {
		t.Fatalf("expected an unknown level to fail")
	}
}
