package log

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// These wrappers only forward to the standard logger, so the test
// redirects its output and checks that each call lands there with the
// expected text. Fatal variants exit the process and are not covered.
func TestWrappersWriteToStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	tests := []struct {
		name string
		fn   func()
		want string
	}{
		{"Print", func() { Print("session opened") }, "session opened"},
		{"Printf", func() { Printf("quote total %.2f", 160.0) }, "quote total 160.00"},
		{"Println", func() { Println("server stopped") }, "server stopped"},
		{"Debug", func() { Debug("fit recomputed") }, "[DEBUG] fit recomputed"},
		{"Debugf", func() { Debugf("crop at %g,%g", 50.0, 50.0) }, "[DEBUG] crop at 50,50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn()
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected log to contain %q, but got %q", tt.want, buf.String())
			}
		})
	}
}
