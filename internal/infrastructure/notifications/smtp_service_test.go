package notifications

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestSMTPServiceImpl_Send_NoHostLogsInsteadOfDialing(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	svc := NewSMTPService("", 0, "", "", "noreply@example.com")

	if err := svc.Send("ann@example.com", "Hello", "body text"); err != nil {
		t.Fatalf("Send() with no host error = %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "[MOCK EMAIL]") {
		t.Errorf("expected a mock delivery log line, got %q", line)
	}
	if !strings.Contains(line, "ann@example.com") || !strings.Contains(line, "Hello") {
		t.Errorf("log line should carry recipient and subject, got %q", line)
	}
}
