package messaging

import (
	"testing"

	"github.com/segmentio/kafka-go"
)

func TestHeaderCarrier(t *testing.T) {
	msg := kafka.Message{}
	carrier := headerCarrier{msg: &msg}

	if got := carrier.Get("traceparent"); got != "" {
		t.Errorf("expected empty value for missing key, got %q", got)
	}

	carrier.Set("traceparent", "00-abc-def-01")
	carrier.Set("baggage", "tenant=pos")

	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Errorf("unexpected traceparent: %q", got)
	}

	carrier.Set("traceparent", "00-abc-def-02")
	if got := carrier.Get("traceparent"); got != "00-abc-def-02" {
		t.Errorf("expected overwritten value, got %q", got)
	}
	if len(msg.Headers) != 2 {
		t.Errorf("expected 2 headers after overwrite, got %d", len(msg.Headers))
	}

	keys := carrier.Keys()
	if len(keys) != 2 || keys[0] != "traceparent" || keys[1] != "baggage" {
		t.Errorf("unexpected keys: %v", keys)
	}
}
