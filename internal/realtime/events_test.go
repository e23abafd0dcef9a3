package realtime

import (
	"encoding/json"
	"testing"
)

func TestDecodeClientFrameAcceptsKnownTypes(t *testing.T) {
	for _, eventType := range []ClientEventType{
		EventSendMessage, EventMarkRead, EventTypingStart, EventTypingStop,
		EventRevealPhone, EventJoinConversation, EventLeaveConversation,
	} {
		payload := `{"type":"` + string(eventType) + `","conversationId":"c1"}`
		frame, err := DecodeClientFrame([]byte(payload))
		if err != nil {
			t.Fatalf("decode %s: %v", eventType, err)
		}
		if frame.Type != eventType || frame.ConversationID != "c1" {
			t.Fatalf("unexpected frame for %s: %+v", eventType, frame)
		}
	}
}

func TestDecodeClientFrameRejectsUnknownType(t *testing.T) {
	if _, err := DecodeClientFrame([]byte(`{"type":"shrug"}`)); err == nil {
		t.Fatalf("expected rejection of unknown event type")
	}
	if _, err := DecodeClientFrame([]byte(`{"type":""}`)); err == nil {
		t.Fatalf("expected rejection of missing event type")
	}
	if _, err := DecodeClientFrame([]byte(`not json`)); err == nil {
		t.Fatalf("expected rejection of malformed payload")
	}
}

func TestDecodeClientFrameCarriesMessageFields(t *testing.T) {
	frame, err := DecodeClientFrame([]byte(`{"type":"send_message","conversationId":"c1","content":"hi","isPreFilled":true}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if frame.Content != "hi" || !frame.IsPreFilled {
		t.Fatalf("message fields lost: %+v", frame)
	}
}

func TestServerEventEncodeOmitsUnsetFields(t *testing.T) {
	payload, err := ErrorEvent("VALIDATION_ERROR", "bad input").Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if raw["type"] != "error" || raw["code"] != "VALIDATION_ERROR" {
		t.Fatalf("unexpected encoding: %s", payload)
	}
	for _, absent := range []string{"conversationId", "message", "userId", "readerId"} {
		if _, ok := raw[absent]; ok {
			t.Fatalf("field %s should be omitted: %s", absent, payload)
		}
	}
}

func TestTypingEventShape(t *testing.T) {
	payload, err := TypingEvent("c1", "alice", true).Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	var ev ServerEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ev.Type != EventTyping || ev.ConversationID != "c1" || ev.UserID != "alice" || !ev.IsTyping {
		t.Fatalf("round trip lost fields: %+v", ev)
	}
}
