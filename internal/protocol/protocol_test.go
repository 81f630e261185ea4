package protocol

import (
	"errors"
	"testing"

	"github.com/newtonsmarsher1/uailimited-sub001/internal/model"
)

func TestDecode_KnownKinds(t *testing.T) {
	in, err := Decode([]byte(`{"type":"send_message","toAdminId":"U2","content":"hi"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if in.Type != KindSendMessage || in.ToAdminID != "U2" || in.Content != "hi" {
		t.Errorf("Unexpected frame: %+v", in)
	}

	in, err = Decode([]byte(`{"type":"mark_as_read","messageIds":[1,2,3],"fromAdminId":"U1"}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(in.MessageIDs) != 3 || in.FromAdminID != "U1" {
		t.Errorf("Unexpected frame: %+v", in)
	}
}

func TestDecode_MalformedPayload(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	if !errors.Is(err, ErrMalformedFrame) {
		t.Errorf("Expected ErrMalformedFrame, got %v", err)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := Decode([]byte(`{"type":"reboot_server"}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}

	_, err = Decode([]byte(`{"content":"no type at all"}`))
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind for missing type, got %v", err)
	}
}

func TestNewSendAck_KindFollowsStatus(t *testing.T) {
	delivered := NewSendAck(model.Message{ID: 1, ToID: "U2", Status: model.StatusDelivered})
	if delivered.Type != "message_delivered" {
		t.Errorf("Expected message_delivered, got %q", delivered.Type)
	}

	sent := NewSendAck(model.Message{ID: 2, ToID: "U2", Status: model.StatusSent})
	if sent.Type != "message_sent" {
		t.Errorf("Expected message_sent, got %q", sent.Type)
	}
}
