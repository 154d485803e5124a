package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestOpsRoundTrip(t *testing.T) {
	ops := []Op{
		{Code: OpCreateElement, Node: 1, Name: "div"},
		{Code: OpSetAttr, Node: 1, Name: "id", Value: "box"},
		{Code: OpCreateText, Node: 2, Value: "hello"},
		{Code: OpInsertBefore, Parent: 0, Node: 1, Ref: 0},
		{Code: OpInsertBefore, Parent: 1, Node: 2, Ref: 0},
		{Code: OpAddListener, Node: 1, Name: "click"},
		{Code: OpSetText, Node: 2, Value: "goodbye"},
		{Code: OpSetProp, Node: 1, Name: "value", Value: "x"},
		{Code: OpRemoveAttr, Node: 1, Name: "id"},
		{Code: OpRemoveListener, Node: 1, Name: "click"},
		{Code: OpRemoveChild, Parent: 1, Node: 2},
	}

	data := EncodeOps(7, ops)
	seq, decoded, err := DecodeOps(data)
	if err != nil {
		t.Fatalf("DecodeOps() error = %v", err)
	}
	if seq != 7 {
		t.Errorf("seq = %d, want 7", seq)
	}
	if !reflect.DeepEqual(decoded, ops) {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", decoded, ops)
	}
}

func TestDecodeOpsInvalidCode(t *testing.T) {
	enc := NewEncoder()
	enc.WriteUvarint(1)    // seq
	enc.WriteUvarint(1)    // count
	enc.WriteByte(0xFF)    // bogus opcode
	enc.WriteUvarint(1)    // keep the buffer longer than the count check needs

	_, _, err := DecodeOps(enc.Bytes())
	if !errors.Is(err, ErrInvalidOpCode) {
		t.Errorf("error = %v, want ErrInvalidOpCode", err)
	}
}

func TestDecodeOpsTruncated(t *testing.T) {
	data := EncodeOps(1, []Op{{Code: OpSetAttr, Node: 1, Name: "id", Value: "box"}})
	for cut := 3; cut < len(data); cut++ {
		if _, _, err := DecodeOps(data[:cut]); err == nil {
			t.Errorf("DecodeOps succeeded on %d of %d bytes", cut, len(data))
		}
	}
}

func TestEventRoundTrip(t *testing.T) {
	e := &Event{Seq: 42, Node: 9, Name: "input", Value: "abc", Checked: true}
	decoded, err := DecodeEvent(EncodeEvent(e))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, e) {
		t.Errorf("round trip = %+v, want %+v", decoded, e)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := EncodeEvent(&Event{Node: 1, Name: "click"})
	data := EncodeFrame(FrameEvent, payload)

	ft, got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame() error = %v", err)
	}
	if ft != FrameEvent {
		t.Errorf("frame type = %v, want %v", ft, FrameEvent)
	}
	if !reflect.DeepEqual(got, payload) {
		t.Error("payload mismatch")
	}

	if _, _, err := DecodeFrame(nil); err == nil {
		t.Error("DecodeFrame(nil) did not fail")
	}
	if _, _, err := DecodeFrame([]byte{0x7F}); !errors.Is(err, ErrInvalidFrameType) {
		t.Errorf("bad type: error = %v, want ErrInvalidFrameType", err)
	}
}

func TestControlRoundTrip(t *testing.T) {
	ts, err := DecodePing(EncodePing(1724500000000))
	if err != nil || ts != 1724500000000 {
		t.Errorf("ping round trip = %d, %v", ts, err)
	}

	code, reason, err := DecodeClose(EncodeClose(CloseIdleTimeout, "idle"))
	if err != nil {
		t.Fatalf("DecodeClose() error = %v", err)
	}
	if code != CloseIdleTimeout || reason != "idle" {
		t.Errorf("close = %d %q, want %d idle", code, reason, CloseIdleTimeout)
	}
}

func TestHandshakeRoundTrip(t *testing.T) {
	hello := &ClientHello{Protocol: Version, Session: "01J", UserAgent: "test"}
	data, err := EncodeClientHello(hello)
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeClientHello(data)
	if err != nil {
		t.Fatalf("DecodeClientHello() error = %v", err)
	}
	if !reflect.DeepEqual(decoded, hello) {
		t.Errorf("round trip = %+v, want %+v", decoded, hello)
	}

	if _, err := DecodeClientHello([]byte(`{"protocol":99}`)); err == nil {
		t.Error("version mismatch was accepted")
	}

	reply := &ServerHello{Protocol: Version, Session: "01J", Resumed: true}
	data, err = EncodeServerHello(reply)
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeServerHello(data)
	if err != nil || !reflect.DeepEqual(back, reply) {
		t.Errorf("server hello round trip = %+v, %v", back, err)
	}
}
