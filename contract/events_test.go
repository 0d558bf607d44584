package contract_test

import (
	"errors"
	"testing"

	terrors "github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/value"
)

func TestDecodeEvent(t *testing.T) {
	c := load(t, "erc20.json")

	// Transfer { from: None, to: Some(alice), value: 100 }
	data := unhex(t, "00"+"00"+"01"+aliceHex+u128(100))
	e, ev, err := c.DecodeEvent(data)
	if err != nil {
		t.Fatal(err)
	}
	if e.Label != "Transfer" || e.Index != 0 || !e.Fields[0].Indexed || e.Fields[2].Indexed {
		t.Errorf("event = %+v", e)
	}
	if ev.Name != "Transfer" || len(ev.Fields) != 3 {
		t.Fatalf("decoded = %s", value.Format(ev))
	}
	if from, _ := ev.Get("from"); value.Format(from) != "None" {
		t.Errorf("from = %s", value.Format(from))
	}
	if v, _ := ev.Get("value"); !value.Equal(v, value.NewUint(128, 100)) {
		t.Errorf("value = %s", value.Format(v))
	}

	shown := c.DisplayEvent(e, ev)
	want := `Transfer { from: None, to: Some("` + alice + `"), value: 100 }`
	if got := value.Format(shown); got != want {
		t.Errorf("display = %s\nwant      %s", got, want)
	}
	if got := value.Format(ev); got == want {
		t.Error("DisplayEvent must not modify the decoded value")
	}

	// Approval { owner: alice, spender: alice, value: 1 }
	e, ev, err = c.DecodeEvent(unhex(t, "01"+aliceHex+aliceHex+u128(1)))
	if err != nil {
		t.Fatal(err)
	}
	if e.Label != "Approval" {
		t.Errorf("event = %s", e.Label)
	}
	if owner, _ := ev.Get("owner"); c.Format(e.Fields[0].Type, owner) != `"`+alice+`"` {
		t.Errorf("owner = %s", c.Format(e.Fields[0].Type, owner))
	}
}

func TestDecodeEvent_Errors(t *testing.T) {
	c := load(t, "erc20.json")

	tests := []struct {
		want *terrors.Error
		name string
		data string
	}{
		{terrors.ErrUnexpectedEnd, "empty", ""},
		{terrors.ErrUnknownEventVariant, "unknown index", "07"},
		{terrors.ErrUnexpectedEnd, "truncated", "00" + "00" + "01" + aliceHex[:10]},
		{terrors.ErrInvalidDiscriminant, "bad option", "00" + "02"},
		{terrors.ErrTrailingBytes, "trailing", "00" + "00" + "00" + u128(1) + "ff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ev, err := c.DecodeEvent(unhex(t, tt.data))
			if err == nil {
				t.Fatalf("DecodeEvent = %s %s, want error", e.Label, value.Format(ev))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want.Kind)
			}
		})
	}
}

func TestDecodeEvent_ErrorContext(t *testing.T) {
	c := load(t, "erc20.json")

	_, _, err := c.DecodeEvent(unhex(t, "00"+"00"+"01"+aliceHex[:10]))
	var e *terrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if len(e.Path) < 2 || e.Path[0] != "Transfer" || e.Path[1] != "to" {
		t.Errorf("path = %v", e.Path)
	}
	if !e.HasOff || e.Offset != 3 {
		t.Errorf("offset = %d (set %v), want 3", e.Offset, e.HasOff)
	}
}
