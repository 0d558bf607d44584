package contract_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wippyai/contract-transcode/contract"
	terrors "github.com/wippyai/contract-transcode/errors"
	"github.com/wippyai/contract-transcode/value"
)

const (
	alice    = "5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY"
	aliceHex = "d43593c715fdd31c61141abd04a99fd6822c8558854ccde39a5684e7a56da27d"
)

func load(t testing.TB, name string) *contract.Contract {
	t.Helper()
	c, err := contract.LoadFile(filepath.Join("testdata", name), contract.DefaultOptions())
	if err != nil {
		t.Fatalf("LoadFile(%s): %v", name, err)
	}
	return c
}

func unhex(t testing.TB, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatal(err)
	}
	return b
}

// u128 returns the little-endian encoding of v as a u128.
func u128(v byte) string {
	return hex.EncodeToString([]byte{v}) + strings.Repeat("00", 15)
}

func TestLoad_Flipper(t *testing.T) {
	c := load(t, "flipper.json")

	if c.Name() != "flipper" || c.Version() != "4.3.0" || c.MetadataVersion() != "4" {
		t.Errorf("name/version = %q %q %q", c.Name(), c.Version(), c.MetadataVersion())
	}
	if len(c.Constructors()) != 2 || len(c.Messages()) != 2 || len(c.Events()) != 0 {
		t.Fatalf("entries = %d constructors, %d messages, %d events",
			len(c.Constructors()), len(c.Messages()), len(c.Events()))
	}
	if c.HasCode() {
		t.Error("plain metadata should carry no code")
	}

	flip, ok := c.Message("flip")
	if !ok {
		t.Fatal("flip not found")
	}
	if flip.Selector.String() != "0xba563ba6" || !flip.Mutates || flip.ReturnType == nil {
		t.Errorf("flip = %+v", flip)
	}
	def, ok := c.Constructor("default")
	if !ok || !def.Default {
		t.Errorf("default constructor = %+v", def)
	}
	if c.Registry().TypeName(*flip.ReturnType) != "Result<(), LangError>" {
		t.Errorf("flip return type = %s", c.Registry().TypeName(*flip.ReturnType))
	}
}

func TestEncodeMessage_Flip(t *testing.T) {
	c := load(t, "flipper.json")

	for _, name := range []string{"flip", "0xba563ba6", "0xBA563BA6"} {
		call, err := c.EncodeMessage(name)
		if err != nil {
			t.Fatalf("EncodeMessage(%s): %v", name, err)
		}
		if !bytes.Equal(call.Data, []byte{0xBA, 0x56, 0x3B, 0xA6}) {
			t.Errorf("EncodeMessage(%s) = %x, want ba563ba6", name, call.Data)
		}
		if call.Entry.Label != "flip" || len(call.Args) != 0 {
			t.Errorf("entry = %s, args = %v", call.Entry.Label, call.Args)
		}
	}
}

func TestEncodeConstructor(t *testing.T) {
	c := load(t, "flipper.json")

	tests := []struct {
		name string
		call string
		want string
		args []contract.Arg
	}{
		{"positional", "new", "9bae9d5e01", contract.Positional("true")},
		{"named", "new", "9bae9d5e00", []contract.Arg{contract.Named("init_value", "false")}},
		{"json", "new", "9bae9d5e01", []contract.Arg{contract.JSONArg("", []byte(`true`))}},
		{"value", "new", "9bae9d5e00", []contract.Arg{contract.ValueArg("", value.Bool(false))}},
		{"no args", "default", "ed4b9d1b", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := c.EncodeConstructor(tt.call, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := hex.EncodeToString(call.Data); got != tt.want {
				t.Errorf("data = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestEncodeMessage_Transfer(t *testing.T) {
	c := load(t, "erc20.json")
	want := "84a15da1" + aliceHex + u128(100)

	tests := []struct {
		name string
		args []contract.Arg
	}{
		{"ss58", contract.Positional(alice, "100")},
		{"hex account", contract.Positional("0x"+aliceHex, "100")},
		{"named any order", []contract.Arg{contract.Named("value", "100"), contract.Named("to", alice)}},
		{"json", []contract.Arg{contract.JSONArg("to", []byte(`"`+alice+`"`)), contract.JSONArg("value", []byte(`100`))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := c.EncodeMessage("transfer", tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := hex.EncodeToString(call.Data); got != want {
				t.Errorf("data = %s\nwant   %s", got, want)
			}
			if call.Args[0].Name != "to" || call.Args[1].Name != "value" {
				t.Errorf("args = %v", call.Args)
			}
		})
	}
}

func TestEncodeMessage_Overloads(t *testing.T) {
	c := load(t, "erc20.json")

	tests := []struct {
		name     string
		call     string
		selector string
		args     []contract.Arg
	}{
		{"by arity", "transfer", "0b396f18", contract.Positional(alice, "1", "0x0102")},
		{"by names", "mint", "3c4fb6ef", []contract.Arg{contract.Named("memo", `"hi"`), contract.Named("value", "5")}},
		{"by other names", "mint", "cfdd9aa2", []contract.Arg{contract.Named("to", alice), contract.Named("value", "5")}},
		{"by selector", "0x3c4fb6ef", "3c4fb6ef", contract.Positional("5", "memo")},
		{"short label", "allowance", "4d47d921", contract.Positional(alice, alice)},
		{"trait label", "PSP22::allowance", "4d47d921", contract.Positional(alice, alice)},
		{"computed selector", "burn_all", "4585bbf1", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := c.EncodeMessage(tt.call, tt.args...)
			if err != nil {
				t.Fatal(err)
			}
			if got := hex.EncodeToString(call.Data[:4]); got != tt.selector {
				t.Errorf("selector = %s, want %s", got, tt.selector)
			}
		})
	}

	if got := contract.ComputeSelector("burn_all").String(); got != "0x4585bbf1" {
		t.Errorf("ComputeSelector(burn_all) = %s", got)
	}
}

func TestEncode_Errors(t *testing.T) {
	c := load(t, "erc20.json")

	tests := []struct {
		want *terrors.Error
		name string
		call string
		args []contract.Arg
	}{
		{terrors.ErrCallNotFound, "unknown", "approve", nil},
		{terrors.ErrCallNotFound, "unknown selector", "0xdeadbeef", nil},
		{terrors.ErrArityMismatch, "too many", "total_supply", contract.Positional("1")},
		{terrors.ErrArityMismatch, "no overload", "transfer", contract.Positional(alice)},
		{terrors.ErrArityMismatch, "wrong names", "balance_of", []contract.Arg{contract.Named("who", alice)}},
		{terrors.ErrArityMismatch, "mixed", "transfer", []contract.Arg{contract.Named("to", alice), {Text: "1"}}},
		{terrors.ErrAmbiguousCall, "same arity", "mint", contract.Positional("1", "2")},
		{terrors.ErrLiteralParse, "bad literal", "transfer", contract.Positional(alice, "lots")},
		{terrors.ErrLiteralParse, "bad address", "balance_of", contract.Positional("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQZ")},
		{terrors.ErrOverflow, "overflow", "transfer", contract.Positional(alice, "-1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := c.EncodeMessage(tt.call, tt.args...)
			if err == nil {
				t.Fatalf("EncodeMessage = %x, want error", call.Data)
			}
			if call != nil {
				t.Error("no call may be returned on error")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want.Kind)
			}
		})
	}
}

func TestEncode_ArgumentErrorPath(t *testing.T) {
	c := load(t, "erc20.json")

	_, err := c.EncodeMessage("transfer", contract.Positional(alice, "lots")...)
	var e *terrors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error = %v", err)
	}
	if len(e.Path) == 0 || e.Path[0] != "value" {
		t.Errorf("path = %v, want it to start with value", e.Path)
	}
	if e.Phase != terrors.PhaseParse {
		t.Errorf("phase = %s", e.Phase)
	}
}

const crossKindDoc = `{
  "types": [{"id": 0, "type": {"def": {"primitive": "bool"}}}],
  "spec": {
    "constructors": [{"label": "get", "selector": "0x00000001", "args": []}],
    "messages": [
      {"label": "get", "selector": "0x00000002", "args": []},
      {"label": "set", "selector": "0x00000003", "args": [{"label": "v", "type": {"type": 0}}]}
    ],
    "events": []
  }
}`

func TestEncodeCall(t *testing.T) {
	c, err := contract.LoadWithDefaults([]byte(crossKindDoc))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.EncodeCall("get"); !errors.Is(err, terrors.ErrAmbiguousCall) {
		t.Errorf("EncodeCall(get) error = %v, want ambiguous_call", err)
	}
	call, err := c.EncodeCall("0x00000002")
	if err != nil {
		t.Fatal(err)
	}
	if call.Entry.Kind != contract.CallMessage {
		t.Errorf("kind = %s", call.Entry.Kind)
	}
	call, err = c.EncodeCall("set", contract.Positional("true")...)
	if err != nil {
		t.Fatal(err)
	}
	if hex.EncodeToString(call.Data) != "0000000301" {
		t.Errorf("data = %x", call.Data)
	}
	if _, err := c.EncodeConstructor("get"); err != nil {
		t.Errorf("EncodeConstructor(get): %v", err)
	}
}

func TestDecodeMessageCall(t *testing.T) {
	c := load(t, "erc20.json")

	call, err := c.EncodeMessage("transfer", contract.Positional(alice, "100", "0xcafe")...)
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.DecodeMessageCall(call.Data)
	if err != nil {
		t.Fatal(err)
	}
	if got.Entry != call.Entry {
		t.Fatalf("entry = %s %s", got.Entry.Label, got.Entry.Selector)
	}
	for i := range call.Args {
		if !value.Equal(got.Args[i].Value, call.Args[i].Value) {
			t.Errorf("arg %s = %s, want %s", got.Args[i].Name, got.Args[i].Value, call.Args[i].Value)
		}
	}

	shown := c.DisplayFields(got.Entry.Args, got.Args)
	if s, ok := shown[0].Value.(value.String); !ok || string(s) != alice {
		t.Errorf("displayed account = %v", shown[0].Value)
	}

	tests := []struct {
		want *terrors.Error
		name string
		data []byte
	}{
		{terrors.ErrUnexpectedEnd, "short selector", []byte{0x84, 0xa1}},
		{terrors.ErrCallNotFound, "unknown selector", []byte{1, 2, 3, 4}},
		{terrors.ErrUnexpectedEnd, "truncated args", call.Data[:10]},
		{terrors.ErrTrailingBytes, "trailing", append(append([]byte(nil), call.Data...), 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.DecodeMessageCall(tt.data); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %s", err, tt.want.Kind)
			}
		})
	}

	ctor, err := c.DecodeConstructorCall(unhex(t, "9bae9d5e"+u128(7)))
	if err != nil {
		t.Fatal(err)
	}
	if ctor.Entry.Label != "new" || ctor.Args[0].Value.(*value.Int).String() != "7" {
		t.Errorf("constructor call = %s %v", ctor.Entry.Label, ctor.Args)
	}
}

func TestDecodeReturn(t *testing.T) {
	erc20 := load(t, "erc20.json")
	flipper := load(t, "flipper.json")

	v, err := erc20.DecodeReturn("total_supply", unhex(t, "00"+"e803"+strings.Repeat("00", 14)))
	if err != nil {
		t.Fatal(err)
	}
	want := value.NewVariant("Ok", value.Field{Value: value.NewUint(128, 1000)})
	if !value.Equal(v, want) {
		t.Errorf("total_supply = %s, want %s", value.Format(v), value.Format(want))
	}

	v, err = erc20.DecodeReturn("transfer", unhex(t, "00 01 00"))
	if err == nil {
		// transfer is overloaded, so it must be named by selector
		t.Fatalf("DecodeReturn(transfer) = %s, want ambiguous_call", value.Format(v))
	}
	if !errors.Is(err, terrors.ErrAmbiguousCall) {
		t.Errorf("error = %v", err)
	}
	v, err = erc20.DecodeReturn("0x84a15da1", unhex(t, "00 01 00"))
	if err != nil {
		t.Fatal(err)
	}
	if value.Format(v) != "Ok(Err(InsufficientBalance))" {
		t.Errorf("transfer = %s", value.Format(v))
	}

	v, err = flipper.DecodeReturn("get", unhex(t, "0001"))
	if err != nil {
		t.Fatal(err)
	}
	if value.Format(v) != "Ok(true)" {
		t.Errorf("get = %s", value.Format(v))
	}
	if _, err := flipper.DecodeReturn("get", unhex(t, "000100")); !errors.Is(err, terrors.ErrTrailingBytes) {
		t.Errorf("trailing error = %v", err)
	}
	if _, err := flipper.DecodeReturn("get", unhex(t, "0002")); !errors.Is(err, terrors.ErrInvalidData) {
		t.Errorf("bad bool error = %v", err)
	}
	v, err = flipper.DecodeConstructorReturn("new", unhex(t, "0100"))
	if err == nil {
		t.Fatalf("LangError index 0 decoded as %s", value.Format(v))
	}
	if !errors.Is(err, terrors.ErrInvalidDiscriminant) {
		t.Errorf("error = %v", err)
	}

	c, err := contract.LoadWithDefaults([]byte(crossKindDoc))
	if err != nil {
		t.Fatal(err)
	}
	v, err = c.DecodeReturn("set", nil)
	if err != nil || !value.Equal(v, value.Unit()) {
		t.Errorf("no return type = %v, %v", v, err)
	}
	if _, err := c.DecodeReturn("set", []byte{1}); !errors.Is(err, terrors.ErrTrailingBytes) {
		t.Errorf("no return type with data error = %v", err)
	}
}
