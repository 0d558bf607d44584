// Package transcode converts between readable contract call arguments and
// the SCALE bytes a contract receives, driven entirely by the contract's
// metadata.
//
// A metadata document carries a type registry, the contract's constructors
// and messages with their selectors and argument types, and the events it
// emits. From it the library encodes calls, decodes call data and return
// values, and decodes emitted events.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	transcode/           Root package with Open and Load shortcuts
//	├── registry/        Type registry built from metadata type definitions
//	├── value/           Dynamic values shared by the parser and codecs
//	├── literal/         Literal and JSON argument parsers
//	├── scale/           SCALE encoder and decoder
//	├── contract/        Metadata loading, call resolution, event decoding
//	├── config/          YAML configuration for the command line tool
//	├── errors/          Structured error types for debugging
//	└── cmd/transcode/   Command line tool
//
// # Quick Start
//
// Encode a message call:
//
//	c, err := transcode.Open("erc20.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	call, err := c.EncodeMessage("transfer",
//	    contract.Positional("5GrwvaEF5zXb26Fz9rcQpDWS57CtERHpNehXCPcNoHGKutQY", "100")...)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%x\n", call.Data)
//
// Decode an event:
//
//	e, ev, err := c.DecodeEvent(data)
//	fmt.Println(e.Label, c.DisplayEvent(e, ev))
//
// # Literals
//
// Arguments are written in a Rust-like literal syntax:
//
//   - Primitives: true, 42, -7, 1_000, 0xff, 'c', "text"
//   - Sequences and arrays: [1, 2, 3], or 0xdeadbeef for byte arrays
//   - Tuples: (1, "a")
//   - Structs: Point { x: 1, y: 2 } or Pair(1, 2)
//   - Enums: None, Some(5), Ok(()), Err(InsufficientBalance)
//
// Account ids additionally accept SS58 addresses. JSON arguments are
// accepted anywhere a literal is.
//
// # Errors
//
// Every failure is an *errors.Error carrying the phase it happened in, a
// kind usable with errors.Is, the path of the value being processed and,
// when decoding, the byte offset.
//
// # Thread Safety
//
// A loaded Contract is read-only and safe for concurrent use.
package transcode
