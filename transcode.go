package transcode

import (
	"github.com/wippyai/contract-transcode/contract"
)

// Open loads a metadata document or .contract bundle from path with the
// default options.
func Open(path string) (*contract.Contract, error) {
	return contract.LoadFile(path, contract.DefaultOptions())
}

// Load parses metadata JSON with the default options.
func Load(data []byte) (*contract.Contract, error) {
	return contract.LoadWithDefaults(data)
}
