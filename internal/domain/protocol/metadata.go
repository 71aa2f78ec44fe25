package protocol

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// metadataVersion prefixes the ABI encoded metadata body.
const metadataVersion byte = 0x00

var metadataArgs = func() abi.Arguments {
	str, _ := abi.NewType("string", "", nil)
	boolean, _ := abi.NewType("bool", "", nil)
	return abi.Arguments{
		{Name: "name", Type: str},
		{Name: "version", Type: str},
		{Name: "requiresRootAccess", Type: boolean},
		{Name: "iconUrl", Type: str},
		{Name: "appUrl", Type: str},
	}
}()

// EncodeMetadata serializes metadata the way plugin metadata providers store
// it: a version byte followed by abi.encode of the fields.
func EncodeMetadata(m models.PluginMetadata) ([]byte, error) {
	body, err := metadataArgs.Pack(m.Name, m.Version, m.RequiresRootAccess, m.IconURL, m.AppURL)
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata: %w", err)
	}
	return append([]byte{metadataVersion}, body...), nil
}

// DecodeMetadata parses provider bytes after checking they hash to want.
func DecodeMetadata(raw []byte, want common.Hash) (models.PluginMetadata, error) {
	if got := crypto.Keccak256Hash(raw); got != want {
		return models.PluginMetadata{}, fmt.Errorf("%w: declared %s, retrieved %s", domain.ErrMetadataMismatch, want.Hex(), got.Hex())
	}
	if len(raw) == 0 || raw[0] != metadataVersion {
		return models.PluginMetadata{}, fmt.Errorf("unsupported metadata version")
	}
	values, err := metadataArgs.Unpack(raw[1:])
	if err != nil {
		return models.PluginMetadata{}, fmt.Errorf("failed to decode metadata: %w", err)
	}
	return models.PluginMetadata{
		Name:               values[0].(string),
		Version:            values[1].(string),
		RequiresRootAccess: values[2].(bool),
		IconURL:            values[3].(string),
		AppURL:             values[4].(string),
	}, nil
}

// MetadataHash is keccak256 of the encoded metadata.
func MetadataHash(m models.PluginMetadata) (common.Hash, error) {
	raw, err := EncodeMetadata(m)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(raw), nil
}
