package protocol

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/plugrelay/internal/domain"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// MultiSendCallOnly is the canonical MultiSendCallOnly 1.3.0 deployment.
var MultiSendCallOnly = common.HexToAddress("0x40A2aCCbd92BCA938b02010E17A5b8929b49130D")

// EncodeMultiSend packs actions for multiSend(bytes): per action
// operation(1) ‖ to(20) ‖ value(32) ‖ len(data)(32) ‖ data. All actions are CALLs.
func EncodeMultiSend(actions []models.SafeProtocolAction) ([]byte, error) {
	if len(actions) == 0 {
		return nil, fmt.Errorf("%w: no actions to pack", domain.ErrInvalidEnvelope)
	}
	var out []byte
	for i, a := range actions {
		value := a.Value
		if value == nil {
			value = new(big.Int)
		}
		if err := checkUint256(fmt.Sprintf("actions[%d].value", i), value); err != nil {
			return nil, err
		}
		out = append(out, byte(models.OperationCall))
		out = append(out, a.To.Bytes()...)
		out = append(out, common.LeftPadBytes(value.Bytes(), 32)...)
		out = append(out, common.LeftPadBytes(big.NewInt(int64(len(a.Data))).Bytes(), 32)...)
		out = append(out, a.Data...)
	}
	return out, nil
}
