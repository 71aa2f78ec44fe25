package bindings

import (
	"github.com/samber/lo"
	"github.com/trebuchet-org/plugrelay/internal/domain/models"
)

// ToSafeTransaction converts a built batch into its ABI tuple.
func ToSafeTransaction(tx models.SafeTransaction) SafeTransaction {
	return SafeTransaction{
		Actions:      lo.Map(tx.Actions, func(a models.SafeProtocolAction, _ int) SafeProtocolAction { return toAction(a) }),
		Nonce:        tx.Nonce,
		MetadataHash: tx.MetadataHash,
	}
}

// ToSafeRootAccess converts a built root access call into its ABI tuple.
func ToSafeRootAccess(root models.SafeRootAccess) SafeRootAccess {
	return SafeRootAccess{
		Action:       toAction(root.Action),
		Nonce:        root.Nonce,
		MetadataHash: root.MetadataHash,
	}
}

func toAction(a models.SafeProtocolAction) SafeProtocolAction {
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	return SafeProtocolAction{To: a.To, Value: a.Value, Data: data}
}
