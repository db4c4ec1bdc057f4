package types

import (
	"errors"
	"fmt"
)

type (
	// TransactionOrder is the envelope all escrow operations arrive in. The
	// Sender is the invoking identity as authenticated by the surrounding
	// ledger; the escrow partition trusts it without further verification.
	TransactionOrder struct {
		_       struct{} `cbor:",toarray"`
		Payload *Payload
		Sender  AccountID
	}

	Payload struct {
		_              struct{} `cbor:",toarray"`
		SystemID       SystemID
		Type           string
		UnitID         UnitID
		Attributes     RawCBOR
		ClientMetadata *ClientMetadata
	}

	ClientMetadata struct {
		_       struct{} `cbor:",toarray"`
		Timeout uint64
	}

	// ServerMetadata is the result of executing a transaction order.
	ServerMetadata struct {
		_                 struct{} `cbor:",toarray"`
		TargetUnits       []UnitID
		SuccessIndicator  TxStatus
		ProcessingDetails RawCBOR
	}

	TxStatus uint64
)

const (
	TxStatusFailed     TxStatus = 0
	TxStatusSuccessful TxStatus = 1
)

func (t *TransactionOrder) UnmarshalAttributes(v any) error {
	if t == nil {
		return errors.New("transaction order is nil")
	}
	return t.Payload.UnmarshalAttributes(v)
}

func (t *TransactionOrder) UnitID() UnitID {
	if t.Payload == nil {
		return nil
	}
	return t.Payload.UnitID
}

func (t *TransactionOrder) SystemID() SystemID {
	if t.Payload == nil {
		return 0
	}
	return t.Payload.SystemID
}

func (t *TransactionOrder) Timeout() uint64 {
	if t.Payload == nil || t.Payload.ClientMetadata == nil {
		return 0
	}
	return t.Payload.ClientMetadata.Timeout
}

func (t *TransactionOrder) PayloadType() string {
	if t.Payload == nil {
		return ""
	}
	return t.Payload.Type
}

/*
SetAttributes serializes "attr" and assigns the result to payload's Attributes
field. The "attr" is expected to be one of the transaction attribute structs
but there is no validation!
The Payload.UnmarshalAttributes can be used to decode the attributes.
*/
func (p *Payload) SetAttributes(attr any) error {
	data, err := Cbor.Marshal(attr)
	if err != nil {
		return fmt.Errorf("marshaling %T as tx attributes: %w", attr, err)
	}
	p.Attributes = data
	return nil
}

func (p *Payload) UnmarshalAttributes(v any) error {
	if p == nil {
		return errors.New("payload is nil")
	}
	return Cbor.Unmarshal(p.Attributes, v)
}

func (p *Payload) Bytes() ([]byte, error) {
	return Cbor.Marshal(p)
}

// UnmarshalDetails decodes the ProcessingDetails of the metadata into v.
func (sm *ServerMetadata) UnmarshalDetails(v any) error {
	if sm == nil {
		return errors.New("server metadata is nil")
	}
	return Cbor.Unmarshal(sm.ProcessingDetails, v)
}
