package state

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/alphabill-org/alphabill-escrow/types"
	"github.com/alphabill-org/alphabill-escrow/util"
)

// CBORChecksumLength is the encoded length of the fixed size checksum byte
// array appended to the state stream.
const CBORChecksumLength = 5

type (
	header struct {
		_               struct{} `cbor:",toarray"`
		Version         uint64
		Round           uint64
		NodeRecordCount uint64
	}

	nodeRecord struct {
		_        struct{} `cbor:",toarray"`
		UnitID   types.UnitID
		UnitData types.RawCBOR
	}
)

// Serialize writes the state to the given writer: a header, the unit records
// in unit id order and a CRC32 checksum of the whole stream. Round is stored
// in the header so a recovered state resumes from the correct height.
func (s *State) Serialize(writer io.Writer, round uint64, committed bool) error {
	crc32Writer := NewCRC32Writer(writer)
	encoder := types.Cbor.GetEncoder(crc32Writer)

	count := uint64(0)
	countUnits := func(id types.UnitID, u *Unit) error { count++; return nil }
	if err := s.Traverse(committed, countUnits); err != nil {
		return fmt.Errorf("unable to count node records: %w", err)
	}

	h := &header{Version: 1, Round: round, NodeRecordCount: count}
	if err := encoder.Encode(h); err != nil {
		return fmt.Errorf("unable to write header: %w", err)
	}

	writeUnit := func(id types.UnitID, u *Unit) error {
		unitDataBytes, err := types.Cbor.Marshal(u.Data())
		if err != nil {
			return fmt.Errorf("unable to encode unit data: %w", err)
		}
		if err := encoder.Encode(&nodeRecord{UnitID: id, UnitData: unitDataBytes}); err != nil {
			return fmt.Errorf("unable to encode node record: %w", err)
		}
		return nil
	}
	if err := s.Traverse(committed, writeUnit); err != nil {
		return fmt.Errorf("unable to write node records: %w", err)
	}

	// Write checksum (as a fixed length byte array for easier decoding)
	if err := encoder.Encode(util.Uint32ToBytes(crc32Writer.Sum())); err != nil {
		return fmt.Errorf("unable to write checksum: %w", err)
	}
	return nil
}

// NewRecoveredState reads a state serialized with Serialize. The unit data
// constructor materializes the concrete UnitData type for each record based
// on the unit id type part. Returns the state and the round stored in the
// header; the recovered state is committed.
func NewRecoveredState(stateData io.Reader, udc UnitDataConstructor) (*State, uint64, error) {
	if stateData == nil {
		return nil, 0, errors.New("reader is nil")
	}
	if udc == nil {
		return nil, 0, errors.New("unit data constructor is nil")
	}

	crc32Reader := NewCRC32Reader(stateData, CBORChecksumLength)
	decoder := types.Cbor.GetDecoder(crc32Reader)

	var h header
	if err := decoder.Decode(&h); err != nil {
		return nil, 0, fmt.Errorf("unable to decode header: %w", err)
	}
	if h.Version != 1 {
		return nil, 0, fmt.Errorf("unsupported state file version %d", h.Version)
	}

	s := NewEmptyState()
	for i := uint64(0); i < h.NodeRecordCount; i++ {
		var record nodeRecord
		if err := decoder.Decode(&record); err != nil {
			return nil, 0, fmt.Errorf("unable to decode node record: %w", err)
		}
		unitData, err := udc(record.UnitID)
		if err != nil {
			return nil, 0, fmt.Errorf("unable to construct unit data: %w", err)
		}
		if err := types.Cbor.Unmarshal(record.UnitData, unitData); err != nil {
			return nil, 0, fmt.Errorf("unable to decode unit data: %w", err)
		}
		if err := s.Apply(AddUnit(record.UnitID, unitData)); err != nil {
			return nil, 0, fmt.Errorf("unable to add unit: %w", err)
		}
	}

	checksum := crc32Reader.Sum()
	var storedChecksum []byte
	if err := decoder.Decode(&storedChecksum); err != nil {
		return nil, 0, fmt.Errorf("unable to decode checksum: %w", err)
	}
	if !bytes.Equal(util.Uint32ToBytes(checksum), storedChecksum) {
		return nil, 0, errors.New("checksum mismatch")
	}

	s.Commit()
	return s, h.Round, nil
}
