package escrow

import (
	"errors"
	"fmt"

	"github.com/alphabill-org/alphabill-escrow/types"
)

// Built-in capability templates. A typed condition whose capability handle
// decodes as one of these is self-contained: it needs no host environment
// beyond the current round number.
const (
	TemplateAlwaysFalse   uint64 = 0x00
	TemplateAlwaysTrue    uint64 = 0x01
	TemplateHeightReached uint64 = 0x02
)

type (
	capabilityTemplate struct {
		_      struct{} `cbor:",toarray"`
		Tag    uint64
		Height uint64
	}

	// TemplateVerifier is a CapabilityVerifier over the built-in templates.
	TemplateVerifier struct {
		round func() uint64
	}
)

func NewTemplateVerifier(round func() uint64) *TemplateVerifier {
	return &TemplateVerifier{round: round}
}

func AlwaysTrueCapability() types.Bytes {
	return mustMarshalTemplate(&capabilityTemplate{Tag: TemplateAlwaysTrue})
}

func AlwaysFalseCapability() types.Bytes {
	return mustMarshalTemplate(&capabilityTemplate{Tag: TemplateAlwaysFalse})
}

// HeightReachedCapability holds once the current round reaches the given
// height.
func HeightReachedCapability(height uint64) types.Bytes {
	return mustMarshalTemplate(&capabilityTemplate{Tag: TemplateHeightReached, Height: height})
}

func mustMarshalTemplate(tmpl *capabilityTemplate) types.Bytes {
	data, err := types.Cbor.Marshal(tmpl)
	if err != nil {
		panic(fmt.Sprintf("marshaling capability template: %v", err))
	}
	return data
}

func (v *TemplateVerifier) Verify(capability types.Bytes) (bool, error) {
	tmpl := &capabilityTemplate{}
	if err := types.Cbor.Unmarshal(capability, tmpl); err != nil {
		return false, fmt.Errorf("decoding capability template: %w", err)
	}
	switch tmpl.Tag {
	case TemplateAlwaysFalse:
		return false, nil
	case TemplateAlwaysTrue:
		return true, nil
	case TemplateHeightReached:
		if v.round == nil {
			return false, errors.New("no round source configured")
		}
		return v.round() >= tmpl.Height, nil
	default:
		return false, fmt.Errorf("unknown capability template 0x%02X", tmpl.Tag)
	}
}
