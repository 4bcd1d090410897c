package transformers

import (
	"fmt"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/refdata"
)

// GetTransformer returns the variant for an institution code. threshold is
// the similarity ratio floor for description-based identifier matching.
func GetTransformer(institution string, client *refdata.Client, threshold float64) (Transformer, error) {
	switch institution {
	case "jpm":
		return NewJPMTransformer(client, threshold), nil
	case "ms":
		return NewMSTransformer(client, threshold), nil
	case "cs":
		return NewCSTransformer(client, threshold), nil
	case "csc":
		return NewCSCTransformer(client, threshold), nil
	case "pershing":
		return NewPershingTransformer(client, threshold), nil
	case "jb":
		return NewJBTransformer(client, threshold), nil
	case "lombard":
		return NewLombardTransformer(client, threshold), nil
	case "safra":
		return NewSafraTransformer(client, threshold), nil
	case "valley":
		return NewValleyTransformer(client, threshold), nil
	case "idb":
		return NewIDBTransformer(client, threshold), nil
	case "hsbc":
		return NewHSBCTransformer(client, threshold), nil
	case "banchile":
		return NewBanchileTransformer(client, threshold), nil
	case "citi":
		return NewCitiTransformer(client, threshold), nil
	case "santander":
		return NewSantanderTransformer(client, threshold), nil
	case "pictet":
		return NewPictetTransformer(client, threshold), nil
	default:
		return nil, fmt.Errorf("no transformer available for institution: %s", institution)
	}
}
