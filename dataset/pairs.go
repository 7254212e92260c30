package dataset

import (
	"github.com/nvr-ai/go-segeval/common"
	"github.com/nvr-ai/go-segeval/util"
)

// Pair is one ground-truth/prediction image pair.
type Pair struct {
	// GroundTruth is relative to the ground-truth directory.
	GroundTruth string
	// Prediction is a bare file name inside the prediction directory.
	Prediction string
}

// LoadPairs reads label.txt and image.txt in lock-step. Line i of one list
// pairs with line i of the other. Predictions are looked up by the base name
// of the image entry.
func LoadPairs(l Layout) ([]Pair, error) {
	gts, err := util.ReadPathList(l.LabelListPath())
	if err != nil {
		return nil, common.NewError(common.KindConfigNotFound, "load label list", l.LabelListPath(), err)
	}
	preds, err := util.ReadPathList(l.ImageListPath())
	if err != nil {
		return nil, common.NewError(common.KindConfigNotFound, "load image list", l.ImageListPath(), err)
	}
	if len(gts) != len(preds) {
		return nil, common.Errorf(common.KindConfigMalformed, "load pairs",
			"%s has %d entries but %s has %d", l.LabelListPath(), len(gts), l.ImageListPath(), len(preds))
	}

	pairs := make([]Pair, len(gts))
	for i := range gts {
		pairs[i] = Pair{GroundTruth: gts[i], Prediction: util.BaseName(preds[i])}
	}
	return pairs, nil
}
