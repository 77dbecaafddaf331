package corpus

import (
	"fmt"
	"math"

	"github.com/BaSui01/freqflow/types"
)

// Logit returns the log-odds of p. The domain is the open interval (0,1);
// anything else maps to INVALID_CONFIG.
func Logit(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, types.NewError(types.ErrInvalidConfig,
			fmt.Sprintf("probability must be strictly between 0 and 1, got %v", p))
	}
	return math.Log(p / (1 - p)), nil
}

// Sigmoid is the inverse of Logit, mapping any real number into (0,1).
func Sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
