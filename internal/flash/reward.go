package flash

// Reward is the Fisher information a challenge brings at capacity:
// discriminant² · P · (1-P). A zero discriminant carries no information.
func Reward(capacity, discriminant, difficulty float64) float64 {
	if discriminant == 0 {
		return 0
	}
	p := probability(capacity, discriminant, difficulty)
	return discriminant * discriminant * p * (1 - p)
}
