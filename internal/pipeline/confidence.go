package pipeline

// Confidence aggregates error and word counts into a document-level score.
//
// No errors (or nothing to check) scores 1.0. Otherwise the score decreases
// linearly with the error ratio, floored at 0.5:
//
//	max(0.5, 1.0 - (errorsFound/wordsChecked) * 0.5)
func Confidence(errorsFound, wordsChecked int) float64 {
	if errorsFound == 0 || wordsChecked == 0 {
		return 1.0
	}
	c := 1.0 - (float64(errorsFound)/float64(wordsChecked))*0.5
	if c < 0.5 {
		return 0.5
	}
	return c
}
