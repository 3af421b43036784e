package datecode

// hourLetters maps hour of day (index) to its Air code letter. I and O are
// skipped.
var hourLetters = [24]byte{
	'A', 'B', 'C', 'D', 'E', 'F', 'G', 'H', 'J', 'K', 'L', 'M',
	'N', 'P', 'Q', 'R', 'S', 'T', 'U', 'V', 'W', 'X', 'Y', 'Z',
}

// HourLetter returns the letter for hour h (0-23). It panics if h is out of range.
func HourLetter(h int) byte {
	return hourLetters[h]
}

// HourIndex returns the hour of day encoded by letter c, matching
// case-insensitively.
func HourIndex(c byte) (int, bool) {
	if 'a' <= c && c <= 'z' {
		c -= 'a' - 'A'
	}
	for i, l := range hourLetters {
		if l == c {
			return i, true
		}
	}
	return 0, false
}
