package types

// Command words the host parser extracts for user commands. Only the letters
// this firmware family passes through to user codes are represented.
type WordLetter byte

const (
	WordP WordLetter = 'P'
	WordQ WordLetter = 'Q'
	WordR WordLetter = 'R'
	WordS WordLetter = 'S'
)

// Word is one parsed parameter word.
type Word struct {
	Letter WordLetter
	Value  float32
}

// Block is the host-parsed form of one user command (e.g. "M552 P300 Q2").
// The executor must consume every word it accepts; leftover words are a
// validation error for commands that take none.
type Block struct {
	Code  uint16 // user code number, e.g. 552
	Words []Word
}

// Word returns the value of the first word with the given letter.
func (b *Block) Word(l WordLetter) (float32, bool) {
	for _, w := range b.Words {
		if w.Letter == l {
			return w.Value, true
		}
	}
	return 0, false
}

// HasUnknownWords reports whether any word's letter is outside accepted.
func (b *Block) HasUnknownWords(accepted ...WordLetter) bool {
	for _, w := range b.Words {
		ok := false
		for _, a := range accepted {
			if w.Letter == a {
				ok = true
				break
			}
		}
		if !ok {
			return true
		}
	}
	return false
}
