package speech

// DefaultVoice is used by the conversion lambda when the inbound object
// carries no voice metadata.
const DefaultVoice = "Joanna"

// Voices is the fixed set offered to clients, in menu order.
var Voices = []string{
	"Joanna",
	"Matthew",
	"Ivy",
	"Kendra",
	"Salli",
	"Joey",
	"Justin",
	"Kevin",
}

// ValidVoice reports whether id is a member of the fixed voice set.
func ValidVoice(id string) bool {
	for _, v := range Voices {
		if v == id {
			return true
		}
	}
	return false
}
