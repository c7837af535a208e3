package helper

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// GetDriverCodeName reduces a driver's full name to a short table code:
// first letter of the first name plus the first letters of the surname.
func GetDriverCodeName(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Split(name, " ")
	code := string(words[0][0])
	if len(words) > 1 {
		last := words[len(words)-1]
		if len(last) > 2 {
			code += last[:2]
		} else {
			code += last
		}
	} else {
		if len(words[0]) > 2 {
			code += words[0][1:3]
		} else {
			code += words[0]
		}
	}
	return strings.ToUpper(code)
}

// ToID hashes a free-text name into a short stable identifier.
func ToID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprint(h.Sum32())
}

// SanitizeFileName makes an event name safe to embed in a file name.
func SanitizeFileName(name string) string {
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-")
	return replacer.Replace(name)
}
